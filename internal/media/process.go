package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
)

const (
	MaxImageSize = 5 << 20
	MaxEdge      = 1024
	MaxPixels    = 40_000_000
	JPEGQuality  = 80
)

var (
	ErrTooLarge        = errors.New("image file too large (max 5MB)")
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrDecode          = errors.New("image could not be decoded")
	ErrTooManyPixels   = errors.New("image dimensions too large (max 40 megapixels)")
)

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
}

// Process checks an uploaded image, scales it down so its longest edge is at
// most MaxEdge pixels and re-encodes it as JPEG. size is the declared upload
// size; the reader is still capped in case it lies.
func Process(filename string, size int64, r io.Reader) ([]byte, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		if ext == "" {
			ext = "(none)"
		}
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}
	if size > MaxImageSize {
		return nil, ErrTooLarge
	}

	raw, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(raw) > MaxImageSize {
		return nil, ErrTooLarge
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooManyPixels, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	scaled := resize.Thumbnail(MaxEdge, MaxEdge, img, resize.Lanczos3)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, flatten(scaled), &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return out.Bytes(), nil
}

// flatten draws img over a white background so transparent PNG and GIF
// pixels do not turn black in the JPEG.
func flatten(img image.Image) image.Image {
	b := img.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(dst, b, img, b.Min, draw.Over)
	return dst
}
