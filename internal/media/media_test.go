package media

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 7 {
		img.Set(x, h/2, color.NRGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func decodeJPEG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a jpeg: %v", err)
	}
	return img
}

func TestProcessDownscalesLongestEdge(t *testing.T) {
	raw := pngOf(t, 2048, 1024)
	out, err := Process("watch.PNG", int64(len(raw)), bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	b := decodeJPEG(t, out).Bounds()
	if b.Dx() != 1024 || b.Dy() != 512 {
		t.Fatalf("expected 1024x512, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestProcessKeepsSmallImages(t *testing.T) {
	raw := pngOf(t, 300, 200)
	out, err := Process("small.png", int64(len(raw)), bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	b := decodeJPEG(t, out).Bounds()
	if b.Dx() != 300 || b.Dy() != 200 {
		t.Fatalf("small image must not be upscaled, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestProcessRejectsBadInput(t *testing.T) {
	if _, err := Process("doc.pdf", 10, strings.NewReader("x")); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if _, err := Process("big.jpg", MaxImageSize+1, strings.NewReader("x")); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge for declared size, got %v", err)
	}

	oversized := bytes.Repeat([]byte{0}, MaxImageSize+10)
	if _, err := Process("big.jpg", 10, bytes.NewReader(oversized)); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge for actual size, got %v", err)
	}

	if _, err := Process("broken.jpg", 5, strings.NewReader("hello")); !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

// pngClaiming returns a tiny PNG whose header declares w x h pixels.
func pngClaiming(t *testing.T, w, h uint32) []byte {
	t.Helper()
	raw := pngOf(t, 1, 1)
	// signature(8) length(4) "IHDR"(4) width(4) height(4) ... crc at 29
	binary.BigEndian.PutUint32(raw[16:20], w)
	binary.BigEndian.PutUint32(raw[20:24], h)
	binary.BigEndian.PutUint32(raw[29:33], crc32.ChecksumIEEE(raw[12:29]))
	return raw
}

func TestProcessRejectsHugeDimensionsBeforeDecoding(t *testing.T) {
	raw := pngClaiming(t, 20000, 20000)
	if len(raw) > 1024 {
		t.Fatalf("crafted image should be tiny, got %d bytes", len(raw))
	}
	if _, err := Process("bomb.png", int64(len(raw)), bytes.NewReader(raw)); !errors.Is(err, ErrTooManyPixels) {
		t.Fatalf("expected ErrTooManyPixels, got %v", err)
	}
}

func TestLocalUploaderRoundTrip(t *testing.T) {
	dir := t.TempDir()
	u := NewLocalUploader(dir, "https://shop.example/")
	ctx := context.Background()

	url, err := u.Upload(ctx, []byte("jpeg-bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(url, "https://shop.example/public/uploads/products/") || !strings.HasSuffix(url, ".jpg") {
		t.Fatalf("unexpected url %q", url)
	}

	rel := strings.TrimPrefix(url, "https://shop.example/public/")
	full := filepath.Join(dir, filepath.FromSlash(rel))
	if _, err := os.Stat(full); err != nil {
		t.Fatalf("uploaded file missing: %v", err)
	}

	if err := u.Delete(ctx, url); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(full); !os.IsNotExist(err) {
		t.Fatal("file should be gone after delete")
	}
	if err := u.Delete(ctx, url); err != nil {
		t.Fatalf("deleting a missing file should succeed, got %v", err)
	}
}

func TestLocalUploaderRefusesForeignPaths(t *testing.T) {
	u := NewLocalUploader(t.TempDir(), "")
	for _, url := range []string{"/public/../../etc/passwd", "/public/other/file.jpg", "/public/uploads/products/../../secret"} {
		if err := u.Delete(context.Background(), url); err == nil {
			t.Fatalf("expected refusal for %q", url)
		}
	}
}

type failingUploader struct{}

func (failingUploader) Upload(context.Context, []byte) (string, error) {
	return "", errors.New("quota exceeded")
}

func (failingUploader) Delete(context.Context, string) error { return nil }

func TestIngestSurfacesUploadError(t *testing.T) {
	raw := pngOf(t, 10, 10)
	_, err := NewIngestor(failingUploader{}).Ingest(context.Background(), "a.png", int64(len(raw)), bytes.NewReader(raw))

	var uerr *UploadError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UploadError, got %v", err)
	}
	if !strings.Contains(uerr.Error(), "quota exceeded") {
		t.Fatalf("upstream message lost: %v", uerr)
	}
}

func TestIngestStoresProcessedImage(t *testing.T) {
	dir := t.TempDir()
	ing := NewIngestor(NewLocalUploader(dir, ""))
	raw := pngOf(t, 1500, 1500)

	url, err := ing.Ingest(context.Background(), "a.png", int64(len(raw)), bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(url, "/public/"))))
	if err != nil {
		t.Fatalf("read stored image: %v", err)
	}
	b := decodeJPEG(t, data).Bounds()
	if b.Dx() != 1024 || b.Dy() != 1024 {
		t.Fatalf("expected 1024x1024, got %dx%d", b.Dx(), b.Dy())
	}
}
