package media

import (
	"context"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Uploader stores a processed image and returns the URL it is served from.
type Uploader interface {
	Upload(ctx context.Context, data []byte) (string, error)
	Delete(ctx context.Context, url string) error
}

const uploadPrefix = "uploads/products"

func newObjectName() string {
	return path.Join(uploadPrefix, uuid.NewString()+".jpg")
}

// LocalUploader writes images under PublicDir, which the server exposes at
// /public.
type LocalUploader struct {
	PublicDir string
	BaseURL   string
}

func NewLocalUploader(publicDir, baseURL string) *LocalUploader {
	return &LocalUploader{
		PublicDir: publicDir,
		BaseURL:   strings.TrimRight(strings.TrimSpace(baseURL), "/"),
	}
}

func (u *LocalUploader) Upload(_ context.Context, data []byte) (string, error) {
	rel := newObjectName()
	fullPath := filepath.Join(u.PublicDir, filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		log.Printf("[UPLOAD] [ERROR] failed to create directory for %s: %v", fullPath, err)
		return "", err
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		log.Printf("[UPLOAD] [ERROR] failed to write %s: %v", fullPath, err)
		return "", err
	}

	log.Printf("[UPLOAD] [INFO] stored %s (%d bytes)", rel, len(data))
	return u.BaseURL + "/public/" + rel, nil
}

// Delete removes a previously uploaded file. URLs outside the upload
// directory are refused; a missing file is not an error.
func (u *LocalUploader) Delete(_ context.Context, url string) error {
	trimmed := strings.TrimSpace(url)
	if trimmed == "" {
		return nil
	}
	trimmed = strings.TrimPrefix(trimmed, u.BaseURL)
	trimmed = strings.TrimPrefix(trimmed, "/public")

	cleanRel := strings.TrimPrefix(path.Clean("/"+strings.TrimPrefix(trimmed, "/")), "/")
	if !strings.HasPrefix(cleanRel, uploadPrefix+"/") {
		return fmt.Errorf("refusing to delete non-upload path: %s", url)
	}

	cleanBase := filepath.Clean(u.PublicDir)
	target := filepath.Clean(filepath.Join(cleanBase, filepath.FromSlash(cleanRel)))
	if !strings.HasPrefix(target, cleanBase+string(os.PathSeparator)) {
		return fmt.Errorf("refusing to delete path outside public root: %s", url)
	}

	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
