package media

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

const defaultGCSBaseURL = "https://storage.googleapis.com"

// GCSUploader stores images in a Cloud Storage bucket that is publicly
// readable through uniform bucket-level access.
type GCSUploader struct {
	Client        *storage.Client
	Bucket        string
	PublicBaseURL string
}

func NewGCSUploader(client *storage.Client, bucket string) *GCSUploader {
	return &GCSUploader{
		Client:        client,
		Bucket:        strings.TrimSpace(bucket),
		PublicBaseURL: defaultGCSBaseURL,
	}
}

func (u *GCSUploader) bucket() (*storage.BucketHandle, error) {
	if u == nil || u.Client == nil {
		return nil, errors.New("gcs uploader: storage client is nil")
	}
	if u.Bucket == "" {
		return nil, errors.New("gcs uploader: bucket is empty")
	}
	return u.Client.Bucket(u.Bucket), nil
}

func (u *GCSUploader) publicURL(object string) string {
	base := strings.TrimRight(u.PublicBaseURL, "/")
	if base == "" {
		base = defaultGCSBaseURL
	}
	return base + "/" + u.Bucket + "/" + object
}

func (u *GCSUploader) Upload(ctx context.Context, data []byte) (string, error) {
	bh, err := u.bucket()
	if err != nil {
		return "", err
	}

	object := newObjectName()
	w := bh.Object(object).NewWriter(ctx)
	w.ContentType = "image/jpeg"
	w.CacheControl = "public, max-age=31536000"
	w.Metadata = map[string]string{
		"uploadedAt": time.Now().UTC().Format(time.RFC3339),
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("gcs upload %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("gcs upload %s: %w", object, err)
	}
	return u.publicURL(object), nil
}

func (u *GCSUploader) Delete(ctx context.Context, url string) error {
	bh, err := u.bucket()
	if err != nil {
		return err
	}
	prefix := u.publicURL("")
	if !strings.HasPrefix(url, prefix) {
		return fmt.Errorf("refusing to delete object outside bucket %s: %s", u.Bucket, url)
	}
	object := strings.TrimPrefix(url, prefix)
	if err := bh.Object(object).Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return err
	}
	return nil
}
