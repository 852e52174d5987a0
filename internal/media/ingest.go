package media

import (
	"context"
	"io"
	"log"
)

// UploadError wraps a failure of the image host. Its message is shown to the
// admin as is.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string {
	return "image upload failed: " + e.Err.Error()
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// Ingestor turns raw uploads into hosted, resized images.
type Ingestor struct {
	uploader Uploader
}

func NewIngestor(uploader Uploader) *Ingestor {
	return &Ingestor{uploader: uploader}
}

// Ingest processes the image and uploads it, returning its URL.
func (i *Ingestor) Ingest(ctx context.Context, filename string, size int64, r io.Reader) (string, error) {
	data, err := Process(filename, size, r)
	if err != nil {
		return "", err
	}
	url, err := i.uploader.Upload(ctx, data)
	if err != nil {
		return "", &UploadError{Err: err}
	}
	return url, nil
}

// Discard deletes previously ingested images. Failures are logged only.
func (i *Ingestor) Discard(ctx context.Context, urls ...string) {
	for _, url := range urls {
		if err := i.uploader.Delete(ctx, url); err != nil {
			log.Printf("[UPLOAD] [WARN] could not delete %s: %v", url, err)
		}
	}
}
