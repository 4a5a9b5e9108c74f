package port

import (
	"context"
	"io"
	"time"
)

// ObjectStorage abstracts the blob store holding uploaded files.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
	Download(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	GetPresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}
