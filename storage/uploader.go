package storage

import (
	"context"
	"io"
)

// FileUploader stores binary assets (tournament banners) and hands back a
// publicly reachable URL.
type FileUploader interface {
	Upload(ctx context.Context, key string, file io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}
