package object

import (
	"context"
	"errors"
	"io"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrInvalidKey     = errors.New("invalid object key")
)

// StorageProvider stores and serves uploaded PDFs and generated audio
type StorageProvider interface {
	// UploadFile stores the content under key and returns its URL
	UploadFile(ctx context.Context, r io.Reader, size int64, key, contentType string) (string, error)

	// Open returns a reader for a stored object
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// DeleteFile removes an object from the storage
	DeleteFile(ctx context.Context, key string) error

	// GetFileURL returns the URL for accessing the object
	GetFileURL(key string) string
}
