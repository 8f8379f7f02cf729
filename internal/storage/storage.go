package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotConfigured is returned by callers when no object storage backend is wired.
var ErrNotConfigured = errors.New("object storage not configured")

// Service stores user-uploaded media in remote object storage.
type Service interface {
	// Upload writes body under key and returns the public URL of the object.
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	// DeletePrefix removes every object whose key starts with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}
