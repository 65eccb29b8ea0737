package storage

import (
	"context"
	"io"
)

type FileStorage interface {
	// Upload stores a file and returns its cleaned relative path
	Upload(ctx context.Context, file io.Reader, path string) (string, error)

	// URL returns the public URL of a stored file
	URL(path string) string
}
