package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStorage keeps files under one directory. Paths are resolved through
// os.Root, so they cannot escape it.
type LocalStorage struct {
	root    *os.Root
	baseURL string // e.g., "http://localhost:8080/files"
}

func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	// Create base directory if not exists
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	root, err := os.OpenRoot(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage directory: %w", err)
	}

	return &LocalStorage{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Dir returns the storage directory, for serving files over HTTP.
func (s *LocalStorage) Dir() string {
	return s.root.Name()
}

func (s *LocalStorage) Close() error {
	return s.root.Close()
}

func (s *LocalStorage) Upload(_ context.Context, file io.Reader, name string) (string, error) {
	cleanPath, err := clean(name)
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := s.root.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	dst, err := s.root.Create(cleanPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		// Cleanup on error
		_ = s.root.Remove(cleanPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return filepath.ToSlash(cleanPath), nil
}

func (s *LocalStorage) URL(name string) string {
	return s.baseURL + "/" + path.Clean(filepath.ToSlash(name))
}

func clean(name string) (string, error) {
	cleanPath := filepath.Clean(filepath.FromSlash(name))
	if cleanPath == "." || filepath.IsAbs(cleanPath) || !filepath.IsLocal(cleanPath) {
		return "", fmt.Errorf("invalid file path: %s", name)
	}
	return cleanPath, nil
}
