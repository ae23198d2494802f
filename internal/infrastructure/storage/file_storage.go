package storage

import (
	"context"
	"fmt"
	"io"
	"os"
)

// FileObjectStorage reads the snapshot from a local file
type FileObjectStorage struct {
	path string
}

// NewFileObjectStorage creates a file source for path
func NewFileObjectStorage(path string) *FileObjectStorage {
	return &FileObjectStorage{path: path}
}

// Open opens the snapshot file. The caller closes it.
func (f *FileObjectStorage) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	return file, nil
}

// Location returns the file path
func (f *FileObjectStorage) Location() string {
	return f.path
}
