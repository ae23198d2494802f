package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/billadmin/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// SnapshotSource is where a dataset snapshot is read from
type SnapshotSource interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	Location() string
}

var (
	_ SnapshotSource = (*FileObjectStorage)(nil)
	_ SnapshotSource = (*S3ObjectStorage)(nil)
)

// NewSnapshotSource builds the source selected by cfg.Source
func NewSnapshotSource(cfg config.DataConfig, logger *zap.Logger) (SnapshotSource, error) {
	switch cfg.Source {
	case "", "file":
		return NewFileObjectStorage(cfg.SeedFile), nil
	case "s3":
		storageCfg := cfg.Storage
		s3Storage, err := NewS3ObjectStorage(&storageCfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		return s3Storage, nil
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Source)
	}
}
