package storage

import (
	"context"
	"fmt"

	"travel-journal-backend/internal/config"
)

// New returns the blob store selected by cfg.Driver
func New(ctx context.Context, cfg config.StorageConfig) (Blob, error) {
	switch cfg.Driver {
	case config.DriverFS:
		return NewLocal(cfg.Dir)
	case config.DriverS3:
		return NewS3(ctx, cfg.S3)
	case config.DriverMinio:
		return NewMinio(ctx, cfg.Minio)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
