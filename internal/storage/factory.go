package storage

import (
	"context"
	"fmt"

	"github.com/ikkim/vendor-onboarding/config"
	"github.com/ikkim/vendor-onboarding/pkg/logger"
)

// NewFromConfig creates the object storage selected by STORAGE_DRIVER
func NewFromConfig(ctx context.Context, cfg *config.Config) (ObjectStorage, error) {
	switch cfg.Storage.Driver {
	case "memory":
		logger.Warn("Using in-memory object storage; uploads are not persisted", map[string]interface{}{
			"bucket": cfg.S3.Bucket,
		})
		return NewMemoryStorage(cfg.S3.Bucket), nil
	case "s3":
		logger.Info("Initializing S3 storage", map[string]interface{}{
			"region":   cfg.S3.Region,
			"bucket":   cfg.S3.Bucket,
			"endpoint": cfg.S3.Endpoint,
		})
		return NewS3Storage(ctx, S3Options{
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Endpoint:        cfg.S3.Endpoint,
			UsePathStyle:    cfg.S3.UsePathStyle,
		})
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Storage.Driver)
	}
}
