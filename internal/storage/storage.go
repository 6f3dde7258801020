package storage

import (
	"context"
	"time"
)

// ObjectStorage is the object store capability used by the onboarding core.
// Uploads and downloads go directly between the client and the store through
// short-lived URLs; file bytes never pass through this service.
type ObjectStorage interface {
	// GenerateUploadURL returns a presigned PUT URL for key.
	GenerateUploadURL(ctx context.Context, key, contentType string, expires time.Duration) (string, error)

	// GenerateViewURL returns a presigned GET URL for key.
	GenerateViewURL(ctx context.Context, key string, expires time.Duration) (string, error)

	DeleteObject(ctx context.Context, key string) error

	ObjectExists(ctx context.Context, key string) (bool, error)
}
