package storage

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage("docs")
	key := "vendor-applications/1/documents/2/abc.pdf"

	exists, err := s.ObjectExists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	s.Put(key, "application/pdf", 1024)
	exists, err = s.ObjectExists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, s.DeleteObject(ctx, key))
	exists, _ = s.ObjectExists(ctx, key)
	assert.False(t, exists)
	assert.Equal(t, []string{key}, s.Deleted())
}

func TestMemoryStorage_SignedURLs(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage("docs")
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	uploadURL, err := s.GenerateUploadURL(ctx, "a/b.pdf", "application/pdf", 5*time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uploadURL, "memory://docs/a/b.pdf?"))

	parsed, err := url.Parse(uploadURL)
	require.NoError(t, err)
	assert.Equal(t, "put", parsed.Query().Get("op"))
	assert.Equal(t, "2026-03-01T10:05:00Z", parsed.Query().Get("expires"))

	viewURL, err := s.GenerateViewURL(ctx, "a/b.pdf", 2*time.Minute)
	require.NoError(t, err)
	parsed, _ = url.Parse(viewURL)
	assert.Equal(t, "get", parsed.Query().Get("op"))
	assert.Equal(t, "2026-03-01T10:02:00Z", parsed.Query().Get("expires"))

	_, err = s.GenerateUploadURL(ctx, "", "application/pdf", time.Minute)
	assert.Error(t, err)
}
