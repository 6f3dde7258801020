package storage

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"
)

// MemoryObject is what MemoryStorage remembers about an uploaded key.
type MemoryObject struct {
	ContentType string
	Size        int64
}

// MemoryStorage keeps objects in process memory. It backs local development
// (STORAGE_DRIVER=memory) and tests; Put stands in for the client's direct upload.
type MemoryStorage struct {
	mu      sync.RWMutex
	bucket  string
	objects map[string]MemoryObject
	deleted []string
	now     func() time.Time
}

func NewMemoryStorage(bucket string) *MemoryStorage {
	return &MemoryStorage{
		bucket:  bucket,
		objects: make(map[string]MemoryObject),
		now:     time.Now,
	}
}

func (m *MemoryStorage) signedURL(op, key string, expires time.Duration) string {
	q := url.Values{}
	q.Set("op", op)
	q.Set("expires", m.now().Add(expires).UTC().Format(time.RFC3339))
	return fmt.Sprintf("memory://%s/%s?%s", m.bucket, key, q.Encode())
}

func (m *MemoryStorage) GenerateUploadURL(_ context.Context, key, contentType string, expires time.Duration) (string, error) {
	if key == "" {
		return "", fmt.Errorf("empty storage key")
	}
	return m.signedURL("put", key, expires), nil
}

func (m *MemoryStorage) GenerateViewURL(_ context.Context, key string, expires time.Duration) (string, error) {
	if key == "" {
		return "", fmt.Errorf("empty storage key")
	}
	return m.signedURL("get", key, expires), nil
}

func (m *MemoryStorage) DeleteObject(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *MemoryStorage) ObjectExists(_ context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok, nil
}

// Put records an object as uploaded.
func (m *MemoryStorage) Put(key, contentType string, size int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = MemoryObject{ContentType: contentType, Size: size}
}

// Deleted returns the keys passed to DeleteObject, in call order.
func (m *MemoryStorage) Deleted() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.deleted...)
}
