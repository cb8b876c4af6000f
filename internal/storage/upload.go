package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"sync"
)

// ObjectStore puts an object under key and returns where it can be read.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

// UploadJSON encodes v and stores it under key.
func UploadJSON(
	ctx context.Context,
	store ObjectStore,
	key string,
	v any,
) (string, error) {

	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}

	return store.Put(ctx, key, bytes.NewReader(raw), "application/json")
}

// MemoryStore keeps objects in a map. Used when R2 is not configured and
// in tests.
type MemoryStore struct {
	mu      sync.Mutex
	Objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{Objects: make(map[string][]byte)}
}

func (m *MemoryStore) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	m.Objects[key] = raw
	m.mu.Unlock()

	return "memory://" + key, nil
}

func (m *MemoryStore) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.Objects[key]
	return raw, ok
}
