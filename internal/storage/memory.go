package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps snapshots in process memory. Used for tests and for
// STORAGE_DRIVER=memory, where nothing survives a restart.
type MemoryStore struct {
	mu   sync.RWMutex
	objs map[string][]byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objs: make(map[string][]byte)}
}

// Put stores a copy of value under key, replacing any previous value.
func (s *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	dataCopy := make([]byte, len(value))
	copy(dataCopy, value)
	s.mu.Lock()
	s.objs[key] = dataCopy
	s.mu.Unlock()
	return nil
}

// Get returns a copy of the value under key.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	data, ok := s.objs[key]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)
	return dataCopy, nil
}

// Delete removes key; deleting a missing key is not an error.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.objs, key)
	s.mu.Unlock()
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
