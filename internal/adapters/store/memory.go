package store

import (
	"context"
	"sync"
)

// In-memory implementation of the KeyValueStore port, for tests and
// ephemeral runs.
type MemoryKVStore struct {
	mu sync.RWMutex
	m  map[string]string
}

func NewMemoryKVStore() *MemoryKVStore {
	return &MemoryKVStore{m: make(map[string]string)}
}

func (s *MemoryKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *MemoryKVStore) Put(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}
