// Package store ships the offline stores a vault can persist to: a
// process-local memory store, a JSON file store, and a SQLite-backed store.
// All of them implement the vault's OfflineStore interface — one opaque
// payload per vault name.
package store

import (
	"context"
	"sync"
)

// MemoryStore keeps payloads in process memory. It is the default offline
// store and the one tests use; nothing survives the process.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string][]byte)}
}

// GetItem returns the payload stored under name, or nil when absent.
func (s *MemoryStore) GetItem(_ context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.items[name]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), payload...), nil
}

// SetItem stores a copy of payload under name.
func (s *MemoryStore) SetItem(_ context.Context, name string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[name] = append([]byte(nil), payload...)
	return nil
}
