package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists payloads as one JSON document on disk, keyed by vault
// name. Every SetItem rewrites the whole file; payload sizes here are small
// (a vault's full collection is one blob), so simplicity wins over
// incremental writes.
type FileStore struct {
	path string

	mu    sync.Mutex
	items map[string]json.RawMessage
}

// NewFileStore opens (or lazily creates) the store at path. An existing
// file is loaded eagerly so a corrupt store fails construction, not the
// first read.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, items: make(map[string]json.RawMessage)}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read store file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	if err = json.Unmarshal(data, &s.items); err != nil {
		return fmt.Errorf("decode store file: %w", err)
	}
	if s.items == nil {
		s.items = make(map[string]json.RawMessage)
	}
	return nil
}

// GetItem returns the payload stored under name, or nil when absent.
func (s *FileStore) GetItem(_ context.Context, name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, ok := s.items[name]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), payload...), nil
}

// SetItem stores payload under name and rewrites the backing file.
func (s *FileStore) SetItem(_ context.Context, name string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[name] = append(json.RawMessage(nil), payload...)

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create store dir: %w", err)
		}
	}
	data, err := json.MarshalIndent(s.items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store file: %w", err)
	}
	if err = os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	return nil
}
