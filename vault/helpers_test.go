package vault

import (
	"context"
	"sync"
	"testing"

	"github.com/MKhiriev/sync-vault/models"
	"github.com/stretchr/testify/require"
)

// stubTransport is an in-package fake Transport; tests set only the
// functions they need and inspect the recorded call order.
type stubTransport struct {
	mu    sync.Mutex
	calls []string

	listFn   func(ctx context.Context, url string) ([]map[string]any, error)
	createFn func(ctx context.Context, url, key string, payload []byte) (map[string]any, error)
	updateFn func(ctx context.Context, url, key string, payload []byte) error
	deleteFn func(ctx context.Context, url, key string, payload []byte) error
}

func (s *stubTransport) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *stubTransport) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *stubTransport) List(ctx context.Context, url string) ([]map[string]any, error) {
	s.record("list")
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, url)
}

func (s *stubTransport) Create(ctx context.Context, url, key string, payload []byte) (map[string]any, error) {
	s.record("create")
	if s.createFn == nil {
		return nil, nil
	}
	return s.createFn(ctx, url, key, payload)
}

func (s *stubTransport) Update(ctx context.Context, url, key string, payload []byte) error {
	s.record("update")
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, url, key, payload)
}

func (s *stubTransport) Delete(ctx context.Context, url, key string, payload []byte) error {
	s.record("delete")
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, url, key, payload)
}

// stubStore is an in-package fake OfflineStore counting writes.
type stubStore struct {
	mu     sync.Mutex
	items  map[string][]byte
	sets   int
	getErr error
	setErr error
}

func newStubStore() *stubStore {
	return &stubStore{items: make(map[string][]byte)}
}

func (s *stubStore) GetItem(_ context.Context, name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.items[name], nil
}

func (s *stubStore) SetItem(_ context.Context, name string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.items[name] = append([]byte(nil), payload...)
	s.sets++
	return nil
}

func (s *stubStore) Sets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets
}

// newTestVault builds a vault with autoload off and a default stub
// transport, so tests start from a known-empty collection.
func newTestVault(t *testing.T, opts ...Option) *Vault {
	t.Helper()
	all := append([]Option{WithAutoload(false), WithTransport(&stubTransport{})}, opts...)
	v, err := New(context.Background(), "items", URLs{}, all...)
	require.NoError(t, err)
	return v
}

// seedClean injects clean records directly, as a reload would.
func seedClean(t *testing.T, v *Vault, fieldsList ...map[string]any) {
	t.Helper()
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, fields := range fieldsList {
		v.records = append(v.records, v.extend(fields, models.StatusClean))
	}
}

// lockVault flips the in-flight flag, simulating an outstanding request.
func lockVault(v *Vault) {
	v.mu.Lock()
	v.locked = true
	v.mu.Unlock()
}

// recountUnsynced recomputes what the dirty count should be, straight from
// record statuses.
func recountUnsynced(v *Vault) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	n := 0
	for _, rec := range v.records {
		if rec.Status.Unsynced() {
			n++
		}
	}
	return n
}
