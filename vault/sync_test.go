package vault

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/MKhiriev/sync-vault/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testURLs = URLs{
	List:   "http://srv/items",
	Create: "http://srv/items/create",
	Update: "http://srv/items/update",
	Delete: "http://srv/items/delete",
}

func newSyncVault(t *testing.T, transport *stubTransport, opts ...Option) *Vault {
	t.Helper()
	all := append([]Option{WithAutoload(false), WithTransport(transport)}, opts...)
	v, err := New(context.Background(), "items", testURLs, all...)
	require.NoError(t, err)
	return v
}

func TestReload_ReplacesCollection(t *testing.T) {
	transport := &stubTransport{
		listFn: func(_ context.Context, url string) ([]map[string]any, error) {
			assert.Equal(t, testURLs.List, url)
			return []map[string]any{{"id": float64(1), "name": "a"}}, nil
		},
	}
	v := newSyncVault(t, transport)
	seedClean(t, v, map[string]any{"id": 99, "name": "stale"})

	require.NoError(t, v.Reload(context.Background()))

	rec, ok := v.Find(1)
	require.True(t, ok)
	assert.Equal(t, "a", rec.Fields["name"])
	assert.Equal(t, models.StatusClean, rec.Status)
	assert.Zero(t, v.DirtyCount())
	assert.Equal(t, 1, v.Size(), "previous contents are discarded")
	assert.False(t, v.Locked())
}

func TestReload_RespectsPayloadStatus(t *testing.T) {
	transport := &stubTransport{
		listFn: func(context.Context, string) ([]map[string]any, error) {
			return []map[string]any{
				{"id": float64(1), "name": "a"},
				{"id": float64(2), "name": "b", "status": "dirty"},
			}, nil
		},
	}
	v := newSyncVault(t, transport)

	require.NoError(t, v.Reload(context.Background()))
	assert.Equal(t, 1, v.DirtyCount())
}

func TestReload_FailureKeepsCollectionAndUnlocks(t *testing.T) {
	boom := errors.New("connection refused")
	transport := &stubTransport{
		listFn: func(context.Context, string) ([]map[string]any, error) {
			return nil, boom
		},
	}
	v := newSyncVault(t, transport)
	seedClean(t, v, map[string]any{"id": 1, "name": "a"})

	err := v.Reload(context.Background())
	require.ErrorIs(t, err, boom)

	_, ok := v.Find(1)
	assert.True(t, ok, "failed reload must not drop local data")
	assert.False(t, v.Locked())

	last, ok := v.Messages().LastError()
	require.True(t, ok)
	assert.Contains(t, last, "reload failed")
}

func TestReload_Guards(t *testing.T) {
	v := newSyncVault(t, &stubTransport{})
	lockVault(v)
	require.ErrorIs(t, v.Reload(context.Background()), ErrLocked)

	offline := newTestVault(t, WithOnlineCheck(func() bool { return false }))
	require.ErrorIs(t, offline.Reload(context.Background()), ErrOffline)

	noURL := newTestVault(t)
	require.ErrorIs(t, noURL.Reload(context.Background()), ErrNoListURL)
}

func TestSave_NewRecord(t *testing.T) {
	var gotKey string
	var gotPayload map[string]any
	transport := &stubTransport{
		createFn: func(_ context.Context, url, key string, payload []byte) (map[string]any, error) {
			assert.Equal(t, testURLs.Create, url)
			gotKey = key
			require.NoError(t, json.Unmarshal(payload, &gotPayload))
			return map[string]any{"id": float64(500), "name": "a"}, nil
		},
	}
	v := newSyncVault(t, transport)
	ctx := context.Background()

	rec, err := v.Add(ctx, map[string]any{"name": "a"})
	require.NoError(t, err)
	tempID, _ := rec.ID("id")

	require.NoError(t, v.Save(ctx, tempID))

	assert.Equal(t, "items", gotKey, "payload is keyed by the vault name")
	assert.NotContains(t, gotPayload, "id", "temporary identifier must not be sent")
	assert.NotContains(t, gotPayload, "status")
	assert.Equal(t, "a", gotPayload["name"])

	// Server-assigned identifier replaces the temporary one.
	saved, ok := v.Find(500)
	require.True(t, ok)
	assert.Equal(t, models.StatusClean, saved.Status)
	assert.Zero(t, v.DirtyCount())
	assert.False(t, v.Locked())
}

func TestSave_DirtyRecord(t *testing.T) {
	transport := &stubTransport{
		updateFn: func(_ context.Context, url, _ string, _ []byte) error {
			assert.Equal(t, testURLs.Update, url)
			return nil
		},
	}
	v := newSyncVault(t, transport)
	ctx := context.Background()
	seedClean(t, v, map[string]any{"id": 1, "name": "a"})
	require.NoError(t, v.Update(ctx, map[string]any{"name": "b"}, 1))

	require.NoError(t, v.Save(ctx, 1))

	rec, _ := v.Find(1)
	assert.Equal(t, models.StatusClean, rec.Status)
	assert.Zero(t, v.DirtyCount())
	assert.Equal(t, []string{"update"}, transport.Calls())
}

func TestSave_DeletedRecord(t *testing.T) {
	transport := &stubTransport{
		deleteFn: func(_ context.Context, url, _ string, _ []byte) error {
			assert.Equal(t, testURLs.Delete, url)
			return nil
		},
	}
	v := newSyncVault(t, transport)
	ctx := context.Background()
	seedClean(t, v, map[string]any{"id": 1, "name": "a"})
	require.NoError(t, v.Delete(ctx, 1))

	require.NoError(t, v.Save(ctx, 1))

	_, ok := v.Find(1)
	assert.False(t, ok, "deleted record is removed after a successful save")
	assert.Zero(t, v.Size())
	assert.Zero(t, v.DirtyCount())
}

func TestSave_FailureKeepsStatusForRetry(t *testing.T) {
	boom := errors.New("500 internal")
	transport := &stubTransport{
		updateFn: func(context.Context, string, string, []byte) error { return boom },
	}
	v := newSyncVault(t, transport)
	ctx := context.Background()
	seedClean(t, v, map[string]any{"id": 1, "name": "a"})
	require.NoError(t, v.Update(ctx, map[string]any{"name": "b"}, 1))

	err := v.Save(ctx, 1)
	require.ErrorIs(t, err, boom)

	rec, _ := v.Find(1)
	assert.Equal(t, models.StatusDirty, rec.Status, "failed save leaves the record pending")
	assert.Equal(t, 1, v.DirtyCount())
	assert.False(t, v.Locked(), "vault unlocks even when the request fails")

	last, ok := v.Messages().LastError()
	require.True(t, ok)
	assert.Contains(t, last, "save of dirty record")
}

func TestSave_PersistsAfterRequest(t *testing.T) {
	st := newStubStore()
	transport := &stubTransport{}
	v := newSyncVault(t, transport, WithOffline(true), WithOfflineStore(st))
	ctx := context.Background()

	rec, err := v.Add(ctx, map[string]any{"id": 1, "name": "a"})
	require.NoError(t, err)
	id, _ := rec.ID("id")
	before := st.Sets()

	require.NoError(t, v.Save(ctx, id))
	assert.Equal(t, before+1, st.Sets(), "collection is persisted once the request settles")
}

func TestSave_Guards(t *testing.T) {
	ctx := context.Background()

	locked := newSyncVault(t, &stubTransport{})
	seedClean(t, locked, map[string]any{"id": 1})
	require.NoError(t, locked.Update(ctx, map[string]any{"x": 1}, 1))
	lockVault(locked)
	require.ErrorIs(t, locked.Save(ctx, 1), ErrLocked)

	offline := newSyncVault(t, &stubTransport{}, WithOnlineCheck(func() bool { return false }))
	require.ErrorIs(t, offline.Save(ctx, 1), ErrOffline)

	clean := newSyncVault(t, &stubTransport{})
	seedClean(t, clean, map[string]any{"id": 1})
	require.ErrorIs(t, clean.Save(ctx, 1), ErrNothingToSync)

	missing := newSyncVault(t, &stubTransport{})
	_, err := missing.Add(ctx, map[string]any{"id": 1})
	require.NoError(t, err)
	require.ErrorIs(t, missing.Save(ctx, 2), ErrNotFound)
}

func TestSave_MissingEndpoint(t *testing.T) {
	transport := &stubTransport{}
	v, err := New(context.Background(), "items", URLs{List: "http://srv/items"},
		WithAutoload(false), WithTransport(transport))
	require.NoError(t, err)

	_, err = v.Add(context.Background(), map[string]any{"id": 1, "name": "a"})
	require.NoError(t, err)

	require.ErrorIs(t, v.Save(context.Background(), 1), ErrNoEndpoint)
	assert.Empty(t, transport.Calls())
	assert.False(t, v.Locked())
}

func TestSynchronize_SavesThenReloads(t *testing.T) {
	transport := &stubTransport{
		listFn: func(context.Context, string) ([]map[string]any, error) {
			return []map[string]any{{"id": float64(1), "name": "b"}}, nil
		},
	}
	v := newSyncVault(t, transport)
	ctx := context.Background()
	seedClean(t, v, map[string]any{"id": 1, "name": "a"})
	require.NoError(t, v.Update(ctx, map[string]any{"name": "b"}, 1))

	require.NoError(t, v.Synchronize(ctx))

	assert.Equal(t, []string{"update", "list"}, transport.Calls(), "reload runs after all saves")
	assert.Zero(t, v.DirtyCount())
}

func TestSynchronize_SkipsReloadOnSaveFailure(t *testing.T) {
	boom := errors.New("rejected")
	transport := &stubTransport{
		updateFn: func(context.Context, string, string, []byte) error { return boom },
	}
	v := newSyncVault(t, transport)
	ctx := context.Background()
	seedClean(t, v, map[string]any{"id": 1, "name": "a"})
	require.NoError(t, v.Update(ctx, map[string]any{"name": "b"}, 1))

	err := v.Synchronize(ctx)
	require.ErrorIs(t, err, boom)
	assert.NotContains(t, transport.Calls(), "list", "a stale reload would shadow the failed save")
	assert.Equal(t, 1, v.DirtyCount())
}

func TestSynchronize_SavesEveryPendingRecord(t *testing.T) {
	transport := &stubTransport{
		createFn: func(_ context.Context, _, _ string, payload []byte) (map[string]any, error) {
			var fields map[string]any
			require.NoError(t, json.Unmarshal(payload, &fields))
			fields["id"] = fields["name"].(string) + "-srv"
			return fields, nil
		},
		listFn: func(context.Context, string) ([]map[string]any, error) {
			return nil, nil
		},
	}
	v := newSyncVault(t, transport)
	ctx := context.Background()

	_, err := v.Add(ctx, map[string]any{"name": "a"})
	require.NoError(t, err)
	_, err = v.Add(ctx, map[string]any{"name": "b"})
	require.NoError(t, err)

	require.NoError(t, v.Synchronize(ctx))
	assert.Equal(t, []string{"create", "create", "list"}, transport.Calls())
}

func TestSynchronize_OfflineGuard(t *testing.T) {
	v := newSyncVault(t, &stubTransport{}, WithOnlineCheck(func() bool { return false }))
	require.ErrorIs(t, v.Synchronize(context.Background()), ErrOffline)
}

func TestSynchronize_NothingToSync(t *testing.T) {
	transport := &stubTransport{}
	v := newSyncVault(t, transport)
	seedClean(t, v, map[string]any{"id": 1})

	require.ErrorIs(t, v.Synchronize(context.Background()), ErrNothingToSync)
	assert.Empty(t, transport.Calls())
}
