// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/MKhiriev/sync-vault/internal/adapter"
	"github.com/MKhiriev/sync-vault/internal/store"
	"github.com/MKhiriev/sync-vault/models"
)

// URLs holds the endpoint set of a mirrored resource collection. Each URL is
// optional; operations needing a missing endpoint fail with a guard error.
type URLs struct {
	List   string
	Create string
	Update string
	Delete string
}

// Vault is an in-memory, ordered collection of records mirroring a remote
// resource set. It tracks record lifecycle status, keeps a dirty count of
// unsynchronized records, optionally persists the collection to an offline
// store, and synchronizes with the configured endpoints.
//
// All methods are safe for concurrent use; the locked flag additionally
// guards the collection against mutation while a network request is in
// flight, independent of goroutines.
type Vault struct {
	name string
	urls URLs
	opts options

	transport Transport
	store     OfflineStore
	online    func() bool

	messages *models.MessageLog

	mu      sync.Mutex
	records []*models.Record
	dirty   int
	locked  bool
}

// New constructs a vault for the named resource collection.
//
// When autoload is on (the default), the initial collection is loaded
// according to the offline option: an offline vault first tries its store
// and keeps the loaded data if it contains unsynchronized records; a clean
// or missing local copy is replaced by a full reload from the list endpoint
// when one is configured and the client is online. A non-offline vault
// reloads from the list endpoint or starts empty. Bootstrap failures are
// recorded in the message log; New itself fails only on invalid arguments.
//
// The afterLoad callback, if configured, runs on a fresh goroutine once the
// initial load settles, so New returns before the callback observes the
// vault.
func New(ctx context.Context, name string, urls URLs, opts ...Option) (*Vault, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	v := &Vault{
		name:      name,
		urls:      urls,
		opts:      o,
		transport: o.transport,
		store:     o.store,
		online:    o.online,
		messages:  models.NewMessageLog(),
	}
	if v.transport == nil {
		v.transport = adapter.NewHTTPTransport(adapter.Config{})
	}
	if o.offline && v.store == nil {
		v.store = store.NewMemoryStore()
	}

	if o.autoload {
		v.bootstrap(ctx)
		if o.afterLoad != nil {
			go o.afterLoad(v)
		}
	}

	return v, nil
}

// bootstrap performs the initial load per the autoload rules.
func (v *Vault) bootstrap(ctx context.Context) {
	if !v.opts.offline {
		if v.urls.List != "" {
			_ = v.Reload(ctx)
			return
		}
		v.messages.Warn("no list url configured, starting with an empty collection")
		return
	}

	err := v.load(ctx)
	if err == nil {
		if v.DirtyCount() > 0 {
			v.messages.Notice("offline data with unsynchronized changes loaded, server not contacted")
			return
		}
		if v.urls.List != "" {
			_ = v.Reload(ctx)
			return
		}
		v.messages.Warn("offline data kept: no list url configured")
		return
	}

	v.messages.Warn(fmt.Sprintf("offline load failed: %v", err))
	if v.online() && v.urls.List != "" {
		_ = v.Reload(ctx)
		return
	}
	v.messages.Error("offline load failed and server unreachable, starting with an empty collection")
}

// load replaces the in-memory collection with the offline store's payload.
func (v *Vault) load(ctx context.Context) error {
	if v.store == nil {
		return ErrNoOfflineData
	}
	blob, err := v.store.GetItem(ctx, v.name)
	if err != nil {
		return fmt.Errorf("read offline store: %w", err)
	}
	if len(blob) == 0 {
		return ErrNoOfflineData
	}

	var raw []map[string]any
	if err = json.Unmarshal(blob, &raw); err != nil {
		return fmt.Errorf("decode offline payload: %w", err)
	}

	records := make([]*models.Record, 0, len(raw))
	dirty := 0
	for _, fields := range raw {
		rec := v.extend(fields, "")
		if rec.Status.Unsynced() {
			dirty++
		}
		records = append(records, rec)
	}

	v.mu.Lock()
	v.records = records
	v.dirty = dirty
	v.mu.Unlock()

	v.opts.log.Debug().Str("vault", v.name).Int("records", len(records)).Int("dirty", dirty).Msg("loaded from offline store")
	return nil
}

// Flush persists the whole collection, status tags included, to the offline
// store. It is the teardown hook: bind it (or Close) to process shutdown to
// get the best-effort flush an offline vault needs. No-op for non-offline
// vaults.
func (v *Vault) Flush(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.flushLocked(ctx)
}

// Close flushes the collection. It exists so a *Vault satisfies the common
// shutdown shape of the host application.
func (v *Vault) Close(ctx context.Context) error {
	return v.Flush(ctx)
}

func (v *Vault) flushLocked(ctx context.Context) error {
	if !v.opts.offline || v.store == nil {
		return nil
	}
	encoded := make([]map[string]any, 0, len(v.records))
	for _, rec := range v.records {
		encoded = append(encoded, v.encodeRecord(rec))
	}
	payload, err := json.Marshal(encoded)
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}
	if err = v.store.SetItem(ctx, v.name, payload); err != nil {
		return fmt.Errorf("write offline store: %w", err)
	}
	return nil
}

// persistLocked is the best-effort flush run after every completed mutation.
// Failures are logged as warnings and do not fail the mutation.
func (v *Vault) persistLocked(ctx context.Context) {
	if err := v.flushLocked(ctx); err != nil {
		v.messages.Warn(fmt.Sprintf("persist failed: %v", err))
		v.opts.log.Warn().Err(err).Str("vault", v.name).Msg("persist to offline store failed")
	}
}

// guard records a guard rejection in the message log and returns err
// unchanged, so entry points can fail fast in one line.
func (v *Vault) guard(op string, err error) error {
	v.messages.Error(fmt.Sprintf("%s rejected: %v", op, err))
	v.opts.log.Debug().Str("vault", v.name).Str("op", op).Err(err).Msg("guard rejection")
	return err
}

// Name returns the vault's resource identifier. It doubles as the offline
// store key and the server payload key.
func (v *Vault) Name() string {
	return v.name
}

// DirtyCount returns the number of records with unsynchronized changes
// (status new, dirty or deleted).
func (v *Vault) DirtyCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.dirty
}

// Locked reports whether a network operation is currently in flight.
func (v *Vault) Locked() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.locked
}

// Size returns the number of records in the collection, deleted ones
// included.
func (v *Vault) Size() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.records)
}

// Messages returns the vault's append-only message log.
func (v *Vault) Messages() *models.MessageLog {
	return v.messages
}
