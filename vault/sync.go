// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/sync-vault/models"
)

// Save pushes the record identified by id to the server. The request issued
// depends on the record's status: deleted records go to the delete
// endpoint (and are hard-removed on success), new records to the create
// endpoint (the server response is merged back and the record becomes
// clean), dirty records to the update endpoint. A remote failure leaves the
// record in its current status for a future retry.
//
// The vault is locked for the duration of the request; regardless of the
// outcome it is persisted to the offline store and unlocked before Save
// returns, so callers may immediately issue further mutations.
func (v *Vault) Save(ctx context.Context, id any) error {
	v.mu.Lock()
	if v.locked {
		v.mu.Unlock()
		return v.guard("save", ErrLocked)
	}
	if !v.online() {
		v.mu.Unlock()
		return v.guard("save", ErrOffline)
	}
	if v.dirty == 0 {
		v.mu.Unlock()
		return v.guard("save", ErrNothingToSync)
	}
	rec, ok := v.findLocked(id)
	if !ok {
		v.mu.Unlock()
		return v.guard("save", ErrNotFound)
	}

	status := rec.Status
	url := v.endpointFor(status)
	if status != models.StatusClean && url == "" {
		v.mu.Unlock()
		return v.guard("save", ErrNoEndpoint)
	}

	v.locked = true
	payload, err := json.Marshal(v.strip(rec))
	v.mu.Unlock()
	if err != nil {
		v.messages.Error(fmt.Sprintf("save rejected: encode record: %v", err))
		v.mu.Lock()
		v.locked = false
		v.mu.Unlock()
		return fmt.Errorf("encode record: %w", err)
	}

	var opErr error
	switch status {
	case models.StatusDeleted:
		if opErr = v.transport.Delete(ctx, url, v.name, payload); opErr == nil {
			v.mu.Lock()
			v.removeLocked(rec)
			v.dirty--
			v.mu.Unlock()
		}
	case models.StatusNew:
		var data map[string]any
		if data, opErr = v.transport.Create(ctx, url, v.name, payload); opErr == nil {
			v.mu.Lock()
			v.mergeServerLocked(rec, data)
			rec.Status = models.StatusClean
			v.dirty--
			v.mu.Unlock()
		}
	case models.StatusDirty:
		if opErr = v.transport.Update(ctx, url, v.name, payload); opErr == nil {
			v.mu.Lock()
			rec.Status = models.StatusClean
			v.dirty--
			v.mu.Unlock()
		}
	default:
		v.messages.Notice(fmt.Sprintf("record %v is clean, nothing to save", id))
	}

	if opErr != nil {
		v.messages.Error(fmt.Sprintf("save of %s record %v failed: %v", status, id, opErr))
		v.opts.log.Error().Err(opErr).Str("vault", v.name).Str("status", string(status)).Msg("save failed")
	}

	v.mu.Lock()
	v.persistLocked(ctx)
	v.locked = false
	v.mu.Unlock()

	if opErr != nil {
		return fmt.Errorf("save record %v: %w", id, opErr)
	}
	return nil
}

// Reload replaces the entire in-memory collection with the list endpoint's
// response. Entries arrive freshly extended; their status defaults to clean
// unless the payload states otherwise, and the dirty count is recomputed
// accordingly. On failure the collection is left untouched and the error is
// logged. The vault unlocks once the request settles either way.
func (v *Vault) Reload(ctx context.Context) error {
	v.mu.Lock()
	if v.locked {
		v.mu.Unlock()
		return v.guard("reload", ErrLocked)
	}
	if !v.online() {
		v.mu.Unlock()
		return v.guard("reload", ErrOffline)
	}
	if v.urls.List == "" {
		v.mu.Unlock()
		return v.guard("reload", ErrNoListURL)
	}
	v.locked = true
	v.mu.Unlock()

	items, err := v.transport.List(ctx, v.urls.List)

	v.mu.Lock()
	if err == nil {
		records := make([]*models.Record, 0, len(items))
		dirty := 0
		for _, fields := range items {
			rec := v.extend(fields, "")
			if rec.Status.Unsynced() {
				dirty++
			}
			records = append(records, rec)
		}
		v.records = records
		v.dirty = dirty
		v.persistLocked(ctx)
		v.opts.log.Debug().Str("vault", v.name).Int("records", len(records)).Msg("reloaded from server")
	} else {
		v.messages.Error(fmt.Sprintf("reload failed: %v", err))
		v.opts.log.Error().Err(err).Str("vault", v.name).Msg("reload failed")
	}
	v.locked = false
	v.mu.Unlock()

	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	return nil
}

// Synchronize saves every unsynchronized record, strictly sequentially, and
// follows with a full reload only when every save succeeded — the reload
// must observe the server state the saves produced. The first save failure
// is returned and the reload skipped.
func (v *Vault) Synchronize(ctx context.Context) error {
	if !v.online() {
		return v.guard("synchronize", ErrOffline)
	}
	if err := v.saveAll(ctx); err != nil {
		return err
	}
	return v.Reload(ctx)
}

func (v *Vault) saveAll(ctx context.Context) error {
	v.mu.Lock()
	if v.locked {
		v.mu.Unlock()
		return v.guard("save", ErrLocked)
	}
	if v.dirty == 0 {
		v.mu.Unlock()
		return v.guard("save", ErrNothingToSync)
	}
	ids := make([]any, 0, v.dirty)
	for _, rec := range v.records {
		if rec.Status.Unsynced() {
			if id, ok := rec.ID(v.opts.idAttribute); ok {
				ids = append(ids, id)
			}
		}
	}
	v.mu.Unlock()

	var firstErr error
	for _, id := range ids {
		if err := v.Save(ctx, id); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (v *Vault) endpointFor(status models.Status) string {
	switch status {
	case models.StatusDeleted:
		return v.urls.Delete
	case models.StatusNew:
		return v.urls.Create
	case models.StatusDirty:
		return v.urls.Update
	default:
		return ""
	}
}
