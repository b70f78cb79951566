package vault

import (
	"context"

	"github.com/MKhiriev/sync-vault/models"
)

// Each invokes fn for every record whose status is not deleted, in
// collection order. The collection is snapshotted first, so fn may call
// vault methods without deadlocking.
func (v *Vault) Each(fn func(*models.Record)) {
	v.mu.Lock()
	snapshot := make([]*models.Record, 0, len(v.records))
	for _, rec := range v.records {
		if rec.Status != models.StatusDeleted {
			snapshot = append(snapshot, rec)
		}
	}
	v.mu.Unlock()

	for _, rec := range snapshot {
		fn(rec)
	}
}

// Add appends a new record built from fields. A missing or empty identifier
// is filled by the configured id generator. The record enters with status
// new and counts toward the dirty count. The fields map is taken over by
// the vault; callers must not retain it.
func (v *Vault) Add(ctx context.Context, fields map[string]any) (*models.Record, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.locked {
		return nil, v.guard("add", ErrLocked)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	if models.NormalizeID(fields[v.opts.idAttribute]) == "" {
		fields[v.opts.idAttribute] = v.opts.idgen.NextID()
	}
	if _, exists := v.findLocked(fields[v.opts.idAttribute]); exists {
		return nil, v.guard("add", ErrDuplicateID)
	}

	rec := v.extend(fields, models.StatusNew)
	v.records = append(v.records, rec)
	v.dirty++
	v.persistLocked(ctx)
	return rec, nil
}

// Find returns the record whose identifier matches id. The comparison is
// normalized, so callers may pass the numeric or the string representation
// interchangeably.
func (v *Vault) Find(id any) (*models.Record, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.findLocked(id)
}

func (v *Vault) findLocked(id any) (*models.Record, bool) {
	want := models.NormalizeID(id)
	if want == "" {
		return nil, false
	}
	for _, rec := range v.records {
		if got, ok := rec.ID(v.opts.idAttribute); ok && got == want {
			return rec, true
		}
	}
	return nil, false
}

// Update merges attrs into the record identified by id; a nil id is derived
// from the identifier attribute inside attrs. Only keys already present on
// the record are merged, unknown keys are silently ignored, and the
// identifier field is never overwritten. A clean record transitions to
// dirty exactly once; repeated updates do not inflate the dirty count.
func (v *Vault) Update(ctx context.Context, attrs map[string]any, id any) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.locked {
		return v.guard("update", ErrLocked)
	}
	if id == nil {
		id = attrs[v.opts.idAttribute]
	}
	rec, ok := v.findLocked(id)
	if !ok {
		return v.guard("update", ErrNotFound)
	}

	if rec.Status == models.StatusClean {
		rec.Status = models.StatusDirty
		v.dirty++
	}
	for k, val := range attrs {
		if k == v.opts.idAttribute {
			continue
		}
		if _, exists := rec.Fields[k]; exists {
			rec.Fields[k] = cloneValue(val)
		}
	}

	v.persistLocked(ctx)
	return nil
}

// Delete marks the record identified by id for remote removal. A new record
// vanishes immediately (it never reached the server), a clean record
// becomes deleted and starts counting as dirty, a dirty record stays
// counted. The record itself survives until a successful save.
func (v *Vault) Delete(ctx context.Context, id any) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.locked {
		return v.guard("delete", ErrLocked)
	}
	rec, ok := v.findLocked(id)
	if !ok {
		return v.guard("delete", ErrNotFound)
	}

	switch rec.Status {
	case models.StatusNew:
		v.removeLocked(rec)
		v.dirty--
	case models.StatusClean:
		rec.Status = models.StatusDeleted
		v.dirty++
	case models.StatusDirty:
		rec.Status = models.StatusDeleted
	case models.StatusDeleted:
		// already pending removal
	}

	v.persistLocked(ctx)
	return nil
}

// Destroy removes the record from the collection regardless of status,
// without ever talking to the server. Unsynced records stop counting toward
// the dirty count.
func (v *Vault) Destroy(ctx context.Context, id any) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.locked {
		return v.guard("destroy", ErrLocked)
	}
	rec, ok := v.findLocked(id)
	if !ok {
		return v.guard("destroy", ErrNotFound)
	}

	if rec.Status.Unsynced() {
		v.dirty--
	}
	v.removeLocked(rec)
	v.persistLocked(ctx)
	return nil
}

func (v *Vault) removeLocked(rec *models.Record) {
	for i, r := range v.records {
		if r == rec {
			v.records = append(v.records[:i], v.records[i+1:]...)
			return
		}
	}
}
