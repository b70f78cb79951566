package vault

import (
	"context"
	"slices"

	"github.com/MKhiriev/sync-vault/models"
)

// SubCollection is a handle on a named, nested sequence of sub-records
// inside one parent record, bound to (vault, parent id, field name). It
// offers the same four operations as the vault with the same locking rules;
// the difference is dirty propagation: any successful mutation promotes a
// clean parent to dirty, because sub-records are synchronized by the
// parent's own save, never independently.
type SubCollection struct {
	v        *Vault
	parentID any
	field    string
}

// Sub returns a handle on the named sub-collection of the record identified
// by parentID. Resolution is lazy: the parent is looked up per operation,
// so a handle may be created before the parent exists.
func (v *Vault) Sub(parentID any, field string) *SubCollection {
	return &SubCollection{v: v, parentID: parentID, field: field}
}

// FindSub scans every record's sub-collection under the given field for a
// sub-record with a matching identifier. This is the collection-level find
// exposed for each configured sub-collection name.
func (v *Vault) FindSub(field string, id any) (*models.Record, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	want := models.NormalizeID(id)
	if want == "" {
		return nil, false
	}
	for _, rec := range v.records {
		for _, sub := range rec.Subs[field] {
			if got, ok := sub.ID(v.opts.idAttribute); ok && got == want {
				return sub, true
			}
		}
	}
	return nil, false
}

// Find returns the sub-record with the given identifier.
func (s *SubCollection) Find(id any) (*models.Record, bool) {
	s.v.mu.Lock()
	defer s.v.mu.Unlock()

	parent, err := s.resolveLocked()
	if err != nil {
		return nil, false
	}
	return s.findLocked(parent, id)
}

// Add appends a new sub-record built from fields, generating an identifier
// when missing, and promotes a clean parent to dirty.
func (s *SubCollection) Add(ctx context.Context, fields map[string]any) (*models.Record, error) {
	v := s.v
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.locked {
		return nil, v.guard("sub add", ErrLocked)
	}
	parent, err := s.resolveLocked()
	if err != nil {
		return nil, v.guard("sub add", err)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	if models.NormalizeID(fields[v.opts.idAttribute]) == "" {
		fields[v.opts.idAttribute] = v.opts.idgen.NextID()
	}
	if _, exists := s.findLocked(parent, fields[v.opts.idAttribute]); exists {
		return nil, v.guard("sub add", ErrDuplicateID)
	}

	sub := v.extendSub(fields, models.StatusNew)
	if parent.Subs == nil {
		parent.Subs = make(map[string][]*models.Record)
	}
	parent.Subs[s.field] = append(parent.Subs[s.field], sub)
	s.promoteLocked(parent)
	v.persistLocked(ctx)
	return sub, nil
}

// Update merges attrs into the sub-record identified by id, with the same
// merge rules as the parent collection: existing keys only, identifier
// never overwritten. The sub-record and a clean parent both turn dirty.
func (s *SubCollection) Update(ctx context.Context, attrs map[string]any, id any) error {
	v := s.v
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.locked {
		return v.guard("sub update", ErrLocked)
	}
	parent, err := s.resolveLocked()
	if err != nil {
		return v.guard("sub update", err)
	}
	if id == nil {
		id = attrs[v.opts.idAttribute]
	}
	sub, ok := s.findLocked(parent, id)
	if !ok {
		return v.guard("sub update", ErrNotFound)
	}

	if sub.Status == models.StatusClean {
		sub.Status = models.StatusDirty
	}
	for k, val := range attrs {
		if k == v.opts.idAttribute {
			continue
		}
		if _, exists := sub.Fields[k]; exists {
			sub.Fields[k] = cloneValue(val)
		}
	}
	s.promoteLocked(parent)
	v.persistLocked(ctx)
	return nil
}

// Delete marks the sub-record identified by id as deleted; a new sub-record
// is removed outright. The parent is promoted to dirty so the removal rides
// its next save.
func (s *SubCollection) Delete(ctx context.Context, id any) error {
	v := s.v
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.locked {
		return v.guard("sub delete", ErrLocked)
	}
	parent, err := s.resolveLocked()
	if err != nil {
		return v.guard("sub delete", err)
	}
	sub, ok := s.findLocked(parent, id)
	if !ok {
		return v.guard("sub delete", ErrNotFound)
	}

	switch sub.Status {
	case models.StatusNew:
		subs := parent.Subs[s.field]
		for i, candidate := range subs {
			if candidate == sub {
				parent.Subs[s.field] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
	case models.StatusClean, models.StatusDirty:
		sub.Status = models.StatusDeleted
	case models.StatusDeleted:
		// already pending removal
	}
	s.promoteLocked(parent)
	v.persistLocked(ctx)
	return nil
}

// resolveLocked validates the field name and looks up the parent record.
func (s *SubCollection) resolveLocked() (*models.Record, error) {
	if !slices.Contains(s.v.opts.subCollections, s.field) {
		return nil, ErrUnknownSubCollection
	}
	parent, ok := s.v.findLocked(s.parentID)
	if !ok {
		return nil, ErrNotFound
	}
	return parent, nil
}

func (s *SubCollection) findLocked(parent *models.Record, id any) (*models.Record, bool) {
	want := models.NormalizeID(id)
	if want == "" {
		return nil, false
	}
	for _, sub := range parent.Subs[s.field] {
		if got, ok := sub.ID(s.v.opts.idAttribute); ok && got == want {
			return sub, true
		}
	}
	return nil, false
}

// promoteLocked marks a clean parent dirty after a sub-record mutation.
// Parents already counted (new, dirty, deleted) are left alone.
func (s *SubCollection) promoteLocked(parent *models.Record) {
	if parent.Status == models.StatusClean {
		parent.Status = models.StatusDirty
		s.v.dirty++
	}
}
