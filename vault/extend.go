package vault

import (
	"fmt"
	"slices"

	"github.com/MKhiriev/sync-vault/models"
)

// statusField is the reserved key carrying a record's status in offline
// payloads. It is popped into Record.Status on extension and never treated
// as a business field.
const statusField = "status"

// extend turns a raw payload map into a managed record. An explicit status
// argument wins; otherwise a valid "status" field in the payload is honored,
// and the default is clean. Configured sub-collection fields are extracted
// into Record.Subs with the same rules applied to each entry.
//
// Passing an invalid explicit status is a programmer error and panics.
// The map is taken over by the record; callers must not retain it.
func (v *Vault) extend(fields map[string]any, status models.Status) *models.Record {
	if status != "" && !status.Valid() {
		panic(fmt.Sprintf("vault: invalid record status %q", status))
	}
	if fields == nil {
		fields = map[string]any{}
	}

	rec := &models.Record{
		Fields: fields,
		Status: popStatus(fields),
		Subs:   make(map[string][]*models.Record),
	}
	if status != "" {
		rec.Status = status
	}

	for _, name := range v.opts.subCollections {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		subs, ok := v.extendSubList(raw)
		if !ok {
			continue
		}
		rec.Subs[name] = subs
		delete(fields, name)
	}

	return rec
}

// extendSub extends a single sub-record payload. Sub-collections nest only
// one level deep, so entries keep their remaining fields as-is.
func (v *Vault) extendSub(fields map[string]any, status models.Status) *models.Record {
	if status != "" && !status.Valid() {
		panic(fmt.Sprintf("vault: invalid record status %q", status))
	}
	if fields == nil {
		fields = map[string]any{}
	}
	rec := &models.Record{Fields: fields, Status: popStatus(fields)}
	if status != "" {
		rec.Status = status
	}
	return rec
}

// extendSubList converts a raw sub-collection value into extended
// sub-records. Returns false when the value is not a sequence of mappings,
// in which case the field stays untouched on the parent.
func (v *Vault) extendSubList(raw any) ([]*models.Record, bool) {
	var items []map[string]any
	switch list := raw.(type) {
	case []map[string]any:
		items = list
	case []any:
		items = make([]map[string]any, 0, len(list))
		for _, it := range list {
			m, ok := it.(map[string]any)
			if !ok {
				return nil, false
			}
			items = append(items, m)
		}
	default:
		return nil, false
	}

	subs := make([]*models.Record, 0, len(items))
	for _, m := range items {
		subs = append(subs, v.extendSub(m, ""))
	}
	return subs, true
}

// popStatus removes the status field from a payload map and returns it,
// defaulting to clean when absent or unrecognized.
func popStatus(fields map[string]any) models.Status {
	raw, ok := fields[statusField]
	if !ok {
		return models.StatusClean
	}
	delete(fields, statusField)
	if s, ok := raw.(string); ok && models.Status(s).Valid() {
		return models.Status(s)
	}
	return models.StatusClean
}

// strip produces a deep, status-free clone of a record suitable for wire
// transmission. Temporary identifiers of new records (and new sub-records)
// are dropped so the server can assign canonical ones. The original record
// is never mutated.
func (v *Vault) strip(rec *models.Record) map[string]any {
	out := cloneFields(rec.Fields)
	if rec.Status == models.StatusNew {
		delete(out, v.opts.idAttribute)
	}
	for name, subs := range rec.Subs {
		list := make([]any, 0, len(subs))
		for _, sub := range subs {
			m := cloneFields(sub.Fields)
			if sub.Status == models.StatusNew {
				delete(m, v.opts.idAttribute)
			}
			list = append(list, m)
		}
		out[name] = list
	}
	return out
}

// encodeRecord is the persistence counterpart of strip: a deep clone that
// keeps identifiers and re-inlines status tags, so an offline load restores
// the exact lifecycle state.
func (v *Vault) encodeRecord(rec *models.Record) map[string]any {
	out := cloneFields(rec.Fields)
	out[statusField] = string(rec.Status)
	for name, subs := range rec.Subs {
		list := make([]any, 0, len(subs))
		for _, sub := range subs {
			m := cloneFields(sub.Fields)
			m[statusField] = string(sub.Status)
			list = append(list, m)
		}
		out[name] = list
	}
	return out
}

// mergeServerLocked folds a server response into an existing record after a
// successful create: every returned field overwrites the local one,
// including the canonical identifier; returned sub-collection fields are
// re-extended. Caller holds v.mu.
func (v *Vault) mergeServerLocked(rec *models.Record, data map[string]any) {
	for k, val := range data {
		if k == statusField {
			continue
		}
		if slices.Contains(v.opts.subCollections, k) {
			if subs, ok := v.extendSubList(cloneValue(val)); ok {
				rec.Subs[k] = subs
				continue
			}
		}
		rec.Fields[k] = cloneValue(val)
	}
}
