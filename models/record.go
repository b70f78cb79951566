// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package models defines the plain data types shared by the vault core and
// its collaborators: the Record with its lifecycle status, identifier
// normalization, and the append-only message log.
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Status is the lifecycle tag of a record.
//
// A record is "clean" when it matches the last known server state, "dirty"
// when it has unsynchronized local changes, "new" when it was created locally
// and never persisted remotely, and "deleted" when it is marked for remote
// removal pending the next save.
type Status string

const (
	StatusClean   Status = "clean"
	StatusDirty   Status = "dirty"
	StatusNew     Status = "new"
	StatusDeleted Status = "deleted"
)

// Valid reports whether s is one of the four known lifecycle statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusClean, StatusDirty, StatusNew, StatusDeleted:
		return true
	default:
		return false
	}
}

// Unsynced reports whether s counts toward the vault's dirty count,
// i.e. whether the record carries state the server has not seen yet.
func (s Status) Unsynced() bool {
	return s == StatusNew || s == StatusDirty || s == StatusDeleted
}

// Record is one managed entity of a vault. It is plain data: all mutation
// and synchronization goes through the owning vault, records themselves
// carry no behavior.
//
// Fields holds the business fields as decoded from JSON payloads.
// Subs holds the configured sub-collections extracted from the payload,
// keyed by field name; sub-records have the same status semantics as the
// parent but ride the parent's save payload.
type Record struct {
	Fields map[string]any
	Status Status
	Subs   map[string][]*Record
}

// ID returns the normalized identifier of the record under the given
// identifier attribute. The second return value is false when the attribute
// is absent or empty.
func (r *Record) ID(idAttribute string) (string, bool) {
	raw, ok := r.Fields[idAttribute]
	if !ok {
		return "", false
	}
	id := NormalizeID(raw)
	return id, id != ""
}

// NormalizeID converts an identifier of any representation to its canonical
// string form, so that 1, int64(1), float64(1) and "1" all compare equal.
// JSON decoding yields float64 for numbers; integral floats are rendered
// without a fractional part.
func NormalizeID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(id), 'f', -1, 32)
	case int:
		return strconv.Itoa(id)
	case int32:
		return strconv.FormatInt(int64(id), 10)
	case int64:
		return strconv.FormatInt(id, 10)
	case uint64:
		return strconv.FormatUint(id, 10)
	case json.Number:
		return id.String()
	default:
		return fmt.Sprint(id)
	}
}
