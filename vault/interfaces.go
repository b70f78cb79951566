// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package vault implements a client-side, in-memory record collection that
// mirrors a remote resource collection, supports optimistic offline editing,
// and synchronizes changes back over HTTP.
//
// A Vault owns an ordered collection of [models.Record] values and tracks
// each record's lifecycle status (clean, dirty, new, deleted). Local
// mutations go through the vault's CRUD surface; Save, Reload and
// Synchronize push and pull state against the configured endpoint URLs.
// While a network operation is in flight the vault is locked and every
// mutation fails fast instead of queueing.
package vault

import "context"

// Transport performs the four remote operations of the synchronization
// protocol. The default implementation lives in internal/adapter and speaks
// HTTP via resty; tests and embedders may supply their own.
//
// For Create, Update and Delete, key is the vault name and payload is the
// JSON encoding of the stripped record; the wire shape is a single
// key/value pair {key: payload}. List returns the decoded JSON array from
// the list endpoint.
type Transport interface {
	List(ctx context.Context, url string) ([]map[string]any, error)
	Create(ctx context.Context, url string, key string, payload []byte) (map[string]any, error)
	Update(ctx context.Context, url string, key string, payload []byte) error
	Delete(ctx context.Context, url string, key string, payload []byte) error
}

// OfflineStore is the local persistent key/value store consulted only when
// the vault runs with the offline option. The vault serializes its entire
// collection, status tags included, as one JSON blob keyed by the vault
// name. GetItem returns a nil or empty slice when no payload exists.
//
// Implementations in internal/store: in-memory, JSON file, and SQLite.
type OfflineStore interface {
	GetItem(ctx context.Context, name string) ([]byte, error)
	SetItem(ctx context.Context, name string, payload []byte) error
}
