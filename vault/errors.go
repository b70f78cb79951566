package vault

import "errors"

// Sentinel errors returned by vault methods for guard rejections. Callers
// should match them with [errors.Is]. Every guard rejection also appends a
// human-readable entry to the vault's message log; none of them panic.
var (
	// ErrLocked is returned by any mutation or sync entry point while a
	// network operation is in flight. Callers are expected to retry after
	// the outstanding operation completes; the vault never queues.
	ErrLocked = errors.New("vault is locked")

	// ErrOffline is returned by sync operations when the connectivity probe
	// reports the client has no network.
	ErrOffline = errors.New("client is offline")

	// ErrNothingToSync is returned by Save and Synchronize when no record
	// carries unsynchronized changes.
	ErrNothingToSync = errors.New("no changes to save")

	// ErrNotFound is returned when a lookup by identifier matches no record
	// (or no sub-record).
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateID is returned by Add when a record with the same
	// identifier is already present. Identifiers are unique within a vault
	// at any instant.
	ErrDuplicateID = errors.New("identifier already present in the vault")

	// ErrNoEndpoint is returned by Save when the endpoint required by the
	// record's status (create, update or delete URL) is not configured.
	ErrNoEndpoint = errors.New("no endpoint url configured for this operation")

	// ErrNoListURL is returned by Reload when no list URL is configured.
	ErrNoListURL = errors.New("no list url configured")

	// ErrUnknownSubCollection is returned by sub-collection operations when
	// the field name was not declared via WithSubCollections.
	ErrUnknownSubCollection = errors.New("unknown sub-collection")

	// ErrNoOfflineData is returned by the offline load when the store holds
	// no payload for the vault's name.
	ErrNoOfflineData = errors.New("no offline data")

	// ErrEmptyName is returned by New when the vault name is empty. The name
	// doubles as the offline-store key and the server payload key, so it is
	// mandatory.
	ErrEmptyName = errors.New("vault name must not be empty")
)
