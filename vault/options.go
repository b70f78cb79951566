package vault

import (
	"github.com/MKhiriev/sync-vault/internal/logger"
)

type options struct {
	autoload       bool
	afterLoad      func(*Vault)
	idAttribute    string
	offline        bool
	subCollections []string

	transport Transport
	store     OfflineStore
	online    func() bool
	idgen     IDGenerator
	log       *logger.Logger
}

func defaultOptions() options {
	return options{
		autoload:    true,
		idAttribute: "id",
		online:      func() bool { return true },
		idgen:       newTimestampIDGenerator(),
		log:         logger.Nop(),
	}
}

// Option configures a Vault at construction time.
type Option func(*options)

// WithAutoload toggles the initial load on construction. Default: true.
func WithAutoload(autoload bool) Option {
	return func(o *options) { o.autoload = autoload }
}

// WithAfterLoad registers a callback invoked on a fresh goroutine once the
// initial load (offline or remote) has settled. New returns before the
// callback runs.
func WithAfterLoad(fn func(*Vault)) Option {
	return func(o *options) { o.afterLoad = fn }
}

// WithIDAttribute sets the name of the identifier field. Default: "id".
func WithIDAttribute(attr string) Option {
	return func(o *options) {
		if attr != "" {
			o.idAttribute = attr
		}
	}
}

// WithOffline enables the offline store: every completed mutation is
// persisted, and bootstrap prefers locally stored data over the server when
// it contains unsynchronized changes. Default: false.
func WithOffline(offline bool) Option {
	return func(o *options) { o.offline = offline }
}

// WithSubCollections declares the record fields that hold nested
// sub-collections. Declared fields are extracted into [models.Record.Subs]
// on extension and managed through [Vault.Sub] handles.
func WithSubCollections(fields ...string) Option {
	return func(o *options) { o.subCollections = append(o.subCollections, fields...) }
}

// WithTransport replaces the default HTTP transport.
func WithTransport(t Transport) Option {
	return func(o *options) { o.transport = t }
}

// WithOfflineStore supplies the offline store used when WithOffline is on.
// Without it an in-memory store is used, which does not survive the process.
func WithOfflineStore(s OfflineStore) Option {
	return func(o *options) { o.store = s }
}

// WithOnlineCheck supplies the connectivity probe consulted before any
// network operation. Default: always online.
func WithOnlineCheck(fn func() bool) Option {
	return func(o *options) {
		if fn != nil {
			o.online = fn
		}
	}
}

// WithIDGenerator replaces the identifier-generation strategy used by Add
// for records lacking an identifier. Default: session-monotonic unix-milli
// timestamps.
func WithIDGenerator(g IDGenerator) Option {
	return func(o *options) {
		if g != nil {
			o.idgen = g
		}
	}
}

// WithLogger attaches a logger. Default: a no-op logger.
func WithLogger(log *logger.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}
