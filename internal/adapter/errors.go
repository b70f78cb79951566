package adapter

import "errors"

var (
	// ErrUnauthorized is returned when the server answers 401; the bearer
	// token (if any) is stale or missing.
	ErrUnauthorized = errors.New("client unauthorized")

	// ErrServerRejected is returned when a 2xx response body carries a
	// boolean-style failure ("false" or "0") for an update or delete.
	ErrServerRejected = errors.New("server rejected the operation")
)
