package config

import "errors"

var (
	// ErrVaultNameRequired is returned when no layer supplied a vault name.
	ErrVaultNameRequired = errors.New("vault name is required")

	// ErrUnknownStorageDriver is returned for a storage driver other than
	// memory, file or sqlite.
	ErrUnknownStorageDriver = errors.New("unknown storage driver")

	// ErrStoragePathRequired is returned when the file or sqlite driver is
	// selected without a backing path.
	ErrStoragePathRequired = errors.New("storage path is required")
)
