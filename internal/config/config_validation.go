package config

import "fmt"

const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// applyDefaults fills the gaps no layer covered.
func (c *StructuredConfig) applyDefaults() {
	if c.Vault.IDAttribute == "" {
		c.Vault.IDAttribute = "id"
	}
	if c.Vault.Offline && c.Storage.Driver == "" {
		c.Storage.Driver = DriverMemory
	}
}

func (c *StructuredConfig) validate() error {
	if c.Vault.Name == "" {
		return ErrVaultNameRequired
	}

	switch c.Storage.Driver {
	case "", DriverMemory:
	case DriverFile, DriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("%w: driver %q", ErrStoragePathRequired, c.Storage.Driver)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorageDriver, c.Storage.Driver)
	}

	return nil
}
