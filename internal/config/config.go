package config

import (
	"os"
	"time"
)

// StructuredConfig is the full configuration of the vaultsync binary,
// assembled from three layers: command-line flags, environment variables
// and an optional JSON file. Earlier layers win; see GetConfig.
type StructuredConfig struct {
	Vault     VaultSettings `envPrefix:"VAULT_"`
	Endpoints Endpoints     `envPrefix:"ENDPOINT_"`
	Storage   Storage       `envPrefix:"STORAGE_"`
	Adapter   Adapter       `envPrefix:"ADAPTER_"`
	Sync      Sync          `envPrefix:"SYNC_"`

	JSONFilePath string `env:"CONFIG"`
}

// VaultSettings configures the vault itself.
type VaultSettings struct {
	// Name identifies the mirrored resource collection. It doubles as the
	// offline-store key and the server payload key, so it is required.
	Name string `env:"NAME"`
	// IDAttribute is the record identifier field. Defaults to "id".
	IDAttribute string `env:"ID_ATTRIBUTE"`
	// Offline enables the local offline store.
	Offline bool `env:"OFFLINE"`
	// SubCollections lists the record fields managed as nested
	// sub-collections, comma-separated in the environment.
	SubCollections []string `env:"SUB_COLLECTIONS" envSeparator:","`
}

// Endpoints holds the four server URLs; each is optional.
type Endpoints struct {
	List   string `env:"LIST"`
	Create string `env:"CREATE"`
	Update string `env:"UPDATE"`
	Delete string `env:"DELETE"`
}

// Storage selects the offline store backend.
type Storage struct {
	// Driver is one of "memory", "file" or "sqlite". Defaults to "memory"
	// when the vault runs offline.
	Driver string `env:"DRIVER"`
	// Path is the backing file for the file and sqlite drivers.
	Path string `env:"PATH"`
}

// Adapter configures the HTTP transport.
type Adapter struct {
	Timeout   time.Duration `env:"TIMEOUT"`
	AuthToken string        `env:"AUTH_TOKEN"`
}

// Sync configures the background synchronize job.
type Sync struct {
	// Interval between synchronize runs. Zero disables the job.
	Interval time.Duration `env:"INTERVAL"`
}

// GetConfig builds the binary's configuration: flags first, then
// environment variables, then the JSON file named by either of the former.
// A value set in an earlier layer is never overridden by a later one. The
// merged result is validated before being returned.
func GetConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withFlags(os.Args[1:]).
		withEnv().
		withJSON().
		build()
}
