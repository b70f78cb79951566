package config

import (
	"flag"
	"strings"
	"time"
)

// ParseFlags parses command-line configuration flags into a config layer.
//
// Flags:
//
//	-name vault name (resource identifier)
//	-id-attribute record identifier field
//	-offline enable the offline store
//	-sub-collections comma-separated nested collection fields
//	-list-url/-create-url/-update-url/-delete-url endpoint URLs
//	-storage-driver memory|file|sqlite
//	-storage-path backing file for the file/sqlite drivers
//	-timeout request timeout (e.g. "30s")
//	-auth-token bearer token attached to every request
//	-sync-interval background synchronize interval (e.g. "5m")
//	-c/-config json config file path
func ParseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("vaultsync", flag.ContinueOnError)

	var (
		name           string
		idAttribute    string
		offline        bool
		subCollections string
		listURL        string
		createURL      string
		updateURL      string
		deleteURL      string
		storageDriver  string
		storagePath    string
		timeout        time.Duration
		authToken      string
		syncInterval   time.Duration
		jsonConfigPath string
	)

	fs.StringVar(&name, "name", "", "Vault name (resource identifier)")
	fs.StringVar(&idAttribute, "id-attribute", "", "Record identifier field")
	fs.BoolVar(&offline, "offline", false, "Enable the offline store")
	fs.StringVar(&subCollections, "sub-collections", "", "Comma-separated nested collection fields")
	fs.StringVar(&listURL, "list-url", "", "List endpoint URL")
	fs.StringVar(&createURL, "create-url", "", "Create endpoint URL")
	fs.StringVar(&updateURL, "update-url", "", "Update endpoint URL")
	fs.StringVar(&deleteURL, "delete-url", "", "Delete endpoint URL")
	fs.StringVar(&storageDriver, "storage-driver", "", "Offline store driver: memory|file|sqlite")
	fs.StringVar(&storagePath, "storage-path", "", "Offline store path (file/sqlite)")
	fs.DurationVar(&timeout, "timeout", 0, "Request timeout (e.g. 30s)")
	fs.StringVar(&authToken, "auth-token", "", "Bearer token for every request")
	fs.DurationVar(&syncInterval, "sync-interval", 0, "Background synchronize interval (e.g. 5m)")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := &StructuredConfig{
		Vault: VaultSettings{
			Name:        name,
			IDAttribute: idAttribute,
			Offline:     offline,
		},
		Endpoints: Endpoints{
			List:   listURL,
			Create: createURL,
			Update: updateURL,
			Delete: deleteURL,
		},
		Storage: Storage{
			Driver: storageDriver,
			Path:   storagePath,
		},
		Adapter: Adapter{
			Timeout:   timeout,
			AuthToken: authToken,
		},
		Sync: Sync{
			Interval: syncInterval,
		},
		JSONFilePath: jsonConfigPath,
	}
	if subCollections != "" {
		for _, field := range strings.Split(subCollections, ",") {
			if field = strings.TrimSpace(field); field != "" {
				cfg.Vault.SubCollections = append(cfg.Vault.SubCollections, field)
			}
		}
	}
	return cfg, nil
}
