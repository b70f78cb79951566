package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors StructuredConfig with JSON tags and the
// Duration wrapper, so config files can spell durations as "30s" or "5m".
type StructuredJSONConfig struct {
	Vault struct {
		Name           string   `json:"name"`
		IDAttribute    string   `json:"id_attribute"`
		Offline        bool     `json:"offline"`
		SubCollections []string `json:"sub_collections"`
	} `json:"vault,omitempty"`

	Endpoints struct {
		List   string `json:"list"`
		Create string `json:"create"`
		Update string `json:"update"`
		Delete string `json:"delete"`
	} `json:"endpoints,omitempty"`

	Storage struct {
		Driver string `json:"driver"`
		Path   string `json:"path"`
	} `json:"storage,omitempty"`

	Adapter struct {
		Timeout   Duration `json:"timeout"`
		AuthToken string   `json:"auth_token"`
	} `json:"adapter,omitempty"`

	Sync struct {
		Interval Duration `json:"interval"`
	} `json:"sync,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err = json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	return &StructuredConfig{
		Vault: VaultSettings{
			Name:           jsonCfg.Vault.Name,
			IDAttribute:    jsonCfg.Vault.IDAttribute,
			Offline:        jsonCfg.Vault.Offline,
			SubCollections: jsonCfg.Vault.SubCollections,
		},
		Endpoints: Endpoints{
			List:   jsonCfg.Endpoints.List,
			Create: jsonCfg.Endpoints.Create,
			Update: jsonCfg.Endpoints.Update,
			Delete: jsonCfg.Endpoints.Delete,
		},
		Storage: Storage{
			Driver: jsonCfg.Storage.Driver,
			Path:   jsonCfg.Storage.Path,
		},
		Adapter: Adapter{
			Timeout:   time.Duration(jsonCfg.Adapter.Timeout),
			AuthToken: jsonCfg.Adapter.AuthToken,
		},
		Sync: Sync{
			Interval: time.Duration(jsonCfg.Sync.Interval),
		},
	}, nil
}

// Duration wraps time.Duration with JSON unmarshaling from strings like
// "1h" or "30s" as well as raw nanosecond numbers.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
