package storage

import (
	"errors"
	"fmt"
)

// Provider constants for supported storage backends.
const (
	ProviderLocal  = "local"
	ProviderMemory = "memory"
)

// DefaultBasePath is the default root for the local backend.
const DefaultBasePath = "/tmp/taskflow-store"

// Config holds storage configuration.
type Config struct {
	// Provider selects the storage backend: "local" or "memory".
	Provider string `mapstructure:"provider" json:"provider"`

	// BasePath is the root directory for local storage.
	BasePath string `mapstructure:"base_path" json:"base_path"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderLocal
	}
	if c.BasePath == "" {
		c.BasePath = DefaultBasePath
	}
}

// Validate checks that the configuration is valid for the selected provider.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderLocal:
		if c.BasePath == "" {
			return errors.New("storage: base_path is required for local provider")
		}
	case ProviderMemory:
	default:
		return fmt.Errorf("storage: unsupported provider %q", c.Provider)
	}
	return nil
}

// New creates a Storage implementation based on the given Config.
func New(cfg Config) (Storage, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Provider {
	case ProviderMemory:
		return NewMemory(), nil
	default:
		return NewLocal(cfg.BasePath)
	}
}
