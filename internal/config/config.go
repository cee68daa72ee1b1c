// Package config loads the CLI configuration file. Values here are
// flag defaults; command line flags always win.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the settings of ~/.config/googlecreds/config.toml.
type Config struct {
	// ClientSecret is the path of the OAuth client secret JSON file.
	ClientSecret string `toml:"client_secret,omitempty"`

	// Scopes are the default OAuth scopes to request.
	Scopes []string `toml:"scopes,omitempty"`

	// Account names the token cache entry to use.
	Account string `toml:"account,omitempty"`

	// CacheBackend selects the token cache: "file", "bolt" or "none".
	CacheBackend string `toml:"cache_backend,omitempty"`

	// CacheDir overrides the token cache location.
	CacheDir string `toml:"cache_dir,omitempty"`

	// Host and Port override the OAuth loopback redirect address.
	Host string `toml:"host,omitempty"`
	Port int    `toml:"port,omitempty"`

	// ProjectID is the default Firestore project.
	ProjectID string `toml:"project_id,omitempty"`
}

// Cache backends accepted in CacheBackend.
const (
	CacheBackendFile = "file"
	CacheBackendBolt = "bolt"
	CacheBackendNone = "none"
)

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		CacheBackend: CacheBackendFile,
	}
}

// Path returns the default configuration file path.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return filepath.Join(dir, "googlecreds", "config.toml"), nil
}

// Load reads the configuration file at path; an empty path uses the
// default location. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return nil, err
		}
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to path, creating the directory as
// needed. An empty path uses the default location.
func Save(cfg *Config, path string) error {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return err
		}
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) validate() error {
	switch c.CacheBackend {
	case "", CacheBackendFile, CacheBackendBolt, CacheBackendNone:
		return nil
	default:
		return fmt.Errorf("unknown cache backend %q (expected file, bolt or none)", c.CacheBackend)
	}
}
