package gcloud

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// Sentinel errors for missing gcloud state.
var (
	// ErrNoActiveConfig indicates that gcloud has no active named
	// configuration.
	ErrNoActiveConfig = errors.New("gcloud: no active configuration")

	// ErrConfigNotFound indicates that the named configuration file
	// does not exist.
	ErrConfigNotFound = errors.New("gcloud: configuration not found")

	// ErrNoAccount indicates the configuration has no core account set.
	ErrNoAccount = errors.New("gcloud: configuration has no account")
)

// ConfigDir returns the gcloud configuration directory. CLOUDSDK_CONFIG
// takes precedence, matching gcloud's own lookup.
func ConfigDir() (string, error) {
	if dir := os.Getenv("CLOUDSDK_CONFIG"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "gcloud"), nil
}

// ApplicationDefaultCredentialsPath returns the path of the ADC file
// written by `gcloud auth application-default login`.
func ApplicationDefaultCredentialsPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "application_default_credentials.json"), nil
}

// Configuration is one named gcloud configuration.
type Configuration struct {
	Name    string
	Account string
	Project string
}

// ActiveConfiguration returns the name of the active configuration,
// read from the active_config file.
func ActiveConfiguration() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	f, err := os.Open(filepath.Join(dir, "active_config"))
	if os.IsNotExist(err) {
		return "", ErrNoActiveConfig
	}
	if err != nil {
		return "", fmt.Errorf("failed to read active_config: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return "", ErrNoActiveConfig
	}
	name := strings.TrimSpace(scanner.Text())
	if name == "" {
		return "", ErrNoActiveConfig
	}
	return name, nil
}

// LoadConfiguration parses the named configuration. An empty name
// resolves the active configuration first.
func LoadConfiguration(name string) (*Configuration, error) {
	if name == "" {
		var err error
		name, err = ActiveConfiguration()
		if err != nil {
			return nil, err
		}
	}

	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, "configurations", "config_"+name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}

	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration %s: %w", name, err)
	}

	core := file.Section("core")
	conf := &Configuration{
		Name:    name,
		Account: core.Key("account").String(),
		Project: core.Key("project").String(),
	}
	if conf.Account == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoAccount, name)
	}
	return conf, nil
}
