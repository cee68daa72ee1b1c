package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, CacheBackendFile, cfg.CacheBackend)
	assert.Empty(t, cfg.ClientSecret)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
client_secret = "/home/alice/client_secret.json"
scopes = ["https://www.googleapis.com/auth/gmail.readonly"]
account = "work"
cache_backend = "bolt"
host = "127.0.0.1"
port = 9090
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/home/alice/client_secret.json", cfg.ClientSecret)
	assert.Equal(t, []string{"https://www.googleapis.com/auth/gmail.readonly"}, cfg.Scopes)
	assert.Equal(t, "work", cfg.Account)
	assert.Equal(t, CacheBackendBolt, cfg.CacheBackend)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 9090, cfg.Port)
}

func TestLoadInvalidBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`cache_backend = "redis"`), 0600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache backend")
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	want := &Config{
		ClientSecret: "/tmp/secret.json",
		Account:      "work",
		CacheBackend: CacheBackendNone,
		Port:         8765,
	}
	require.NoError(t, Save(want, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want.ClientSecret, got.ClientSecret)
	assert.Equal(t, want.Account, got.Account)
	assert.Equal(t, want.CacheBackend, got.CacheBackend)
	assert.Equal(t, want.Port, got.Port)
}
