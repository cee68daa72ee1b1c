package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/googlecreds/internal/config"
	"github.com/teemow/googlecreds/tokencache"
)

func TestNewCacheBackends(t *testing.T) {
	dir := t.TempDir()

	cache, err := newCache(config.CacheBackendFile, dir)
	require.NoError(t, err)
	assert.IsType(t, &tokencache.FileCache{}, cache)

	cache, err = newCache(config.CacheBackendBolt, dir)
	require.NoError(t, err)
	assert.IsType(t, &tokencache.BoltCache{}, cache)

	cache, err = newCache(config.CacheBackendNone, "")
	require.NoError(t, err)
	assert.IsType(t, &tokencache.NoopCache{}, cache)

	_, err = newCache("redis", "")
	assert.Error(t, err)
}

func TestLoginOptionsPrecedence(t *testing.T) {
	secretPath := filepath.Join(t.TempDir(), "client_secret.json")
	secret := `{"installed":{"client_id":"id","client_secret":"secret","redirect_uris":["http://localhost/"]}}`
	require.NoError(t, os.WriteFile(secretPath, []byte(secret), 0600))

	cfg := &config.Config{
		ClientSecret: secretPath,
		Scopes:       []string{"config-scope"},
		Host:         "config-host",
		Port:         1111,
	}

	// Flags win over config values.
	opts, err := loginOptions(cfg, "", []string{"flag-scope"}, "flag-host", 2222)
	require.NoError(t, err)
	assert.Equal(t, []string{"flag-scope"}, opts.Scopes)
	assert.Equal(t, "flag-host", opts.Host)
	assert.Equal(t, 2222, opts.Port)

	// Config fills in whatever the flags leave empty.
	opts, err = loginOptions(cfg, "", nil, "", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"config-scope"}, opts.Scopes)
	assert.Equal(t, "config-host", opts.Host)
	assert.Equal(t, 1111, opts.Port)
	assert.Equal(t, "id", opts.ClientSecret.Config().ClientID)
}

func TestLoginOptionsMissingSecret(t *testing.T) {
	_, err := loginOptions(&config.Config{}, "", nil, "", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client secret")
}

func TestTokenFlagsUnknownMode(t *testing.T) {
	flags := &tokenFlags{mode: "telepathy"}
	_, err := flags.tokenSource(context.Background(), config.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telepathy")
}

func TestTokenFlagsServiceAccountNeedsKey(t *testing.T) {
	flags := &tokenFlags{mode: "service-account"}
	_, err := flags.tokenSource(context.Background(), config.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--key")
}

func TestVersionCmd(t *testing.T) {
	SetVersion("1.2.3")

	var out bytes.Buffer
	cmd := newVersionCmd()
	cmd.SetOut(&out)
	cmd.Run(cmd, nil)

	assert.Equal(t, "googlecreds version 1.2.3\n", out.String())
}
