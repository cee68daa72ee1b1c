package gcloud

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeGcloudDir builds a fake gcloud configuration directory and
// points CLOUDSDK_CONFIG at it.
func writeGcloudDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CLOUDSDK_CONFIG", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "configurations"), 0700))
	return dir
}

func TestConfigDirOverride(t *testing.T) {
	t.Setenv("CLOUDSDK_CONFIG", "/tmp/gcloud-test")
	dir, err := ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/gcloud-test", dir)
}

func TestActiveConfiguration(t *testing.T) {
	dir := writeGcloudDir(t)

	_, err := ActiveConfiguration()
	assert.ErrorIs(t, err, ErrNoActiveConfig)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "active_config"), []byte("default\n"), 0600))

	name, err := ActiveConfiguration()
	require.NoError(t, err)
	assert.Equal(t, "default", name)
}

func TestActiveConfigurationEmptyFile(t *testing.T) {
	dir := writeGcloudDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "active_config"), []byte("\n"), 0600))

	_, err := ActiveConfiguration()
	assert.ErrorIs(t, err, ErrNoActiveConfig)
}

func TestLoadConfiguration(t *testing.T) {
	dir := writeGcloudDir(t)
	conf := "[core]\naccount = alice@example.com\nproject = example-project\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configurations", "config_work"), []byte(conf), 0600))

	got, err := LoadConfiguration("work")
	require.NoError(t, err)
	assert.Equal(t, "work", got.Name)
	assert.Equal(t, "alice@example.com", got.Account)
	assert.Equal(t, "example-project", got.Project)
}

func TestLoadConfigurationActive(t *testing.T) {
	dir := writeGcloudDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "active_config"), []byte("default"), 0600))
	conf := "[core]\naccount = bob@example.com\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configurations", "config_default"), []byte(conf), 0600))

	got, err := LoadConfiguration("")
	require.NoError(t, err)
	assert.Equal(t, "default", got.Name)
	assert.Equal(t, "bob@example.com", got.Account)
}

func TestLoadConfigurationErrors(t *testing.T) {
	dir := writeGcloudDir(t)

	_, err := LoadConfiguration("missing")
	assert.ErrorIs(t, err, ErrConfigNotFound)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "configurations", "config_empty"), []byte("[core]\n"), 0600))
	_, err = LoadConfiguration("empty")
	assert.ErrorIs(t, err, ErrNoAccount)
}

func TestApplicationDefaultCredentialsPath(t *testing.T) {
	t.Setenv("CLOUDSDK_CONFIG", "/tmp/gcloud-test")
	path, err := ApplicationDefaultCredentialsPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/gcloud-test/application_default_credentials.json", path)
}
