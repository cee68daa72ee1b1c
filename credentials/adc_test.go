package credentials

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2/google"
	_ "modernc.org/sqlite"
)

func TestFromEnvironmentUnset(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	_, err := FromEnvironment(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_APPLICATION_CREDENTIALS")
}

func TestFromEnvironmentPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.json")
	require.NoError(t, os.WriteFile(path, []byte(authorizedUserJSON), 0600))
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", path)

	creds, err := FromEnvironment(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, creds.TokenSource)
}

func TestFromEnvironmentInlineJSON(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", authorizedUserJSON)

	creds, err := FromEnvironment(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, creds.TokenSource)
}

func TestApplicationDefault(t *testing.T) {
	orig := findDefaultCredentials
	t.Cleanup(func() { findDefaultCredentials = orig })

	want := &google.Credentials{ProjectID: "example-project"}
	findDefaultCredentials = func(ctx context.Context, scopes ...string) (*google.Credentials, error) {
		assert.Equal(t, []string{"scope-a"}, scopes)
		return want, nil
	}

	creds, err := ApplicationDefault(context.Background(), "scope-a")
	require.NoError(t, err)
	assert.Same(t, want, creds)
}

func TestGcloudApplicationDefault(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CLOUDSDK_CONFIG", dir)
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "application_default_credentials.json"),
		[]byte(authorizedUserJSON), 0600))

	creds, err := GcloudApplicationDefault(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, creds.TokenSource)
}

func TestGcloudApplicationDefaultMissing(t *testing.T) {
	t.Setenv("CLOUDSDK_CONFIG", t.TempDir())

	_, err := GcloudApplicationDefault(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gcloud auth application-default login")
}

// writeGcloudFixture lays out a gcloud configuration directory with an
// active configuration and a populated credentials.db.
func writeGcloudFixture(t *testing.T, account string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CLOUDSDK_CONFIG", dir)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "configurations"), 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "active_config"), []byte("default\n"), 0600))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "configurations", "config_default"),
		[]byte("[core]\naccount = "+account+"\nproject = example-project\n"), 0600))

	db, err := sql.Open("sqlite", filepath.Join(dir, "credentials.db"))
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec("CREATE TABLE credentials (account_id TEXT PRIMARY KEY, value TEXT)")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO credentials (account_id, value) VALUES (?, ?)", account, authorizedUserJSON)
	require.NoError(t, err)
}

func TestGcloudUser(t *testing.T) {
	writeGcloudFixture(t, "alice@example.com")

	creds, err := GcloudUser(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, creds.TokenSource)
}

func TestGcloudUserUnknownConfiguration(t *testing.T) {
	writeGcloudFixture(t, "alice@example.com")

	_, err := GcloudUser(context.Background(), "missing")
	assert.Error(t, err)
}
