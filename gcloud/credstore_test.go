package gcloud

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// writeCredentialsDB creates a credentials.db with the schema gcloud
// uses and returns its path.
func writeCredentialsDB(t *testing.T, creds map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "credentials.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec("CREATE TABLE credentials (account_id TEXT PRIMARY KEY, value TEXT)")
	require.NoError(t, err)
	for account, value := range creds {
		_, err = db.Exec("INSERT INTO credentials (account_id, value) VALUES (?, ?)", account, value)
		require.NoError(t, err)
	}
	return path
}

func TestCredentialStore(t *testing.T) {
	path := writeCredentialsDB(t, map[string]string{
		"alice@example.com": `{"client_id":"id","client_secret":"secret","refresh_token":"rt","type":"authorized_user"}`,
		"bob@example.com":   `{"type":"authorized_user"}`,
	})

	store, err := OpenCredentialStore(path)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	value, err := store.Credential(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Contains(t, string(value), `"refresh_token":"rt"`)

	_, err = store.Credential(ctx, "carol@example.com")
	assert.ErrorIs(t, err, ErrNoCredential)

	accounts, err := store.Accounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice@example.com", "bob@example.com"}, accounts)
}

func TestCredentialStoreRejectsWrites(t *testing.T) {
	path := writeCredentialsDB(t, map[string]string{
		"alice@example.com": `{"type":"authorized_user"}`,
	})

	store, err := OpenCredentialStore(path)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.db.Exec("INSERT INTO credentials (account_id, value) VALUES (?, ?)", "mallory@example.com", "{}")
	assert.Error(t, err)
}

func TestOpenCredentialStoreMissingFile(t *testing.T) {
	_, err := OpenCredentialStore(filepath.Join(t.TempDir(), "credentials.db"))
	assert.Error(t, err)
}
