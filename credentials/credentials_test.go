package credentials

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const authorizedUserJSON = `{"type":"authorized_user","client_id":"id","client_secret":"secret","refresh_token":"rt"}`

func TestReadCredentialJSONFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.json")
	require.NoError(t, os.WriteFile(path, []byte(authorizedUserJSON), 0600))

	data, err := readCredentialJSON(path)
	require.NoError(t, err)
	assert.JSONEq(t, authorizedUserJSON, string(data))
}

func TestReadCredentialJSONInline(t *testing.T) {
	data, err := readCredentialJSON(authorizedUserJSON)
	require.NoError(t, err)
	assert.JSONEq(t, authorizedUserJSON, string(data))
}

func TestReadCredentialJSONEmpty(t *testing.T) {
	_, err := readCredentialJSON("")
	assert.Error(t, err)

	_, err = readCredentialJSON("   ")
	assert.Error(t, err)
}

func TestServiceAccountFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.json")
	require.NoError(t, os.WriteFile(path, []byte(authorizedUserJSON), 0600))

	creds, err := ServiceAccount(context.Background(), path, "https://www.googleapis.com/auth/cloud-platform")
	require.NoError(t, err)
	assert.NotNil(t, creds.TokenSource)
}

func TestServiceAccountInlineJSON(t *testing.T) {
	creds, err := ServiceAccount(context.Background(), authorizedUserJSON)
	require.NoError(t, err)
	assert.NotNil(t, creds.TokenSource)
}

func TestServiceAccountInvalidJSON(t *testing.T) {
	_, err := ServiceAccount(context.Background(), "{not json")
	assert.Error(t, err)
}
