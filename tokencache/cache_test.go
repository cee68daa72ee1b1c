package tokencache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func sampleToken() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  "ya29.sample-access-token",
		TokenType:    "Bearer",
		RefreshToken: "1//sample-refresh-token",
		Expiry:       time.Now().Add(time.Hour).Truncate(time.Second),
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	cache, err := NewFileCache(t.TempDir())
	require.NoError(t, err)

	_, err = cache.Load("default")
	assert.ErrorIs(t, err, ErrNoToken)

	want := sampleToken()
	require.NoError(t, cache.Store("default", want))

	got, err := cache.Load("default")
	require.NoError(t, err)
	assert.Equal(t, want.AccessToken, got.AccessToken)
	assert.Equal(t, want.RefreshToken, got.RefreshToken)
	assert.Equal(t, want.TokenType, got.TokenType)
	assert.WithinDuration(t, want.Expiry, got.Expiry, time.Second)
}

func TestFileCachePermissions(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewFileCache(dir)
	require.NoError(t, err)
	require.NoError(t, cache.Store("work", sampleToken()))

	info, err := os.Stat(cache.Path("work"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileCachePath(t *testing.T) {
	tests := []struct {
		name    string
		account string
		want    string
	}{
		{"default account", "default", "google-default.token.json"},
		{"work account", "work", "google-work.token.json"},
		{"personal account", "personal", "google-personal.token.json"},
	}

	dir := t.TempDir()
	cache, err := NewFileCache(dir)
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filepath.Base(cache.Path(tt.account)))
		})
	}
}

func TestFileCacheDelete(t *testing.T) {
	cache, err := NewFileCache(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, cache.Store("default", sampleToken()))
	require.NoError(t, cache.Delete("default"))

	_, err = cache.Load("default")
	assert.ErrorIs(t, err, ErrNoToken)

	// Deleting a missing token is not an error
	assert.NoError(t, cache.Delete("default"))
}

func TestFileCacheCorruptFile(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewFileCache(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(cache.Path("default"), []byte("not json"), 0600))

	_, err = cache.Load("default")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoToken)
}

func TestBoltCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.db")
	cache, err := NewBoltCache(path)
	require.NoError(t, err)
	defer cache.Close()

	_, err = cache.Load("default")
	assert.ErrorIs(t, err, ErrNoToken)

	want := sampleToken()
	require.NoError(t, cache.Store("default", want))

	got, err := cache.Load("default")
	require.NoError(t, err)
	assert.Equal(t, want.AccessToken, got.AccessToken)
	assert.Equal(t, want.RefreshToken, got.RefreshToken)
}

func TestBoltCacheAccountsAreIndependent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.db")
	cache, err := NewBoltCache(path)
	require.NoError(t, err)
	defer cache.Close()

	require.NoError(t, cache.Store("work", sampleToken()))

	_, err = cache.Load("personal")
	assert.ErrorIs(t, err, ErrNoToken)

	require.NoError(t, cache.Delete("work"))
	_, err = cache.Load("work")
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestNoopCache(t *testing.T) {
	cache := NewNoopCache()

	require.NoError(t, cache.Store("default", sampleToken()))

	_, err := cache.Load("default")
	assert.ErrorIs(t, err, ErrNoToken)
	assert.NoError(t, cache.Delete("default"))
}
