package tokencache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
)

// FileCache stores one token per account as a JSON file inside a
// directory. Files are written 0600 in a 0700 directory.
type FileCache struct {
	dir string
}

// NewFileCache creates a file-based token cache rooted at dir.
// If dir is empty, a "googlecreds" directory under the user cache
// directory is used.
func NewFileCache(dir string) (*FileCache, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("failed to determine user cache directory: %w", err)
		}
		dir = filepath.Join(base, "googlecreds")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &FileCache{dir: dir}, nil
}

// Path returns the file path used for the given account.
func (c *FileCache) Path(account string) string {
	return filepath.Join(c.dir, "google-"+account+".token.json")
}

// Load reads the token for the account from disk.
func (c *FileCache) Load(account string) (*oauth2.Token, error) {
	data, err := os.ReadFile(c.Path(account))
	if os.IsNotExist(err) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}
	var t oauth2.Token
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}
	return &t, nil
}

// Store writes the token for the account to disk.
func (c *FileCache) Store(account string, token *oauth2.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(c.Path(account), data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Delete removes the token file for the account.
func (c *FileCache) Delete(account string) error {
	err := os.Remove(c.Path(account))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

var _ Cache = (*FileCache)(nil)
