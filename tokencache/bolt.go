package tokencache

import (
	"encoding/json"
	"fmt"

	"github.com/boltdb/bolt"
	"golang.org/x/oauth2"
)

var tokensBucketName = []byte("tokens")

// BoltCache stores tokens in a Bolt database, keyed by account name.
// Useful when several accounts share one cache file.
type BoltCache struct {
	db *bolt.DB
}

// NewBoltCache opens (or creates) the Bolt database at path.
func NewBoltCache(path string) (*BoltCache, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open token database: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(tokensBucketName)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tokens bucket: %w", err)
	}
	return &BoltCache{db: db}, nil
}

// Load reads the token for the account from the database.
func (c *BoltCache) Load(account string) (*oauth2.Token, error) {
	var data []byte
	if err := c.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(tokensBucketName).Get([]byte(account)); v != nil {
			data = append(data, v...)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to read token: %w", err)
	}
	if data == nil {
		return nil, ErrNoToken
	}
	var t oauth2.Token
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse cached token: %w", err)
	}
	return &t, nil
}

// Store writes the token for the account to the database.
func (c *BoltCache) Store(account string, token *oauth2.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(tokensBucketName).Put([]byte(account), data)
	})
}

// Delete removes the token for the account.
func (c *BoltCache) Delete(account string) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(tokensBucketName).Delete([]byte(account))
	})
}

// Close closes the underlying database.
func (c *BoltCache) Close() error {
	return c.db.Close()
}

var _ Cache = (*BoltCache)(nil)
