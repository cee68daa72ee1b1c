package tokencache

import (
	"errors"

	"golang.org/x/oauth2"
)

// ErrNoToken is returned by Load when the cache holds no token for the
// requested account.
var ErrNoToken = errors.New("tokencache: no cached token")

// Cache stores and retrieves OAuth2 tokens by account name.
type Cache interface {
	// Load returns the cached token for the account, or ErrNoToken.
	Load(account string) (*oauth2.Token, error)

	// Store persists the token for the account, replacing any
	// previous one.
	Store(account string, token *oauth2.Token) error

	// Delete removes the cached token for the account. Deleting a
	// missing token is not an error.
	Delete(account string) error
}

// DefaultAccount is the account name used when the caller does not
// manage multiple accounts.
const DefaultAccount = "default"
