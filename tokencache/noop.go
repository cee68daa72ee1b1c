package tokencache

import "golang.org/x/oauth2"

// NoopCache never stores anything. Load always reports ErrNoToken.
type NoopCache struct{}

// NewNoopCache creates a cache that discards all tokens.
func NewNoopCache() *NoopCache {
	return &NoopCache{}
}

func (*NoopCache) Load(string) (*oauth2.Token, error) { return nil, ErrNoToken }
func (*NoopCache) Store(string, *oauth2.Token) error  { return nil }
func (*NoopCache) Delete(string) error                { return nil }

var _ Cache = (*NoopCache)(nil)
