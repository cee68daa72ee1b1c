package clientsecret

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ClientConfig is the payload of one client secret envelope.
type ClientConfig struct {
	ClientID                string   `json:"client_id"`
	ClientSecret            string   `json:"client_secret"`
	ProjectID               string   `json:"project_id"`
	AuthURI                 string   `json:"auth_uri"`
	TokenURI                string   `json:"token_uri"`
	AuthProviderX509CertURL string   `json:"auth_provider_x509_cert_url"`
	RedirectURIs            []string `json:"redirect_uris"`
}

// File is a parsed client secret file. Exactly one of the envelopes is
// populated.
type File struct {
	Installed *ClientConfig `json:"installed,omitempty"`
	Web       *ClientConfig `json:"web,omitempty"`
}

// Config returns the populated envelope.
func (f *File) Config() *ClientConfig {
	if f.Installed != nil {
		return f.Installed
	}
	return f.Web
}

// Parse parses client secret JSON.
func Parse(data []byte) (*File, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse client secret: %w", err)
	}
	if f.Installed == nil && f.Web == nil {
		return nil, fmt.Errorf("client secret contains neither an \"installed\" nor a \"web\" section")
	}
	return &f, nil
}

// ReadFile reads and parses a client secret file from disk.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read client secret file: %w", err)
	}
	return Parse(data)
}

// OAuthConfig builds an oauth2.Config for the given scopes. The heavy
// lifting is done by google.ConfigFromJSON.
func (f *File) OAuthConfig(scopes ...string) (*oauth2.Config, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("failed to encode client secret: %w", err)
	}
	conf, err := google.ConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to build OAuth config: %w", err)
	}
	return conf, nil
}

// Redirect describes where the loopback login flow should listen,
// derived from the first redirect URI of the client secret.
type Redirect struct {
	Host string
	Port int

	// TrailingSlash records whether the redirect URI ends with "/".
	// Google rejects token exchanges when the redirect URI sent does
	// not match the registered one byte for byte.
	TrailingSlash bool
}

// Defaults used when the client secret carries no redirect URIs.
const (
	DefaultRedirectHost = "localhost"
	DefaultRedirectPort = 8080
)

// InferRedirect derives the loopback listen address from the first
// redirect URI. Without redirect URIs it falls back to
// localhost:8080 with a trailing slash.
func (f *File) InferRedirect() (Redirect, error) {
	uris := f.Config().RedirectURIs
	if len(uris) == 0 {
		return Redirect{Host: DefaultRedirectHost, Port: DefaultRedirectPort, TrailingSlash: true}, nil
	}

	raw := uris[0]
	u, err := url.Parse(raw)
	if err != nil {
		return Redirect{}, fmt.Errorf("failed to parse redirect URI %q: %w", raw, err)
	}

	host := u.Hostname()
	if host == "" {
		host = DefaultRedirectHost
	}

	port := 80
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			return Redirect{}, fmt.Errorf("invalid port in redirect URI %q: %w", raw, err)
		}
	}

	return Redirect{
		Host:          host,
		Port:          port,
		TrailingSlash: strings.HasSuffix(raw, "/"),
	}, nil
}
