// Package tokencache persists OAuth2 tokens between runs.
//
// Tokens are stored as authorized-user JSON so that a cache written by
// this library can be read by anything that understands oauth2.Token.
// Three backends are provided: a single-file JSON cache, a Bolt
// database keyed by account name, and a no-op cache for callers that
// must never touch disk.
package tokencache
