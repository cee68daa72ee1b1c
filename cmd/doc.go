// Package cmd implements the command-line interface for googlecreds.
//
// This package provides the following commands:
//   - login: Run the browser OAuth flow and persist the token
//   - token: Print an access token for any credential mode
//   - id-token: Print a Google-signed ID token
//   - refresh: Exchange a refresh token for a fresh access token
//   - serve: Run the local token service with Prometheus metrics
//   - version: Display version information
//
// Flag defaults come from ~/.config/googlecreds/config.toml; flags
// given on the command line win.
package cmd
