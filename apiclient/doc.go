// Package apiclient builds authenticated Google API service clients
// from an oauth2.TokenSource, with client-side rate limiting and
// error classification for the Google APIs this module targets.
package apiclient
