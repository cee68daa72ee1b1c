// Package clientsecret reads Google OAuth client secret files.
//
// A client secret file is the JSON downloaded from the Google Cloud
// console under "OAuth 2.0 Client IDs". Both the "installed" and "web"
// envelopes are supported. Building the oauth2.Config itself is left
// to golang.org/x/oauth2/google; this package adds the pieces that
// library does not expose, mainly redirect URI inference for the
// loopback login flow.
package clientsecret
