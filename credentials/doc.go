// Package credentials constructs Google credentials from the places
// they usually live.
//
// Every constructor is a thin wrapper over golang.org/x/oauth2/google
// or google.golang.org/api/idtoken; this package only decides which
// upstream call to make and where its input comes from:
//
//   - Login / CachedTokenSource: browser OAuth flow against a client
//     secret file, with token persistence via package tokencache
//   - ServiceAccount: service account key as file path or inline JSON
//   - FromEnvironment: GOOGLE_APPLICATION_CREDENTIALS
//   - ApplicationDefault: application default credential chain
//   - GcloudApplicationDefault / GcloudUser: credentials written by
//     `gcloud auth application-default login` and `gcloud auth login`
//   - NewIDTokenSource: service-account ID tokens for a target audience
//
// Access and ID tokens are extracted with AccessToken and IDToken,
// which fail with a pointer to the right constructor instead of
// returning the wrong kind of token.
package credentials
