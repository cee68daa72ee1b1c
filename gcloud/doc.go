// Package gcloud reads credentials out of a local Google Cloud SDK
// installation.
//
// The gcloud CLI keeps its state under a single configuration
// directory (~/.config/gcloud by default, CLOUDSDK_CONFIG overrides).
// Relevant pieces:
//
//   - active_config: name of the active named configuration
//   - configurations/config_<name>: INI file with the [core] account
//   - credentials.db: SQLite database mapping accounts to
//     authorized-user credential JSON (written by `gcloud auth login`)
//   - application_default_credentials.json: written by
//     `gcloud auth application-default login`
//
// None of these formats are owned by this package; it only reads what
// gcloud wrote.
package gcloud
