package credentials

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/oauth2/google"

	"github.com/teemow/googlecreds/gcloud"
	"github.com/teemow/googlecreds/internal/instrumentation"
	"github.com/teemow/googlecreds/internal/logging"
)

// findDefaultCredentials is a seam for tests; the default is the
// standard Google SDK lookup.
var findDefaultCredentials = google.FindDefaultCredentials

// FromEnvironment builds service account credentials from the
// GOOGLE_APPLICATION_CREDENTIALS environment variable, which may hold
// a key file path or the key JSON itself.
func FromEnvironment(ctx context.Context, scopes ...string) (*google.Credentials, error) {
	value := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	if value == "" {
		return nil, fmt.Errorf("GOOGLE_APPLICATION_CREDENTIALS is not set")
	}
	return ServiceAccount(ctx, value, scopes...)
}

// ApplicationDefault resolves credentials through the application
// default credential chain: the environment variable, the gcloud ADC
// file, and the metadata server, in that order. The chain itself is
// owned by golang.org/x/oauth2/google.
func ApplicationDefault(ctx context.Context, scopes ...string) (*google.Credentials, error) {
	logger := logging.WithOperation(logging.WithMode(slog.Default(), ModeADC), "credentials.adc")
	start := time.Now()

	creds, err := findDefaultCredentials(ctx, scopes...)
	if err != nil {
		metricsRecorder.RecordCredentialLoad(ctx, ModeADC, instrumentation.StatusError, time.Since(start))
		logger.Error("failed to resolve application default credentials", logging.Err(err))
		return nil, fmt.Errorf("failed to resolve application default credentials: %w", err)
	}

	metricsRecorder.RecordCredentialLoad(ctx, ModeADC, instrumentation.StatusSuccess, time.Since(start))
	logger.Debug("application default credentials resolved", "project_id", creds.ProjectID)
	return creds, nil
}

// GcloudApplicationDefault builds credentials from the ADC file
// written by `gcloud auth application-default login`, bypassing the
// rest of the default chain.
func GcloudApplicationDefault(ctx context.Context, scopes ...string) (*google.Credentials, error) {
	logger := logging.WithOperation(logging.WithMode(slog.Default(), ModeGcloudADC), "credentials.gcloud_adc")
	start := time.Now()

	creds, err := gcloudApplicationDefault(ctx, scopes...)
	if err != nil {
		metricsRecorder.RecordCredentialLoad(ctx, ModeGcloudADC, instrumentation.StatusError, time.Since(start))
		logger.Error("failed to load gcloud ADC file", logging.Err(err))
		return nil, err
	}

	metricsRecorder.RecordCredentialLoad(ctx, ModeGcloudADC, instrumentation.StatusSuccess, time.Since(start))
	return creds, nil
}

func gcloudApplicationDefault(ctx context.Context, scopes ...string) (*google.Credentials, error) {
	path, err := gcloud.ApplicationDefaultCredentialsPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s (run `gcloud auth application-default login` first): %w", path, err)
	}
	creds, err := google.CredentialsFromJSON(ctx, data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse application default credentials: %w", err)
	}
	return creds, nil
}

// GcloudUser builds credentials from the account that `gcloud auth
// login` authorized. The configuration argument names a gcloud
// configuration; empty means the active one.
func GcloudUser(ctx context.Context, configuration string, scopes ...string) (*google.Credentials, error) {
	logger := logging.WithOperation(logging.WithMode(slog.Default(), ModeGcloud), "credentials.gcloud_user")
	start := time.Now()

	creds, account, err := gcloudUser(ctx, configuration, scopes...)
	if err != nil {
		metricsRecorder.RecordCredentialLoad(ctx, ModeGcloud, instrumentation.StatusError, time.Since(start))
		logger.Error("failed to load gcloud user credentials", logging.Err(err))
		return nil, err
	}

	metricsRecorder.RecordCredentialLoad(ctx, ModeGcloud, instrumentation.StatusSuccess, time.Since(start))
	logger.Debug("gcloud user credentials loaded", logging.UserHash(account), logging.Domain(account))
	return creds, nil
}

func gcloudUser(ctx context.Context, configuration string, scopes ...string) (*google.Credentials, string, error) {
	conf, err := gcloud.LoadConfiguration(configuration)
	if err != nil {
		return nil, "", err
	}

	store, err := gcloud.OpenCredentialStore("")
	if err != nil {
		return nil, "", err
	}
	defer store.Close()

	data, err := store.Credential(ctx, conf.Account)
	if err != nil {
		return nil, "", err
	}

	creds, err := google.CredentialsFromJSON(ctx, data, scopes...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse gcloud credential for %s: %w", logging.AnonymizeEmail(conf.Account), err)
	}
	return creds, conf.Account, nil
}
