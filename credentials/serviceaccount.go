package credentials

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2/google"

	"github.com/teemow/googlecreds/internal/instrumentation"
	"github.com/teemow/googlecreds/internal/logging"
)

// ServiceAccount builds credentials from a service account key. The
// argument may be the key file's path, or the key JSON itself (either
// works, matching how GOOGLE_APPLICATION_CREDENTIALS is commonly
// abused to carry inline JSON).
//
// The returned credentials yield access tokens lazily; nothing is
// fetched until Token is called on the token source.
func ServiceAccount(ctx context.Context, pathOrJSON string, scopes ...string) (*google.Credentials, error) {
	logger := logging.WithOperation(logging.WithMode(slog.Default(), ModeServiceAccount), "credentials.service_account")
	start := time.Now()

	creds, err := serviceAccount(ctx, pathOrJSON, scopes...)
	if err != nil {
		metricsRecorder.RecordCredentialLoad(ctx, ModeServiceAccount, instrumentation.StatusError, time.Since(start))
		logger.Error("failed to build service account credentials", logging.Err(err))
		return nil, err
	}

	metricsRecorder.RecordCredentialLoad(ctx, ModeServiceAccount, instrumentation.StatusSuccess, time.Since(start))
	logger.Debug("service account credentials built", "project_id", creds.ProjectID)
	return creds, nil
}

func serviceAccount(ctx context.Context, pathOrJSON string, scopes ...string) (*google.Credentials, error) {
	data, err := readCredentialJSON(pathOrJSON)
	if err != nil {
		return nil, err
	}
	creds, err := google.CredentialsFromJSON(ctx, data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account key: %w", err)
	}
	return creds, nil
}
