// Package firestore opens Cloud Firestore clients through the
// Firebase Admin SDK, so callers get the same client they would use in
// a Cloud Functions runtime.
package firestore

import (
	"context"
	"fmt"
	"log/slog"

	cloudfirestore "cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"github.com/teemow/googlecreds/internal/logging"
)

// NewClient opens a Firestore client for the project. Credential
// options (option.WithTokenSource, option.WithCredentialsJSON, ...)
// are passed through to the Firebase app; with none given the
// application default credential chain applies.
//
// The caller owns the returned client and must Close it.
func NewClient(ctx context.Context, projectID string, opts ...option.ClientOption) (*cloudfirestore.Client, error) {
	logger := logging.WithOperation(slog.Default(), "firestore.new_client")

	if projectID == "" {
		return nil, fmt.Errorf("project ID is required for Firestore")
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		logger.Error("failed to initialize firebase app", logging.Err(err))
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		logger.Error("failed to open Firestore client", logging.Err(err))
		return nil, fmt.Errorf("failed to open Firestore client: %w", err)
	}

	logger.Debug("Firestore client opened", "project_id", projectID)
	return client, nil
}

// NewClientWithTokenSource opens a Firestore client authenticated by
// the token source.
func NewClientWithTokenSource(ctx context.Context, projectID string, ts oauth2.TokenSource) (*cloudfirestore.Client, error) {
	return NewClient(ctx, projectID, option.WithTokenSource(ts))
}
