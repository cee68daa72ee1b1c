package credentials

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"

	"github.com/teemow/googlecreds/internal/instrumentation"
	"github.com/teemow/googlecreds/internal/logging"
)

// IDTokenSource yields Google-signed ID tokens for a fixed audience.
// It is a distinct type so that AccessToken can refuse it with a
// useful error instead of handing out an ID token as if it were an
// access token.
type IDTokenSource struct {
	ts       oauth2.TokenSource
	audience string
}

// Token returns a token whose AccessToken field carries the ID token,
// following the convention of google.golang.org/api/idtoken.
func (s *IDTokenSource) Token() (*oauth2.Token, error) {
	return s.ts.Token()
}

// Audience returns the audience the source was built for.
func (s *IDTokenSource) Audience() string {
	return s.audience
}

var _ oauth2.TokenSource = (*IDTokenSource)(nil)

// NewIDTokenSource builds an ID token source from a service account
// key (path or inline JSON) for the given audience, typically the URL
// of a Cloud Functions or Cloud Run service.
func NewIDTokenSource(ctx context.Context, pathOrJSON, audience string) (*IDTokenSource, error) {
	logger := logging.WithOperation(logging.WithMode(slog.Default(), ModeIDToken), "credentials.id_token_source")
	start := time.Now()

	if audience == "" {
		return nil, fmt.Errorf("audience is required for ID token credentials")
	}
	data, err := readCredentialJSON(pathOrJSON)
	if err != nil {
		return nil, err
	}

	ts, err := idtoken.NewTokenSource(ctx, audience, idtoken.WithCredentialsJSON(data))
	if err != nil {
		metricsRecorder.RecordCredentialLoad(ctx, ModeIDToken, instrumentation.StatusError, time.Since(start))
		logger.Error("failed to build ID token source", logging.Err(err), logging.Audience(audience))
		return nil, fmt.Errorf("failed to build ID token source: %w", err)
	}

	metricsRecorder.RecordCredentialLoad(ctx, ModeIDToken, instrumentation.StatusSuccess, time.Since(start))
	logger.Debug("ID token source built", logging.Audience(audience))
	return &IDTokenSource{ts: ts, audience: audience}, nil
}

// AccessToken fetches a valid token from the source and returns its
// access token. ID token sources are rejected: their tokens are not
// access tokens.
func AccessToken(ts oauth2.TokenSource) (string, error) {
	if _, ok := ts.(*IDTokenSource); ok {
		return "", fmt.Errorf("token source yields ID tokens, not access tokens; use ServiceAccount or CachedTokenSource instead")
	}
	tok, err := ts.Token()
	if err != nil {
		return "", fmt.Errorf("failed to fetch token: %w", err)
	}
	return tok.AccessToken, nil
}

// IDToken fetches an ID token from the source. For an IDTokenSource
// the token itself is the ID token; for user credential sources the
// id_token extra delivered alongside the access token is used.
func IDToken(ts oauth2.TokenSource) (string, error) {
	if s, ok := ts.(*IDTokenSource); ok {
		tok, err := s.Token()
		if err != nil {
			return "", fmt.Errorf("failed to fetch ID token: %w", err)
		}
		return tok.AccessToken, nil
	}

	tok, err := ts.Token()
	if err != nil {
		return "", fmt.Errorf("failed to fetch token: %w", err)
	}
	if id, ok := tok.Extra("id_token").(string); ok && id != "" {
		return id, nil
	}
	return "", fmt.Errorf("token carries no ID token; for service accounts use NewIDTokenSource, for user credentials request the openid scope")
}

// ParseIDTokenClaims decodes the claims of a JWT ID token without
// verifying its signature. Verification is the job of
// google.golang.org/api/idtoken.Validate; this helper exists for
// inspecting audience, issuer, and expiry locally.
func ParseIDTokenClaims(raw string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("failed to decode ID token: %w", err)
	}
	return claims, nil
}
