package credentials

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/teemow/googlecreds/internal/instrumentation"
	"github.com/teemow/googlecreds/internal/logging"
)

// googleEndpoint is swapped for a test endpoint in unit tests.
var googleEndpoint = google.Endpoint

// Refresh exchanges a refresh token for a fresh access token using
// the standard Google token endpoint. The returned token keeps the
// refresh token so it can be cached and refreshed again later.
func Refresh(ctx context.Context, clientID, clientSecret, refreshToken string) (*oauth2.Token, error) {
	logger := logging.WithOperation(slog.Default(), "credentials.refresh")

	if refreshToken == "" {
		return nil, fmt.Errorf("refresh token is required")
	}

	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     googleEndpoint,
	}
	tok, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		metricsRecorder.RecordOAuthTokenRefresh(ctx, instrumentation.OAuthResultFailure)
		logger.Error("token refresh failed", logging.Err(err))
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}

	metricsRecorder.RecordOAuthTokenRefresh(ctx, instrumentation.OAuthResultSuccess)
	logger.Debug("token refreshed", slog.String("token", logging.SanitizeToken(tok.AccessToken)))
	return tok, nil
}
