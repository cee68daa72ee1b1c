package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

func staticTS() oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"})
}

func TestNewHTTPClient(t *testing.T) {
	client := NewHTTPClient(context.Background(), staticTS())
	require.NotNil(t, client)
	assert.IsType(t, &oauth2.Transport{}, client.Transport)
}

func TestServiceFactories(t *testing.T) {
	ctx := context.Background()
	ts := staticTS()

	gmailSvc, err := NewGmail(ctx, ts)
	require.NoError(t, err)
	assert.NotNil(t, gmailSvc)

	driveSvc, err := NewDrive(ctx, ts)
	require.NoError(t, err)
	assert.NotNil(t, driveSvc)

	calendarSvc, err := NewCalendar(ctx, ts)
	require.NoError(t, err)
	assert.NotNil(t, calendarSvc)

	tasksSvc, err := NewTasks(ctx, ts)
	require.NoError(t, err)
	assert.NotNil(t, tasksSvc)

	docsSvc, err := NewDocs(ctx, ts)
	require.NoError(t, err)
	assert.NotNil(t, docsSvc)

	peopleSvc, err := NewPeople(ctx, ts)
	require.NoError(t, err)
	assert.NotNil(t, peopleSvc)
}

func apiError(code int, reason string) error {
	gerr := &googleapi.Error{Code: code, Message: http.StatusText(code)}
	if reason != "" {
		gerr.Errors = []googleapi.ErrorItem{{Reason: reason}}
	}
	return fmt.Errorf("call failed: %w", gerr)
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"unauthorized", apiError(http.StatusUnauthorized, ""), IsUnauthorized},
		{"forbidden", apiError(http.StatusForbidden, "insufficientPermissions"), IsForbidden},
		{"not found", apiError(http.StatusNotFound, ""), IsNotFound},
		{"rate limited", apiError(http.StatusTooManyRequests, "rateLimitExceeded"), IsRateLimited},
		{"quota exceeded", apiError(http.StatusForbidden, "dailyLimitExceeded"), IsQuotaExceeded},
		{"quota via userRateLimit", apiError(http.StatusForbidden, "quotaExceeded"), IsQuotaExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
		})
	}
}

func TestErrorClassificationNegative(t *testing.T) {
	plain := errors.New("network broke")
	assert.False(t, IsUnauthorized(plain))
	assert.False(t, IsForbidden(plain))
	assert.False(t, IsNotFound(plain))
	assert.False(t, IsRateLimited(plain))
	assert.False(t, IsQuotaExceeded(plain))

	// A quota 403 is not a plain forbidden.
	assert.False(t, IsForbidden(apiError(http.StatusForbidden, "dailyLimitExceeded")))
}

func TestWrapError(t *testing.T) {
	wrapped := WrapError(apiError(http.StatusUnauthorized, ""))
	assert.ErrorIs(t, wrapped, ErrUnauthorized)

	wrapped = WrapError(apiError(http.StatusForbidden, "dailyLimitExceeded"))
	assert.ErrorIs(t, wrapped, ErrQuotaExceeded)

	wrapped = WrapError(apiError(http.StatusForbidden, ""))
	assert.ErrorIs(t, wrapped, ErrForbidden)

	wrapped = WrapError(apiError(http.StatusNotFound, ""))
	assert.ErrorIs(t, wrapped, ErrNotFound)

	wrapped = WrapError(apiError(http.StatusTooManyRequests, ""))
	assert.ErrorIs(t, wrapped, ErrRateLimited)

	// The original googleapi error stays in the chain.
	var gerr *googleapi.Error
	assert.ErrorAs(t, wrapped, &gerr)

	assert.NoError(t, WrapError(nil))

	plain := errors.New("network broke")
	assert.Equal(t, plain, WrapError(plain))
}

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiterWithConfig(RateLimitConfig{RequestsPerSecond: 1.0, BurstSize: 2})

	assert.True(t, rl.Allow())
	assert.True(t, rl.Allow())
	assert.False(t, rl.Allow())
}

func TestRateLimiterBackoff(t *testing.T) {
	rl := NewRateLimiter(ServiceGmail)

	assert.True(t, rl.Allow())
	rl.RecordRateLimitError(30)
	assert.False(t, rl.Allow())
}

func TestRateLimiterWaitCanceled(t *testing.T) {
	rl := NewRateLimiterWithConfig(RateLimitConfig{RequestsPerSecond: 1.0, BurstSize: 1})
	rl.RecordRateLimitError(60)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := rl.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimiterUnknownServiceDefaults(t *testing.T) {
	rl := NewRateLimiter(ServiceType("unknown"))
	assert.True(t, rl.Allow())
}
