package apiclient

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	docs "google.golang.org/api/docs/v1"
	drive "google.golang.org/api/drive/v3"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
	people "google.golang.org/api/people/v1"
	tasks "google.golang.org/api/tasks/v1"

	"github.com/teemow/googlecreds/internal/instrumentation"
	"github.com/teemow/googlecreds/internal/logging"
)

// metricsRecorder receives per-service construction metrics. The empty
// recorder is a no-op.
var metricsRecorder = &instrumentation.Metrics{}

// SetMetrics wires a metrics recorder into the package.
func SetMetrics(m *instrumentation.Metrics) {
	if m != nil {
		metricsRecorder = m
	}
}

// NewHTTPClient returns an *http.Client that authenticates every
// request with tokens from ts. Use it for Google APIs this package has
// no typed factory for.
func NewHTTPClient(ctx context.Context, ts oauth2.TokenSource) *http.Client {
	return oauth2.NewClient(ctx, ts)
}

// Options prepends the token source to any extra client options.
func Options(ts oauth2.TokenSource, extra ...option.ClientOption) []option.ClientOption {
	return append([]option.ClientOption{option.WithTokenSource(ts)}, extra...)
}

func record(ctx context.Context, service string, account string, err error) {
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	metricsRecorder.RecordAPIClient(ctx, service, status, account)

	logger := logging.WithService(slog.Default(), service)
	if err != nil {
		logger.Error("failed to build API client", logging.Err(err))
		return
	}
	logger.Debug("API client built")
}

// NewGmail builds a Gmail API client.
func NewGmail(ctx context.Context, ts oauth2.TokenSource, extra ...option.ClientOption) (*gmail.Service, error) {
	svc, err := gmail.NewService(ctx, Options(ts, extra...)...)
	record(ctx, string(ServiceGmail), "", err)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}
	return svc, nil
}

// NewDrive builds a Drive API client.
func NewDrive(ctx context.Context, ts oauth2.TokenSource, extra ...option.ClientOption) (*drive.Service, error) {
	svc, err := drive.NewService(ctx, Options(ts, extra...)...)
	record(ctx, string(ServiceDrive), "", err)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}
	return svc, nil
}

// NewCalendar builds a Calendar API client.
func NewCalendar(ctx context.Context, ts oauth2.TokenSource, extra ...option.ClientOption) (*calendar.Service, error) {
	svc, err := calendar.NewService(ctx, Options(ts, extra...)...)
	record(ctx, string(ServiceCalendar), "", err)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}
	return svc, nil
}

// NewTasks builds a Tasks API client.
func NewTasks(ctx context.Context, ts oauth2.TokenSource, extra ...option.ClientOption) (*tasks.Service, error) {
	svc, err := tasks.NewService(ctx, Options(ts, extra...)...)
	record(ctx, string(ServiceTasks), "", err)
	if err != nil {
		return nil, fmt.Errorf("failed to create Tasks service: %w", err)
	}
	return svc, nil
}

// NewDocs builds a Docs API client.
func NewDocs(ctx context.Context, ts oauth2.TokenSource, extra ...option.ClientOption) (*docs.Service, error) {
	svc, err := docs.NewService(ctx, Options(ts, extra...)...)
	record(ctx, string(ServiceDocs), "", err)
	if err != nil {
		return nil, fmt.Errorf("failed to create Docs service: %w", err)
	}
	return svc, nil
}

// NewPeople builds a People API client.
func NewPeople(ctx context.Context, ts oauth2.TokenSource, extra ...option.ClientOption) (*people.Service, error) {
	svc, err := people.NewService(ctx, Options(ts, extra...)...)
	record(ctx, string(ServicePeople), "", err)
	if err != nil {
		return nil, fmt.Errorf("failed to create People service: %w", err)
	}
	return svc, nil
}
