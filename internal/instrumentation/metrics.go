package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency and DRY
const (
	// Common attributes (reused across metrics)
	attrMethod  = "method"
	attrPath    = "path"
	attrStatus  = "status"
	attrMode    = "mode"
	attrResult  = "result"
	attrBackend = "backend"
	attrService = "service"
	attrAccount = "account"
)

// Metrics provides methods for recording observability metrics.
type Metrics struct {
	// Credential metrics
	credentialLoadsTotal   metric.Int64Counter
	credentialLoadDuration metric.Float64Histogram

	// OAuth metrics
	oauthAuthTotal         metric.Int64Counter
	oauthTokenRefreshTotal metric.Int64Counter

	// Token cache metrics
	tokenCacheRequestsTotal metric.Int64Counter

	// API client metrics
	apiClientsTotal metric.Int64Counter

	// Token service HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// Configuration
	// detailedLabels controls whether high-cardinality labels are included
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The detailedLabels parameter controls whether high-cardinality labels are included.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	// Credential metrics
	m.credentialLoadsTotal, err = meter.Int64Counter(
		"credential_loads_total",
		metric.WithDescription("Total number of credential constructions by mode"),
		metric.WithUnit("{load}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create credential_loads_total counter: %w", err)
	}

	m.credentialLoadDuration, err = meter.Float64Histogram(
		"credential_load_duration_seconds",
		metric.WithDescription("Credential construction duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create credential_load_duration_seconds histogram: %w", err)
	}

	// OAuth metrics
	m.oauthAuthTotal, err = meter.Int64Counter(
		"oauth_auth_total",
		metric.WithDescription("Total number of browser OAuth login attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth_auth_total counter: %w", err)
	}

	m.oauthTokenRefreshTotal, err = meter.Int64Counter(
		"oauth_token_refresh_total",
		metric.WithDescription("Total number of OAuth token refresh attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth_token_refresh_total counter: %w", err)
	}

	// Token cache metrics
	m.tokenCacheRequestsTotal, err = meter.Int64Counter(
		"token_cache_requests_total",
		metric.WithDescription("Total number of token cache lookups by backend and result"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create token_cache_requests_total counter: %w", err)
	}

	// API client metrics
	m.apiClientsTotal, err = meter.Int64Counter(
		"google_api_clients_total",
		metric.WithDescription("Total number of Google API client handles built"),
		metric.WithUnit("{client}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_clients_total counter: %w", err)
	}

	// Token service HTTP metrics
	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests to the token service"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordCredentialLoad records a credential construction with mode, status, and duration.
//
// Parameters:
//   - mode: Credential mode (oauth, service-account, adc, gcloud, gcloud-adc, id-token)
//   - status: Result status ("success" or "error")
//   - duration: Time taken to construct the credential
func (m *Metrics) RecordCredentialLoad(ctx context.Context, mode, status string, duration time.Duration) {
	if m.credentialLoadsTotal == nil || m.credentialLoadDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMode, mode),
		attribute.String(attrStatus, status),
	}

	m.credentialLoadsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.credentialLoadDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordOAuthAuth records a browser OAuth login attempt with result.
// Result should be one of: "success", "failure"
func (m *Metrics) RecordOAuthAuth(ctx context.Context, result string) {
	if m.oauthAuthTotal == nil {
		return // Instrumentation not initialized
	}

	m.oauthAuthTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrResult, result),
	))
}

// RecordOAuthTokenRefresh records an OAuth token refresh attempt with result.
// Result should be one of: "success", "failure"
func (m *Metrics) RecordOAuthTokenRefresh(ctx context.Context, result string) {
	if m.oauthTokenRefreshTotal == nil {
		return // Instrumentation not initialized
	}

	m.oauthTokenRefreshTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrResult, result),
	))
}

// RecordTokenCacheRequest records a token cache lookup.
//
// Parameters:
//   - backend: Cache backend ("file", "bolt", "noop")
//   - result: Lookup result ("hit", "miss", "error")
func (m *Metrics) RecordTokenCacheRequest(ctx context.Context, backend, result string) {
	if m.tokenCacheRequestsTotal == nil {
		return // Instrumentation not initialized
	}

	m.tokenCacheRequestsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrBackend, backend),
		attribute.String(attrResult, result),
	))
}

// RecordAPIClient records the construction of a Google API client handle.
//
// Parameters:
//   - service: Google service name (gmail, drive, calendar, tasks, people, firestore)
//   - status: Result status ("success" or "error")
//   - account: Account name (only included if detailedLabels is true)
func (m *Metrics) RecordAPIClient(ctx context.Context, service, status, account string) {
	if m.apiClientsTotal == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrService, service),
		attribute.String(attrStatus, status),
	}

	// Only add high-cardinality labels if explicitly enabled
	if m.detailedLabels && account != "" {
		attrs = append(attrs, attribute.String(attrAccount, account))
	}

	m.apiClientsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordHTTPRequest records a token service HTTP request with method, path,
// status code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
