package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the default tracer name for the googlecreds package.
const TracerName = "github.com/teemow/googlecreds"

// Span attribute keys for operations.
const (
	// SpanAttrMode is the credential mode attribute.
	SpanAttrMode = "googlecreds.mode"

	// SpanAttrAccount is the account name attribute.
	SpanAttrAccount = "googlecreds.account"

	// SpanAttrAudience is the ID token audience attribute.
	SpanAttrAudience = "googlecreds.audience"

	// SpanAttrService is the Google service name attribute.
	SpanAttrService = "google.service"

	// SpanAttrOperation is the operation type attribute.
	SpanAttrOperation = "googlecreds.operation"

	// SpanAttrStatus is the operation status attribute.
	SpanAttrStatus = "googlecreds.status"

	// SpanAttrCacheBackend is the token cache backend attribute.
	SpanAttrCacheBackend = "googlecreds.cache_backend"
)

// StartSpan starts a span on the globally registered tracer provider.
// It is a thin helper so callers do not need to hold a Provider.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := otel.Tracer(TracerName).Start(ctx, name)
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	return ctx, span
}

// EndSpan finishes a span, recording err as the span status.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// SpanAttributeBuilder helps construct OpenTelemetry span attributes
// with consistent naming.
type SpanAttributeBuilder struct {
	attrs []attribute.KeyValue
}

// NewSpanAttributeBuilder creates a new SpanAttributeBuilder.
func NewSpanAttributeBuilder() *SpanAttributeBuilder {
	return &SpanAttributeBuilder{
		attrs: make([]attribute.KeyValue, 0, 8),
	}
}

// WithMode adds the credential mode attribute.
func (b *SpanAttributeBuilder) WithMode(mode string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.String(SpanAttrMode, mode))
	return b
}

// WithAccount adds the account attribute.
func (b *SpanAttributeBuilder) WithAccount(account string) *SpanAttributeBuilder {
	if account != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrAccount, account))
	}
	return b
}

// WithAudience adds the ID token audience attribute.
func (b *SpanAttributeBuilder) WithAudience(audience string) *SpanAttributeBuilder {
	if audience != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrAudience, audience))
	}
	return b
}

// WithService adds the Google service name attribute.
func (b *SpanAttributeBuilder) WithService(service string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.String(SpanAttrService, service))
	return b
}

// WithOperation adds the operation type attribute.
func (b *SpanAttributeBuilder) WithOperation(operation string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.String(SpanAttrOperation, operation))
	return b
}

// WithCacheBackend adds the token cache backend attribute.
func (b *SpanAttributeBuilder) WithCacheBackend(backend string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.String(SpanAttrCacheBackend, backend))
	return b
}

// Build returns the accumulated attributes.
func (b *SpanAttributeBuilder) Build() []attribute.KeyValue {
	return b.attrs
}
