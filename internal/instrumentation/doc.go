// Package instrumentation provides OpenTelemetry metrics and tracing
// for googlecreds.
//
// The Provider owns the meter and tracer providers and the Metrics
// recorder. Metrics cover credential loads, OAuth logins, token
// refreshes, token cache accesses, and the local token service's HTTP
// traffic. Exporters are chosen by configuration: Prometheus or stdout
// for metrics, stdout or none for traces. A disabled provider records
// nothing and costs nothing, so callers never need to guard their
// recording calls.
package instrumentation
