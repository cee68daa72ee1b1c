// Package server provides the local token service and its sidecar
// servers.
//
// # Key Components
//
// TokenService serves short-lived Google tokens to other local tools
// over loopback HTTP, so that only one process on the machine has to
// hold refreshable credentials:
//   - /token returns an access token from the configured source
//   - /idtoken returns an ID token for a requested audience
//
// MetricsServer serves Prometheus metrics on a dedicated port,
// isolated from token traffic.
//
// HealthChecker provides /healthz and /readyz endpoints for probes.
package server
