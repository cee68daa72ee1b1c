// Package logging provides structured logging utilities for googlecreds.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - PII sanitization (email anonymization)
//   - Token masking (lengths only, never content)
//   - Consistent attribute naming across the codebase
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "credentials.login")
//	logger.Info("token cached",
//	    logging.Status(logging.StatusSuccess))
//
// Sanitize sensitive data before logging:
//
//	logger.Debug("token refreshed",
//	    "token", logging.SanitizeToken(tok.AccessToken))
//
// # Security Considerations
//
// Account emails are hashed to prevent PII leakage while allowing correlation,
// and tokens are never logged directly.
package logging
