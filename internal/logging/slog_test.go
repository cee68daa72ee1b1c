package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
	}{
		{"regular email", "alice@example.com"},
		{"another email", "bob@example.org"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnonymizeEmail(tt.email)
			assert.True(t, strings.HasPrefix(got, "user:"))
			assert.NotContains(t, got, tt.email)
			// Stable: same input, same hash
			assert.Equal(t, got, AnonymizeEmail(tt.email))
		})
	}

	assert.Equal(t, "", AnonymizeEmail(""))
	assert.NotEqual(t, AnonymizeEmail("a@example.com"), AnonymizeEmail("b@example.com"))
}

func TestSanitizeToken(t *testing.T) {
	assert.Equal(t, "<empty>", SanitizeToken(""))
	assert.Equal(t, "[token:5 chars]", SanitizeToken("ya29."))

	token := "ya29.a0AfH6SMBx-secret-token-content"
	got := SanitizeToken(token)
	assert.NotContains(t, got, "secret")
	assert.NotContains(t, got, token)
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"regular email", "alice@example.com", "example.com"},
		{"empty", "", ""},
		{"no at sign", "not-an-email", ""},
		{"multiple at signs", "a@b@c", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractDomain(tt.email))
		})
	}
}

func TestErrAttr(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	logger.Info("with error", Err(errors.New("boom")))
	assert.Contains(t, buf.String(), "error=boom")

	buf.Reset()
	logger.Info("without error", Err(nil))
	assert.NotContains(t, buf.String(), "error=")
}

func TestWithHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	WithOperation(WithMode(logger, "service-account"), "credentials.token").Info("ok")

	out := buf.String()
	assert.Contains(t, out, "mode=service-account")
	assert.Contains(t, out, "operation=credentials.token")
}
