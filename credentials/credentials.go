package credentials

import (
	"fmt"
	"os"
	"strings"

	"github.com/teemow/googlecreds/internal/instrumentation"
)

// Credential modes, used for logging and metrics labels.
const (
	ModeOAuth          = "oauth"
	ModeServiceAccount = "service-account"
	ModeADC            = "adc"
	ModeGcloud         = "gcloud"
	ModeGcloudADC      = "gcloud-adc"
	ModeIDToken        = "id-token"
)

// metricsRecorder receives credential metrics. An empty recorder is a
// no-op, so recording calls never need to be guarded.
var metricsRecorder = &instrumentation.Metrics{}

// SetMetrics wires a metrics recorder into the package. Call once at
// startup, before any credential is constructed.
func SetMetrics(m *instrumentation.Metrics) {
	if m != nil {
		metricsRecorder = m
	}
}

// readCredentialJSON resolves a credential argument that may be a file
// path or the JSON itself: if the argument names an existing file its
// contents are returned, otherwise the argument is taken as inline
// JSON.
func readCredentialJSON(pathOrJSON string) ([]byte, error) {
	if strings.TrimSpace(pathOrJSON) == "" {
		return nil, fmt.Errorf("credential is empty: expected a file path or JSON")
	}
	if _, err := os.Stat(pathOrJSON); err == nil {
		data, err := os.ReadFile(pathOrJSON)
		if err != nil {
			return nil, fmt.Errorf("failed to read credential file: %w", err)
		}
		return data, nil
	}
	return []byte(pathOrJSON), nil
}
