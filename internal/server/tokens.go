package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/teemow/googlecreds/internal/instrumentation"
	"github.com/teemow/googlecreds/internal/logging"
)

// DefaultTokenServiceAddr binds to loopback only. The service hands
// out raw tokens and must not be reachable from other hosts.
const DefaultTokenServiceAddr = "127.0.0.1:8091"

// TokenServiceConfig holds configuration for the token service.
type TokenServiceConfig struct {
	// Addr is the address to bind to. Defaults to loopback.
	Addr string

	// AccessTokens provides the access tokens served on /token.
	AccessTokens oauth2.TokenSource

	// IDTokens builds a per-audience source for /idtoken. When nil the
	// endpoint responds 501.
	IDTokens func(ctx context.Context, audience string) (oauth2.TokenSource, error)

	// Metrics records request metrics. Optional.
	Metrics *instrumentation.Metrics

	// Health receives readiness transitions. A fresh checker is used
	// when nil.
	Health *HealthChecker
}

// TokenService serves short-lived Google tokens to other local tools
// so that only one process has to hold refreshable credentials.
type TokenService struct {
	addr       string
	tokens     oauth2.TokenSource
	idTokens   func(ctx context.Context, audience string) (oauth2.TokenSource, error)
	metrics    *instrumentation.Metrics
	health     *HealthChecker
	httpServer *http.Server
}

// NewTokenService creates a token service from the configuration.
func NewTokenService(config TokenServiceConfig) (*TokenService, error) {
	if config.AccessTokens == nil {
		return nil, fmt.Errorf("an access token source is required for the token service")
	}
	if config.Addr == "" {
		config.Addr = DefaultTokenServiceAddr
	}
	if config.Metrics == nil {
		config.Metrics = &instrumentation.Metrics{}
	}
	if config.Health == nil {
		config.Health = NewHealthChecker()
	}

	return &TokenService{
		addr:     config.Addr,
		tokens:   config.AccessTokens,
		idTokens: config.IDTokens,
		metrics:  config.Metrics,
		health:   config.Health,
	}, nil
}

// tokenResponse is the JSON body of /token.
type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	Expiry      time.Time `json:"expiry,omitempty"`
}

// idTokenResponse is the JSON body of /idtoken.
type idTokenResponse struct {
	IDToken  string `json:"id_token"`
	Audience string `json:"audience"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler returns the HTTP handler of the token service, including
// health endpoints.
func (s *TokenService) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/token", s.instrument("/token", http.HandlerFunc(s.handleToken)))
	mux.Handle("/idtoken", s.instrument("/idtoken", http.HandlerFunc(s.handleIDToken)))
	s.health.RegisterHealthEndpoints(mux)
	return mux
}

func (s *TokenService) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	tok, err := s.tokens.Token()
	if err != nil {
		slog.Error("token service failed to fetch access token", logging.Err(err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed to fetch access token"})
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: tok.AccessToken,
		TokenType:   tok.Type(),
		Expiry:      tok.Expiry,
	})
}

func (s *TokenService) handleIDToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}
	if s.idTokens == nil {
		writeJSON(w, http.StatusNotImplemented, errorResponse{Error: "ID tokens are not configured"})
		return
	}

	audience := r.URL.Query().Get("audience")
	if audience == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "audience query parameter is required"})
		return
	}

	src, err := s.idTokens(r.Context(), audience)
	if err != nil {
		slog.Error("token service failed to build ID token source",
			logging.Err(err), logging.Audience(audience))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed to build ID token source"})
		return
	}
	tok, err := src.Token()
	if err != nil {
		slog.Error("token service failed to fetch ID token",
			logging.Err(err), logging.Audience(audience))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed to fetch ID token"})
		return
	}

	writeJSON(w, http.StatusOK, idTokenResponse{
		IDToken:  tok.AccessToken,
		Audience: audience,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// statusRecorder captures the response status for request metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *TokenService) instrument(path string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.metrics.RecordHTTPRequest(r.Context(), r.Method, path, rec.status, time.Since(start))
	})
}

// Start starts the token service in a blocking manner.
func (s *TokenService) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: DefaultMetricsReadTimeout,
		WriteTimeout:      DefaultMetricsWriteTimeout,
		IdleTimeout:       DefaultMetricsIdleTimeout,
	}

	slog.Info("starting token service", "addr", s.addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains and stops the token service.
func (s *TokenService) Shutdown(ctx context.Context) error {
	s.health.SetShuttingDown()
	if s.httpServer != nil {
		slog.Info("shutting down token service")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Addr returns the configured address for the token service.
func (s *TokenService) Addr() string {
	return s.addr
}
