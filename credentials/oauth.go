package credentials

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/teemow/googlecreds/clientsecret"
	"github.com/teemow/googlecreds/internal/instrumentation"
	"github.com/teemow/googlecreds/internal/logging"
	"github.com/teemow/googlecreds/tokencache"
)

// reportWriter is where the authorization URL is printed by default.
var reportWriter io.Writer = os.Stderr

// LoginOptions configures the browser OAuth login flow.
type LoginOptions struct {
	// ClientSecretPath is the path of the OAuth client secret JSON
	// file. Ignored when ClientSecret is set.
	ClientSecretPath string

	// ClientSecret is a pre-parsed client secret file.
	ClientSecret *clientsecret.File

	// Scopes are the OAuth scopes to request.
	Scopes []string

	// Host and Port override the loopback redirect address. Either
	// one left zero is inferred from the client secret's first
	// redirect URI.
	Host string
	Port int

	// Prompt receives the authorization URL the user must visit.
	// The default prints it to stderr.
	Prompt func(authURL string)
}

func (o *LoginOptions) clientSecret() (*clientsecret.File, error) {
	if o.ClientSecret != nil {
		return o.ClientSecret, nil
	}
	if o.ClientSecretPath == "" {
		return nil, fmt.Errorf("no client secret configured: set ClientSecretPath or ClientSecret")
	}
	return clientsecret.ReadFile(o.ClientSecretPath)
}

// Login runs the loopback browser OAuth flow and returns the resulting
// token. The flow requests offline access with a forced consent prompt
// so the token always carries a refresh token.
func Login(ctx context.Context, opts LoginOptions) (*oauth2.Token, error) {
	logger := logging.WithOperation(logging.WithMode(slog.Default(), ModeOAuth), "credentials.login")
	start := time.Now()

	ctx, span := instrumentation.StartSpan(ctx, "credentials.login",
		instrumentation.NewSpanAttributeBuilder().
			WithMode(ModeOAuth).
			WithOperation("login").
			Build()...)

	tok, err := login(ctx, opts)
	instrumentation.EndSpan(span, err)
	if err != nil {
		metricsRecorder.RecordOAuthAuth(ctx, instrumentation.OAuthResultFailure)
		metricsRecorder.RecordCredentialLoad(ctx, ModeOAuth, instrumentation.StatusError, time.Since(start))
		logger.Error("browser login failed", logging.Err(err))
		return nil, err
	}

	metricsRecorder.RecordOAuthAuth(ctx, instrumentation.OAuthResultSuccess)
	metricsRecorder.RecordCredentialLoad(ctx, ModeOAuth, instrumentation.StatusSuccess, time.Since(start))
	logger.Info("browser login succeeded",
		"token", logging.SanitizeToken(tok.AccessToken),
		"has_refresh_token", tok.RefreshToken != "")
	return tok, nil
}

func login(ctx context.Context, opts LoginOptions) (*oauth2.Token, error) {
	cs, err := opts.clientSecret()
	if err != nil {
		return nil, err
	}
	conf, err := cs.OAuthConfig(opts.Scopes...)
	if err != nil {
		return nil, err
	}

	redirect, err := cs.InferRedirect()
	if err != nil {
		return nil, err
	}
	host := opts.Host
	if host == "" {
		host = redirect.Host
	}
	port := opts.Port
	if port == 0 {
		port = redirect.Port
	}

	ln, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("failed to listen on redirect address: %w", err)
	}
	// Resolve the actual port in case an ephemeral one was requested
	port = ln.Addr().(*net.TCPAddr).Port

	conf.RedirectURL = fmt.Sprintf("http://%s", net.JoinHostPort(host, strconv.Itoa(port)))
	if redirect.TrailingSlash {
		conf.RedirectURL += "/"
	}

	state := uuid.NewString()
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	// Only the first error is reported. Further sends are dropped so
	// repeated callback requests never block a handler.
	fail := func(err error) {
		select {
		case errCh <- err:
		default:
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if errMsg := q.Get("error"); errMsg != "" {
			http.Error(w, "authorization failed", http.StatusBadRequest)
			fail(fmt.Errorf("authorization was denied: %s", errMsg))
			return
		}
		if q.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			fail(errors.New("state parameter mismatch in OAuth callback"))
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			fail(errors.New("OAuth callback carried no authorization code"))
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<html><body>Authentication complete. You may close this window.</body></html>")
		codeCh <- code
	})

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if serveErr := srv.Serve(ln); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			fail(fmt.Errorf("redirect server failed: %w", serveErr))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	authURL := conf.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
	prompt := opts.Prompt
	if prompt == nil {
		prompt = func(u string) {
			fmt.Fprintf(reportWriter, "Visit the following URL to authorize this application:\n\n%s\n\n", u)
		}
	}
	prompt(authURL)

	var code string
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case err := <-errCh:
		return nil, err
	case code = <-codeCh:
	}

	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return tok, nil
}

// CachedTokenSource returns a token source backed by a token cache.
//
// A valid cached token is used directly. An expired cached token with
// a refresh token is refreshed. Otherwise the browser login flow runs.
// Whatever token results is persisted, and the returned source keeps
// the cache up to date as the underlying source refreshes tokens.
func CachedTokenSource(ctx context.Context, opts LoginOptions, cache tokencache.Cache, account string) (oauth2.TokenSource, error) {
	if cache == nil {
		cache = tokencache.NewNoopCache()
	}
	if account == "" {
		account = tokencache.DefaultAccount
	}
	logger := logging.WithAccount(logging.WithOperation(slog.Default(), "credentials.token_source"), account)

	ctx, span := instrumentation.StartSpan(ctx, "credentials.cached_token_source",
		instrumentation.NewSpanAttributeBuilder().
			WithMode(ModeOAuth).
			WithAccount(account).
			WithCacheBackend(cacheBackendName(cache)).
			WithOperation("token_source").
			Build()...)

	ts, err := cachedTokenSource(ctx, opts, cache, account, logger)
	instrumentation.EndSpan(span, err)
	return ts, err
}

func cachedTokenSource(ctx context.Context, opts LoginOptions, cache tokencache.Cache, account string, logger *slog.Logger) (oauth2.TokenSource, error) {
	cs, err := opts.clientSecret()
	if err != nil {
		return nil, err
	}
	conf, err := cs.OAuthConfig(opts.Scopes...)
	if err != nil {
		return nil, err
	}

	tok, err := cache.Load(account)
	switch {
	case err == nil:
		metricsRecorder.RecordTokenCacheRequest(ctx, cacheBackendName(cache), instrumentation.CacheResultHit)
	case errors.Is(err, tokencache.ErrNoToken):
		metricsRecorder.RecordTokenCacheRequest(ctx, cacheBackendName(cache), instrumentation.CacheResultMiss)
	default:
		metricsRecorder.RecordTokenCacheRequest(ctx, cacheBackendName(cache), instrumentation.CacheResultError)
		return nil, err
	}

	if tok != nil && !tok.Valid() {
		if tok.RefreshToken == "" {
			logger.Debug("cached token expired without refresh token")
			tok = nil
		} else {
			refreshed, rerr := conf.TokenSource(ctx, tok).Token()
			if rerr != nil {
				metricsRecorder.RecordOAuthTokenRefresh(ctx, instrumentation.OAuthResultFailure)
				logger.Warn("cached token refresh failed, falling back to login", logging.Err(rerr))
				tok = nil
			} else {
				metricsRecorder.RecordOAuthTokenRefresh(ctx, instrumentation.OAuthResultSuccess)
				tok = refreshed
			}
		}
	}

	if tok == nil {
		tok, err = Login(ctx, opts)
		if err != nil {
			return nil, err
		}
	}

	if err := cache.Store(account, tok); err != nil {
		logger.Warn("failed to persist token", logging.Err(err))
	}

	return &persistingTokenSource{
		src:     conf.TokenSource(ctx, tok),
		cache:   cache,
		account: account,
		last:    tok.AccessToken,
	}, nil
}

// persistingTokenSource writes refreshed tokens back to the cache.
type persistingTokenSource struct {
	src     oauth2.TokenSource
	cache   tokencache.Cache
	account string

	mu   sync.Mutex
	last string // last persisted access token
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.src.Token()
	if err != nil {
		metricsRecorder.RecordOAuthTokenRefresh(context.Background(), instrumentation.OAuthResultFailure)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		metricsRecorder.RecordOAuthTokenRefresh(context.Background(), instrumentation.OAuthResultSuccess)
		if err := s.cache.Store(s.account, tok); err != nil {
			slog.Default().Warn("failed to persist refreshed token",
				logging.Account(s.account), logging.Err(err))
		}
		s.last = tok.AccessToken
	}
	return tok, nil
}

func cacheBackendName(cache tokencache.Cache) string {
	switch cache.(type) {
	case *tokencache.FileCache:
		return "file"
	case *tokencache.BoltCache:
		return "bolt"
	case *tokencache.NoopCache:
		return "noop"
	default:
		return "custom"
	}
}
