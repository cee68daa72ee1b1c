package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/teemow/googlecreds/apiclient"
	"github.com/teemow/googlecreds/credentials"
	"github.com/teemow/googlecreds/internal/instrumentation"
	"github.com/teemow/googlecreds/internal/server"
)

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

func newServeCmd() *cobra.Command {
	flags := &tokenFlags{}
	var (
		addr           string
		metricsConfig  MetricsConfig
		idTokenKeyPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local token service",
		Long: `Serve short-lived Google tokens to other local tools over loopback
HTTP. The service exposes /token and /idtoken, health probes on
/healthz and /readyz, and Prometheus metrics on a dedicated port.

Only this process holds refreshable credentials; consumers fetch
short-lived tokens on demand.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(flags, addr, metricsConfig, idTokenKeyPath)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", server.DefaultTokenServiceAddr, "Address of the token service")
	cmd.Flags().BoolVar(&metricsConfig.Enabled, "metrics", true, "Serve Prometheus metrics")
	cmd.Flags().StringVar(&metricsConfig.Addr, "metrics-addr", server.DefaultMetricsAddr, "Address of the metrics server")
	cmd.Flags().StringVar(&idTokenKeyPath, "id-token-key", "", "Service account key used to mint ID tokens on /idtoken")

	return cmd
}

func runServe(flags *tokenFlags, addr string, metricsConfig MetricsConfig, idTokenKeyPath string) error {
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if addrEnv := os.Getenv("METRICS_ADDR"); addrEnv != "" && metricsConfig.Addr == server.DefaultMetricsAddr {
		metricsConfig.Addr = addrEnv
	}

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			slog.Error("error during instrumentation shutdown", "error", err)
		}
	}()

	credentials.SetMetrics(provider.Metrics())
	apiclient.SetMetrics(provider.Metrics())

	var metricsServer *server.MetricsServer
	if metricsConfig.Enabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    metricsConfig.Addr,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		metricsReady := make(chan struct{})
		metricsErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && err != http.ErrServerClosed {
				metricsErr <- err
			}
			close(metricsErr)
		}()

		select {
		case <-metricsReady:
			slog.Info("metrics server started", "addr", metricsServer.Addr())
		case err := <-metricsErr:
			return fmt.Errorf("metrics server failed to start: %w", err)
		case <-time.After(5 * time.Second):
			return fmt.Errorf("metrics server startup timed out")
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	accessTokens, err := flags.tokenSource(shutdownCtx, cfg)
	if err != nil {
		return err
	}

	var idTokens func(ctx context.Context, audience string) (oauth2.TokenSource, error)
	if idTokenKeyPath != "" {
		idTokens = func(ctx context.Context, audience string) (oauth2.TokenSource, error) {
			return credentials.NewIDTokenSource(ctx, idTokenKeyPath, audience)
		}
	}

	svc, err := server.NewTokenService(server.TokenServiceConfig{
		Addr:         addr,
		AccessTokens: accessTokens,
		IDTokens:     idTokens,
		Metrics:      provider.Metrics(),
	})
	if err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := svc.Start(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-shutdownCtx.Done():
	}

	slog.Info("shutdown signal received, stopping token service")
	stopCtx, stopCancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
	defer stopCancel()

	if err := svc.Shutdown(stopCtx); err != nil {
		slog.Error("error during token service shutdown", "error", err)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(stopCtx); err != nil {
			slog.Error("error during metrics server shutdown", "error", err)
		}
	}
	return nil
}
