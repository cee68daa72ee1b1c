package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/teemow/googlecreds/clientsecret"
	"github.com/teemow/googlecreds/credentials"
	"github.com/teemow/googlecreds/internal/config"
	"github.com/teemow/googlecreds/tokencache"
)

// rootCmd represents the base command for the googlecreds application
var rootCmd = &cobra.Command{
	Use:   "googlecreds",
	Short: "Obtain and serve Google API credentials",
	Long: `googlecreds obtains Google API credentials through every common
channel (browser OAuth, service account keys, application default
credentials, gcloud) and hands them out as tokens, either on the
command line or through a local token service.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if debugMode {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

var (
	configPath string
	debugMode  bool
)

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "googlecreds version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the configuration file (default: ~/.config/googlecreds/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newTokenCmd())
	rootCmd.AddCommand(newIDTokenCmd())
	rootCmd.AddCommand(newRefreshCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "googlecreds version %s\n", version)
		},
	}
}

// loadConfig reads the configuration file named by --config, falling
// back to the default location.
func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

// newCache builds the token cache selected by backend. An empty dir
// uses the backend's default location.
func newCache(backend, dir string) (tokencache.Cache, error) {
	switch backend {
	case "", config.CacheBackendFile:
		return tokencache.NewFileCache(dir)
	case config.CacheBackendBolt:
		if dir == "" {
			cacheDir, err := os.UserCacheDir()
			if err != nil {
				return nil, fmt.Errorf("failed to resolve cache directory: %w", err)
			}
			dir = filepath.Join(cacheDir, "googlecreds")
		}
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
		return tokencache.NewBoltCache(filepath.Join(dir, "tokens.db"))
	case config.CacheBackendNone:
		return tokencache.NewNoopCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q (expected file, bolt or none)", backend)
	}
}

// loginOptions assembles the OAuth login options from the config file
// and flag overrides. Empty flag values defer to the config.
func loginOptions(cfg *config.Config, clientSecretPath string, scopes []string, host string, port int) (credentials.LoginOptions, error) {
	if clientSecretPath == "" {
		clientSecretPath = cfg.ClientSecret
	}
	if clientSecretPath == "" {
		return credentials.LoginOptions{}, fmt.Errorf("no client secret configured: pass --client-secret or set client_secret in the config file")
	}
	if len(scopes) == 0 {
		scopes = cfg.Scopes
	}
	if host == "" {
		host = cfg.Host
	}
	if port == 0 {
		port = cfg.Port
	}

	cs, err := clientsecret.ReadFile(clientSecretPath)
	if err != nil {
		return credentials.LoginOptions{}, err
	}

	return credentials.LoginOptions{
		ClientSecret: cs,
		Scopes:       scopes,
		Host:         host,
		Port:         port,
	}, nil
}
