package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/teemow/googlecreds/credentials"
	"github.com/teemow/googlecreds/internal/config"
)

// tokenFlags carries the credential selection shared by the token and
// serve commands.
type tokenFlags struct {
	mode             string
	clientSecretPath string
	scopes           []string
	account          string
	cacheBackend     string
	cacheDir         string
	serviceAccount   string
	gcloudConfig     string
}

func (f *tokenFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.mode, "mode", credentials.ModeOAuth, "Credential mode: oauth, service-account, adc, gcloud or gcloud-adc")
	cmd.Flags().StringVar(&f.clientSecretPath, "client-secret", "", "Path to the OAuth client secret JSON file (oauth mode)")
	cmd.Flags().StringSliceVar(&f.scopes, "scope", nil, "OAuth scope to request (repeatable)")
	cmd.Flags().StringVar(&f.account, "account", "", "Token cache account name (oauth mode)")
	cmd.Flags().StringVar(&f.cacheBackend, "cache-backend", "", "Token cache backend: file, bolt or none (oauth mode)")
	cmd.Flags().StringVar(&f.cacheDir, "cache-dir", "", "Token cache directory (oauth mode)")
	cmd.Flags().StringVar(&f.serviceAccount, "key", "", "Service account key: file path or inline JSON (service-account mode)")
	cmd.Flags().StringVar(&f.gcloudConfig, "gcloud-configuration", "", "gcloud configuration name (gcloud mode, default: the active one)")
}

// tokenSource builds the token source the flags select.
func (f *tokenFlags) tokenSource(ctx context.Context, cfg *config.Config) (oauth2.TokenSource, error) {
	scopes := f.scopes
	if len(scopes) == 0 {
		scopes = cfg.Scopes
	}

	switch f.mode {
	case credentials.ModeOAuth:
		opts, err := loginOptions(cfg, f.clientSecretPath, f.scopes, "", 0)
		if err != nil {
			return nil, err
		}
		backend := f.cacheBackend
		if backend == "" {
			backend = cfg.CacheBackend
		}
		dir := f.cacheDir
		if dir == "" {
			dir = cfg.CacheDir
		}
		cache, err := newCache(backend, dir)
		if err != nil {
			return nil, err
		}
		account := f.account
		if account == "" {
			account = cfg.Account
		}
		return credentials.CachedTokenSource(ctx, opts, cache, account)

	case credentials.ModeServiceAccount:
		if f.serviceAccount == "" {
			return nil, fmt.Errorf("service-account mode needs --key")
		}
		creds, err := credentials.ServiceAccount(ctx, f.serviceAccount, scopes...)
		if err != nil {
			return nil, err
		}
		return creds.TokenSource, nil

	case credentials.ModeADC:
		creds, err := credentials.ApplicationDefault(ctx, scopes...)
		if err != nil {
			return nil, err
		}
		return creds.TokenSource, nil

	case credentials.ModeGcloud:
		creds, err := credentials.GcloudUser(ctx, f.gcloudConfig, scopes...)
		if err != nil {
			return nil, err
		}
		return creds.TokenSource, nil

	case credentials.ModeGcloudADC:
		creds, err := credentials.GcloudApplicationDefault(ctx, scopes...)
		if err != nil {
			return nil, err
		}
		return creds.TokenSource, nil

	default:
		return nil, fmt.Errorf("unknown credential mode %q", f.mode)
	}
}

func newTokenCmd() *cobra.Command {
	flags := &tokenFlags{}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print an access token",
		Long: `Obtain an access token through the selected credential mode and
print it. In oauth mode a cached token is reused or refreshed; the
browser flow only runs when the cache is empty.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ts, err := flags.tokenSource(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			token, err := credentials.AccessToken(ts)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
