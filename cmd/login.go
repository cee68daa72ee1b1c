package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/googlecreds/credentials"
	"github.com/teemow/googlecreds/tokencache"
)

func newLoginCmd() *cobra.Command {
	var (
		clientSecretPath string
		scopes           []string
		account          string
		cacheBackend     string
		cacheDir         string
		host             string
		port             int
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authorize via the browser and persist the token",
		Long: `Run the browser OAuth flow for the configured client secret and
store the resulting token in the token cache. Later commands reuse and
refresh the cached token without another browser round trip.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if account == "" {
				account = cfg.Account
			}
			if cacheBackend == "" {
				cacheBackend = cfg.CacheBackend
			}
			if cacheDir == "" {
				cacheDir = cfg.CacheDir
			}

			opts, err := loginOptions(cfg, clientSecretPath, scopes, host, port)
			if err != nil {
				return err
			}

			cache, err := newCache(cacheBackend, cacheDir)
			if err != nil {
				return err
			}

			tok, err := credentials.Login(cmd.Context(), opts)
			if err != nil {
				return err
			}

			if account == "" {
				account = tokencache.DefaultAccount
			}
			if err := cache.Store(account, tok); err != nil {
				return fmt.Errorf("failed to persist token: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Authorized. Token stored for account %q.\n", account)
			return nil
		},
	}

	cmd.Flags().StringVar(&clientSecretPath, "client-secret", "", "Path to the OAuth client secret JSON file")
	cmd.Flags().StringSliceVar(&scopes, "scope", nil, "OAuth scope to request (repeatable)")
	cmd.Flags().StringVar(&account, "account", "", "Token cache account name")
	cmd.Flags().StringVar(&cacheBackend, "cache-backend", "", "Token cache backend: file, bolt or none")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Token cache directory")
	cmd.Flags().StringVar(&host, "host", "", "OAuth redirect host override")
	cmd.Flags().IntVar(&port, "port", 0, "OAuth redirect port override")

	return cmd
}
