package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/googlecreds/credentials"
)

func newIDTokenCmd() *cobra.Command {
	var (
		key      string
		audience string
		account  string
	)

	cmd := &cobra.Command{
		Use:   "id-token",
		Short: "Print a Google-signed ID token",
		Long: `Print an ID token. With --key a service account signs a token for
the given --audience, as needed to call Cloud Run or Cloud Functions
services. Without --key the ID token delivered alongside the cached
user token is printed, which requires the openid scope at login.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if key != "" {
				src, err := credentials.NewIDTokenSource(ctx, key, audience)
				if err != nil {
					return err
				}
				token, err := credentials.IDToken(src)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), token)
				return nil
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if account == "" {
				account = cfg.Account
			}
			cache, err := newCache(cfg.CacheBackend, cfg.CacheDir)
			if err != nil {
				return err
			}

			opts, err := loginOptions(cfg, "", nil, "", 0)
			if err != nil {
				return err
			}
			ts, err := credentials.CachedTokenSource(ctx, opts, cache, account)
			if err != nil {
				return err
			}
			token, err := credentials.IDToken(ts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "Service account key: file path or inline JSON")
	cmd.Flags().StringVar(&audience, "audience", "", "Audience of the ID token (required with --key)")
	cmd.Flags().StringVar(&account, "account", "", "Token cache account name")

	return cmd
}
