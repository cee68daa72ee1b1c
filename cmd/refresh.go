package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/googlecreds/credentials"
)

func newRefreshCmd() *cobra.Command {
	var (
		clientID     string
		clientSecret string
		refreshToken string
	)

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Exchange a refresh token for an access token",
		Long: `Run a direct refresh grant against Google's token endpoint and
print the resulting access token. The refresh token is read from
--refresh-token, or from stdin when the flag is absent so it does not
end up in shell history.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if refreshToken == "" {
				reader := bufio.NewReader(cmd.InOrStdin())
				line, err := reader.ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read refresh token from stdin: %w", err)
				}
				refreshToken = strings.TrimSpace(line)
			}

			tok, err := credentials.Refresh(cmd.Context(), clientID, clientSecret, refreshToken)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), tok.AccessToken)
			return nil
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth client ID")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "OAuth client secret")
	cmd.Flags().StringVar(&refreshToken, "refresh-token", "", "Refresh token (read from stdin when absent)")
	_ = cmd.MarkFlagRequired("client-id")
	_ = cmd.MarkFlagRequired("client-secret")

	return cmd
}
