// ABOUTME: CLI command for minting API bearer tokens.
// ABOUTME: Prints a signed token for the current user.
package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/jacktrack/internal/api"
	"github.com/spf13/cobra"
)

var tokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print an API token for the current user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenTTL <= 0 {
			return errors.New("--ttl must be positive")
		}
		u, err := currentUser(cmd.Context())
		if err != nil {
			return err
		}
		token, err := api.IssueToken(cfg.JWTSecret, u.ID, u.Username, tokenTTL)
		if err != nil {
			return fmt.Errorf("failed to issue token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "how long the token is valid")
	rootCmd.AddCommand(tokenCmd)
}
