// ABOUTME: CLI command for running the HTTP JSON API.
// ABOUTME: Serves until interrupted, then shuts down gracefully.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/jacktrack/internal/api"
	"github.com/harperreed/jacktrack/internal/logger"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the JSON API over HTTP.

Every route under /api except /api/health needs a bearer token. Mint one
for the current user with 'jacktrack token'. Tokens are signed with
jwt_secret from the config file or JACKTRACK_JWT_SECRET.

EXAMPLES:

  jacktrack serve
  jacktrack serve --addr 127.0.0.1:9000

  curl -H "Authorization: Bearer $(jacktrack token)" localhost:8080/api/days/today`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.JWTSecret == "" {
			return errors.New("jwt secret not configured: set jwt_secret in the config or JACKTRACK_JWT_SECRET")
		}
		addr := cfg.GetListenAddr()
		if serveAddr != "" {
			addr = serveAddr
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		server := api.NewServer(db, cfg.JWTSecret, logger.L())
		return server.Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config or :8080)")
	rootCmd.AddCommand(serveCmd)
}
