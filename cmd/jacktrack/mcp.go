// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio-based MCP server acting as the current user.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/jacktrack/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout and acts as the current user
(--user, the config's user, or the only user in the database).

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "jacktrack": {
        "command": "jacktrack",
        "args": ["--user", "jack", "mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  add_ingredient, list_ingredients, update_ingredient, delete_ingredient
  create_meal, add_meal_ingredient, remove_meal_ingredient, get_meal,
  list_meals, delete_meal
  log_meal, unlog_meal, set_day_metrics, get_day
  add_workout, add_exercise, list_workouts, get_workout, delete_workout

AVAILABLE RESOURCES:

  jacktrack://today          Today's log with totals
  jacktrack://meals          Meal library with totals
  jacktrack://ingredients    Ingredient library`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := currentUser(cmd.Context())
		if err != nil {
			return err
		}
		server, err := mcp.NewServer(db, u.ID)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
