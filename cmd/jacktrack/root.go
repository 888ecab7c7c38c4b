// ABOUTME: Root Cobra command for the jacktrack CLI.
// ABOUTME: Loads config, sets up logging, and manages the database via PersistentPre/PostRunE.
package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/jacktrack/internal/config"
	"github.com/harperreed/jacktrack/internal/logger"
	"github.com/harperreed/jacktrack/internal/models"
	"github.com/harperreed/jacktrack/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	db  *storage.DB
	cfg *config.Config

	userFlag  string
	debugFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "jacktrack",
	Short: "Nutrition and workout tracker",
	Long: `Jacktrack tracks what you eat and how you train.

HOW IT FITS TOGETHER:

  Ingredients    macros per 100g (calories, protein, carbs, fat, fiber)
  Meals          reusable recipes: grams of each ingredient
  Days           one log per date: meals x servings, steps, bodyweight
  Workouts       sessions of exercises with sets, reps, and weight

  Totals are always computed from the ingredients, so editing an ingredient
  updates every meal and day that uses it.

QUICK START:

  $ jacktrack user add jack jack@example.com
  $ jacktrack user use jack
  $ jacktrack ingredient add "Chicken Breast" --calories 165 --protein 31 --fat 3.6
  $ jacktrack meal add "Chicken Lunch" "Chicken Breast=150"
  $ jacktrack day log "Chicken Lunch" --servings 2
  $ jacktrack day show

WORKOUTS:

  $ jacktrack workout add --notes "leg day"
  $ jacktrack workout exercise abc123 Squat --sets 5 --reps 5 --weight 100

SERVERS:

  $ jacktrack serve      # JSON API with bearer tokens ('jacktrack token')
  $ jacktrack mcp        # MCP server over stdio for AI assistants

DATA STORAGE:

  Data is stored in SQLite at ~/.local/share/jacktrack/jacktrack.db.
  Set JACKTRACK_DATA_DIR or data_dir in ~/.config/jacktrack/config.json
  to move it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.LogLevel
		if debugFlag {
			level = "debug"
		}
		if err := logger.Init(level, debugFlag); err != nil {
			return err
		}

		if db != nil {
			_ = db.Close()
		}
		db, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		logger.L().Debug("opened database", zap.String("path", db.Path()))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		logger.Sync()
		if db != nil {
			err := db.Close()
			db = nil
			return err
		}
		return nil
	},
}

// Execute runs the root command and releases the database afterwards.
func Execute() error {
	defer func() {
		if db != nil {
			_ = db.Close()
			db = nil
		}
	}()
	return rootCmd.Execute()
}

// currentUser returns the user commands act as: --user, then the config's
// user, then the only user in the database.
func currentUser(ctx context.Context) (*models.User, error) {
	name := strings.TrimSpace(userFlag)
	if name == "" && cfg != nil {
		name = cfg.User
	}
	if name != "" {
		u, err := db.GetUserByUsername(ctx, name)
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("user %q not found (create it with 'jacktrack user add')", name)
		}
		return u, err
	}

	users, err := db.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 1 {
		return users[0], nil
	}
	return nil, errors.New("no user selected: pass --user or run 'jacktrack user use <name>'")
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "act as this user (default: config user)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "verbose logging to stderr")
}
