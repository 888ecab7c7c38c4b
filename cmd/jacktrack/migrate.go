// ABOUTME: CLI command for copying a user's data into another SQLite database.
// ABOUTME: Useful for moving one person's history between machines or data dirs.
package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/harperreed/jacktrack/internal/config"
	"github.com/harperreed/jacktrack/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateTo     string
	migrateDryRun bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy the current user's data to another database",
	Long: `Copy the current user and all of their ingredients, meals, days, and
workouts into another jacktrack database.

IMPORTANT:

  - The target database is created if it does not exist
  - IDs are preserved, so running it twice fails the second time
  - The copy is all-or-nothing
  - Run with --dry-run first to see what would be copied

USAGE:

  jacktrack migrate --to ~/backup/jacktrack.db --dry-run
  jacktrack migrate --to ~/backup/jacktrack.db`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if migrateTo == "" {
			return errors.New("--to is required")
		}
		target := config.ExpandPath(migrateTo)
		if sameFile(target, db.Path()) {
			return errors.New("target is the current database")
		}

		u, err := currentUser(ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if migrateDryRun {
			warn.Fprintln(out, "Dry run mode - no changes will be made")
			data, err := db.GetAllData(ctx, u.ID)
			if err != nil {
				return err
			}
			printSummary(cmd, storage.Summarize(data), target)
			return nil
		}

		exists, err := storage.DBFileExists(target)
		if err != nil {
			return err
		}
		if exists {
			faint.Fprintf(out, "Target %s exists; merging %s into it\n", target, u.Username)
		}

		dst, err := storage.Open(target)
		if err != nil {
			return fmt.Errorf("failed to open target: %w", err)
		}
		defer dst.Close()

		summary, err := storage.MigrateUser(ctx, db, dst, u.Username)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		printOK(out, "Migrated %s", u.Username)
		printSummary(cmd, summary, target)
		return nil
	},
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

func printSummary(cmd *cobra.Command, s *storage.MigrateSummary, target string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  Ingredients: %d\n", s.Ingredients)
	fmt.Fprintf(out, "  Meals:       %d\n", s.Meals)
	fmt.Fprintf(out, "  Days:        %d\n", s.DailyLogs)
	fmt.Fprintf(out, "  Workouts:    %d\n", s.Workouts)
	fmt.Fprintf(out, "  Target:      %s\n", target)
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "target database file")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	rootCmd.AddCommand(migrateCmd)
}
