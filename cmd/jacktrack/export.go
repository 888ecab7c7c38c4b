// ABOUTME: CLI commands for exporting and importing a user's data.
// ABOUTME: Supports JSON, YAML, and Markdown export; imports JSON or YAML in one transaction.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/jacktrack/internal/models"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportSince  string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export your data",
	Long: `Export the current user's data in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable, also importable)
  markdown   Markdown tables (for reading/sharing)

OPTIONS:

  --output, -o   Write to file instead of stdout
  --since        Only include days and workouts since this date (markdown only)

EXAMPLES:

  jacktrack export json -o backup.json
  jacktrack export yaml
  jacktrack export markdown --since 2024-01-01`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}

		var data []byte
		switch args[0] {
		case "json":
			data, err = db.ExportJSON(ctx, u.ID)
		case "yaml":
			data, err = db.ExportYAML(ctx, u.ID)
		case "markdown", "md":
			var since models.Date
			if exportSince != "" {
				if since, err = models.ParseDate(exportSince); err != nil {
					return err
				}
			}
			var md string
			md, err = db.ExportMarkdown(ctx, u.ID, since)
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", args[0])
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			printOK(cmd.OutOrStdout(), "Exported to %s", exportOutput)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import data from a JSON or YAML export",
	Long: `Import ingredients, meals, days, and workouts from a previous export
into the current user.

Files ending in .yaml or .yml are read as YAML, everything else as JSON.
The import is all-or-nothing: records that already exist (same ID or name)
abort it and nothing is written.

EXAMPLES:

  jacktrack import backup.json
  jacktrack --user jill import jack.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}

		filename := args[0]
		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		switch strings.ToLower(filepath.Ext(filename)) {
		case ".yaml", ".yml":
			err = db.ImportYAML(ctx, u.ID, data)
		default:
			err = db.ImportJSON(ctx, u.ID, data)
		}
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		printOK(cmd.OutOrStdout(), "Imported from %s", filename)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include data since date (YYYY-MM-DD)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
