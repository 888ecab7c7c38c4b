// ABOUTME: CLI commands for managing users.
// ABOUTME: Supports add, list, use (sets the default user), and delete.
package main

import (
	"fmt"

	"github.com/harperreed/jacktrack/internal/config"
	"github.com/harperreed/jacktrack/internal/models"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
	Long: `Every ingredient, meal, day, and workout belongs to one user.
Users never see each other's data, and names only need to be unique per user.

COMMANDS:

  add      Create a user
  list     List users
  use      Make a user the default for future commands
  delete   Delete a user and all of their data`,
}

var userAddCmd = &cobra.Command{
	Use:   "add <username> <email>",
	Short: "Create a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		u := models.NewUser(args[0], args[1])
		if err := db.CreateUser(cmd.Context(), u); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		printOK(cmd.OutOrStdout(), "Created user %s", u.Username)
		faint.Fprintf(cmd.OutOrStdout(), "  %s\n", shortID(u.ID))
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := db.ListUsers(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(users) == 0 {
			fmt.Fprintln(out, "No users found.")
			return nil
		}
		for _, u := range users {
			marker := " "
			if cfg != nil && cfg.User == u.Username {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %s %s %s\n", marker, faint.Sprint(shortID(u.ID)), padRight(u.Username, 16), u.Email)
		}
		return nil
	},
}

var userUseCmd = &cobra.Command{
	Use:   "use <username>",
	Short: "Set the default user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := db.GetUserByUsername(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("user %q: %w", args[0], err)
		}

		saved, err := config.LoadFile()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		saved.User = u.Username
		if err := saved.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		printOK(cmd.OutOrStdout(), "Now acting as %s", u.Username)
		return nil
	},
}

var userDeleteCmd = &cobra.Command{
	Use:     "delete <username>",
	Aliases: []string{"rm"},
	Short:   "Delete a user and all of their data",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := db.GetUserByUsername(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("user %q: %w", args[0], err)
		}
		if err := db.DeleteUser(cmd.Context(), u.ID); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		printRemoved(cmd.OutOrStdout(), "Deleted user %s", u.Username)
		return nil
	},
}

func init() {
	userCmd.AddCommand(userAddCmd, userListCmd, userUseCmd, userDeleteCmd)
	rootCmd.AddCommand(userCmd)
}
