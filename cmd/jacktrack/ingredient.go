// ABOUTME: CLI commands for the ingredient library.
// ABOUTME: Supports add, list, show, edit, and delete; ingredients resolve by ID prefix or name.
package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/jacktrack/internal/models"
	"github.com/harperreed/jacktrack/internal/storage"
	"github.com/spf13/cobra"
)

var (
	ingCalories float64
	ingProtein  float64
	ingCarbs    float64
	ingFat      float64
	ingFiber    float64
	ingName     string
)

var ingredientCmd = &cobra.Command{
	Use:     "ingredient",
	Aliases: []string{"ing", "i"},
	Short:   "Manage the ingredient library",
	Long: `Ingredients hold macros per 100 grams. Meals reference them by weight,
so changing an ingredient changes every meal and day that uses it.

Ingredients can be referenced by ID prefix or by exact name.

EXAMPLES:

  jacktrack ingredient add Oats --calories 389 --protein 16.9 --carbs 66.3 --fat 6.9 --fiber 10.6
  jacktrack ingredient list
  jacktrack ingredient edit Oats --calories 380
  jacktrack ingredient delete Oats`,
}

var ingredientAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an ingredient (macros per 100g)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}

		ing := models.NewIngredient(u.ID, args[0], models.Macros{
			Calories: ingCalories,
			Protein:  ingProtein,
			Carbs:    ingCarbs,
			Fat:      ingFat,
			Fiber:    ingFiber,
		})
		if err := db.CreateIngredient(ctx, ing); err != nil {
			return fmt.Errorf("failed to add ingredient: %w", err)
		}

		out := cmd.OutOrStdout()
		printOK(out, "Added %s", ing.Name)
		fmt.Fprintf(out, "  %s per 100g: %s\n", faint.Sprint(shortID(ing.ID)), macroLine(ing.Macros))
		return nil
	},
}

var ingredientListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List ingredients",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}

		list, err := db.ListIngredients(ctx, u.ID)
		if err != nil {
			return fmt.Errorf("failed to list ingredients: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, "No ingredients found.")
			return nil
		}
		for _, ing := range list {
			fmt.Fprintf(out, "%s %s %s\n", faint.Sprint(shortID(ing.ID)), padRight(truncate(ing.Name, 24), 24), macroLine(ing.Macros))
		}
		return nil
	},
}

var ingredientShowCmd = &cobra.Command{
	Use:   "show <id|name>",
	Short: "Show an ingredient",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}
		ing, err := findIngredient(ctx, u.ID, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		bold.Fprintln(out, ing.Name)
		fmt.Fprintf(out, "  ID:       %s\n", ing.ID)
		fmt.Fprintf(out, "  Per 100g: %s\n", macroLine(ing.Macros))
		fmt.Fprintf(out, "  Updated:  %s\n", ing.UpdatedAt.Local().Format("2006-01-02 15:04"))
		return nil
	},
}

var ingredientEditCmd = &cobra.Command{
	Use:   "edit <id|name>",
	Short: "Change an ingredient's name or macros",
	Long: `Change an ingredient. Only the flags you pass are changed.

Meals and days that use the ingredient pick up the new values immediately.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}
		ing, err := findIngredient(ctx, u.ID, args[0])
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("name") {
			ing.Name = ingName
		}
		setIfChanged(cmd, "calories", &ing.Calories, ingCalories)
		setIfChanged(cmd, "protein", &ing.Protein, ingProtein)
		setIfChanged(cmd, "carbs", &ing.Carbs, ingCarbs)
		setIfChanged(cmd, "fat", &ing.Fat, ingFat)
		setIfChanged(cmd, "fiber", &ing.Fiber, ingFiber)

		if err := db.UpdateIngredient(ctx, u.ID, ing); err != nil {
			return fmt.Errorf("failed to update ingredient: %w", err)
		}
		printOK(cmd.OutOrStdout(), "Updated %s: %s per 100g", ing.Name, macroLine(ing.Macros))
		return nil
	},
}

var ingredientDeleteCmd = &cobra.Command{
	Use:     "delete <id|name>",
	Aliases: []string{"rm"},
	Short:   "Delete an ingredient no meal uses",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}
		ing, err := findIngredient(ctx, u.ID, args[0])
		if err != nil {
			return err
		}
		if err := db.DeleteIngredient(ctx, u.ID, ing.ID); err != nil {
			return fmt.Errorf("failed to delete ingredient: %w", err)
		}
		printRemoved(cmd.OutOrStdout(), "Deleted %s", ing.Name)
		return nil
	},
}

// findIngredient looks up an ingredient by ID, ID prefix, or exact name.
func findIngredient(ctx context.Context, userID uuid.UUID, ref string) (*models.Ingredient, error) {
	id, err := db.ResolveID(ctx, userID, storage.KindIngredient, ref)
	if err == nil {
		return db.GetIngredient(ctx, userID, id)
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	return db.GetIngredientByName(ctx, userID, ref)
}

func setIfChanged(cmd *cobra.Command, name string, dst *float64, v float64) {
	if cmd.Flags().Changed(name) {
		*dst = v
	}
}

func addMacroFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&ingCalories, "calories", 0, "kcal per 100g")
	cmd.Flags().Float64Var(&ingProtein, "protein", 0, "protein grams per 100g")
	cmd.Flags().Float64Var(&ingCarbs, "carbs", 0, "carbohydrate grams per 100g")
	cmd.Flags().Float64Var(&ingFat, "fat", 0, "fat grams per 100g")
	cmd.Flags().Float64Var(&ingFiber, "fiber", 0, "fiber grams per 100g")
}

func init() {
	addMacroFlags(ingredientAddCmd)
	addMacroFlags(ingredientEditCmd)
	ingredientEditCmd.Flags().StringVar(&ingName, "name", "", "new name")

	ingredientCmd.AddCommand(ingredientAddCmd, ingredientListCmd, ingredientShowCmd, ingredientEditCmd, ingredientDeleteCmd)
	rootCmd.AddCommand(ingredientCmd)
}
