// ABOUTME: CLI commands for composing meals from ingredients.
// ABOUTME: Meals resolve by ID prefix or exact name; totals are computed on display.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/jacktrack/internal/models"
	"github.com/harperreed/jacktrack/internal/storage"
	"github.com/spf13/cobra"
)

var (
	mealInstructions string
	mealName         string
)

var mealCmd = &cobra.Command{
	Use:     "meal",
	Aliases: []string{"m"},
	Short:   "Compose reusable meals",
	Long: `A meal is a saved recipe: grams of each ingredient in one serving.

Adding an ingredient that is already in the meal adds to its grams.
Meals can be referenced by ID prefix or by exact name.

EXAMPLES:

  jacktrack meal add "Chicken Lunch" "Chicken Breast=150" "Rice=200"
  jacktrack meal add-ingredient "Chicken Lunch" Broccoli 80
  jacktrack meal set-quantity "Chicken Lunch" Rice 150
  jacktrack meal show "Chicken Lunch"`,
}

var mealAddCmd = &cobra.Command{
	Use:   "add <name> [ingredient=grams ...]",
	Short: "Create a meal",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}

		m := models.NewMeal(u.ID, args[0])
		if mealInstructions != "" {
			m.WithInstructions(mealInstructions)
		}
		for _, spec := range args[1:] {
			ref, grams, err := parseItem(spec)
			if err != nil {
				return err
			}
			ing, err := findIngredient(ctx, u.ID, ref)
			if err != nil {
				return fmt.Errorf("ingredient %q: %w", ref, err)
			}
			m.Ingredients = append(m.Ingredients, *models.NewMealIngredient(m.ID, ing.ID, grams))
		}
		if err := db.CreateMeal(ctx, m); err != nil {
			return fmt.Errorf("failed to create meal: %w", err)
		}

		printOK(cmd.OutOrStdout(), "Created meal %s (%s)", m.Name, shortID(m.ID))
		return printMealTotals(ctx, cmd.OutOrStdout(), u.ID, m.ID)
	},
}

var mealListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List meals with totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}

		meals, err := db.ListMeals(ctx, u.ID)
		if err != nil {
			return fmt.Errorf("failed to list meals: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(meals) == 0 {
			fmt.Fprintln(out, "No meals found.")
			return nil
		}
		for _, m := range meals {
			fmt.Fprintf(out, "%s %s %s\n", faint.Sprint(shortID(m.ID)), padRight(truncate(m.Name, 24), 24), macroLine(m.Totals()))
		}
		return nil
	},
}

var mealShowCmd = &cobra.Command{
	Use:   "show <id|name>",
	Short: "Show a meal's ingredients and totals",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}
		m, err := findMeal(ctx, u.ID, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		bold.Fprintf(out, "%s ", m.Name)
		faint.Fprintln(out, shortID(m.ID))
		if m.Instructions != nil && *m.Instructions != "" {
			fmt.Fprintf(out, "  %s\n", *m.Instructions)
		}
		if len(m.Ingredients) == 0 {
			fmt.Fprintln(out, "  (no ingredients)")
		}
		for _, mi := range m.Ingredients {
			name := mi.IngredientID.String()[:8]
			if mi.Ingredient != nil {
				name = mi.Ingredient.Name
			}
			fmt.Fprintf(out, "  %8.1f g  %s  %s\n", mi.QuantityGrams, padRight(truncate(name, 24), 24), faint.Sprint(macroLine(mi.Macros())))
		}
		fmt.Fprintf(out, "  Total: %s\n", macroLine(m.Totals()))
		return nil
	},
}

var mealEditCmd = &cobra.Command{
	Use:   "edit <id|name>",
	Short: "Rename a meal or change its instructions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}
		m, err := findMeal(ctx, u.ID, args[0])
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("name") {
			m.Name = strings.TrimSpace(mealName)
		}
		if cmd.Flags().Changed("instructions") {
			if mealInstructions == "" {
				m.Instructions = nil
			} else {
				m.WithInstructions(mealInstructions)
			}
		}
		if err := db.UpdateMeal(ctx, u.ID, m); err != nil {
			return fmt.Errorf("failed to update meal: %w", err)
		}
		printOK(cmd.OutOrStdout(), "Updated meal %s", m.Name)
		return nil
	},
}

var mealAddIngredientCmd = &cobra.Command{
	Use:   "add-ingredient <meal> <ingredient> <grams>",
	Short: "Add grams of an ingredient to a meal",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		u, m, ing, err := mealAndIngredient(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		grams, err := parseGrams(args[2])
		if err != nil {
			return err
		}

		mi, err := db.AddMealIngredient(ctx, u.ID, m.ID, ing.ID, grams)
		if err != nil {
			return fmt.Errorf("failed to add ingredient: %w", err)
		}
		printOK(cmd.OutOrStdout(), "%s now has %g g %s", m.Name, mi.QuantityGrams, ing.Name)
		return printMealTotals(ctx, cmd.OutOrStdout(), u.ID, m.ID)
	},
}

var mealSetQuantityCmd = &cobra.Command{
	Use:   "set-quantity <meal> <ingredient> <grams>",
	Short: "Set the grams of an ingredient already in a meal",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		u, m, ing, err := mealAndIngredient(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		grams, err := parseGrams(args[2])
		if err != nil {
			return err
		}

		if err := db.SetMealIngredientQuantity(ctx, u.ID, m.ID, ing.ID, grams); err != nil {
			return fmt.Errorf("failed to set quantity: %w", err)
		}
		printOK(cmd.OutOrStdout(), "%s now has %g g %s", m.Name, grams, ing.Name)
		return printMealTotals(ctx, cmd.OutOrStdout(), u.ID, m.ID)
	},
}

var mealRemoveIngredientCmd = &cobra.Command{
	Use:   "remove-ingredient <meal> <ingredient>",
	Short: "Remove an ingredient from a meal",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		u, m, ing, err := mealAndIngredient(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		if err := db.RemoveMealIngredient(ctx, u.ID, m.ID, ing.ID); err != nil {
			return fmt.Errorf("failed to remove ingredient: %w", err)
		}
		printRemoved(cmd.OutOrStdout(), "Removed %s from %s", ing.Name, m.Name)
		return nil
	},
}

var mealDeleteCmd = &cobra.Command{
	Use:     "delete <id|name>",
	Aliases: []string{"rm"},
	Short:   "Delete a meal that no day has logged",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}
		m, err := findMeal(ctx, u.ID, args[0])
		if err != nil {
			return err
		}
		if err := db.DeleteMeal(ctx, u.ID, m.ID); err != nil {
			return fmt.Errorf("failed to delete meal: %w", err)
		}
		printRemoved(cmd.OutOrStdout(), "Deleted meal %s", m.Name)
		return nil
	},
}

// findMeal looks up a meal by ID, ID prefix, or exact name.
func findMeal(ctx context.Context, userID uuid.UUID, ref string) (*models.Meal, error) {
	id, err := db.ResolveID(ctx, userID, storage.KindMeal, ref)
	if err == nil {
		return db.GetMeal(ctx, userID, id)
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	meals, listErr := db.ListMeals(ctx, userID)
	if listErr != nil {
		return nil, listErr
	}
	for _, m := range meals {
		if m.Name == ref {
			return m, nil
		}
	}
	return nil, err
}

func mealAndIngredient(ctx context.Context, mealRef, ingRef string) (*models.User, *models.Meal, *models.Ingredient, error) {
	u, err := currentUser(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	m, err := findMeal(ctx, u.ID, mealRef)
	if err != nil {
		return nil, nil, nil, err
	}
	ing, err := findIngredient(ctx, u.ID, ingRef)
	if err != nil {
		return nil, nil, nil, err
	}
	return u, m, ing, nil
}

func printMealTotals(ctx context.Context, w io.Writer, userID, mealID uuid.UUID) error {
	totals, err := db.MealTotals(ctx, userID, mealID)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "  Total: %s\n", macroLine(totals))
	return nil
}

// parseItem splits "ingredient=grams".
func parseItem(spec string) (string, float64, error) {
	i := strings.LastIndex(spec, "=")
	if i <= 0 {
		return "", 0, fmt.Errorf("%w: expected ingredient=grams, got %q", models.ErrValidation, spec)
	}
	grams, err := parseGrams(spec[i+1:])
	if err != nil {
		return "", 0, err
	}
	return strings.TrimSpace(spec[:i]), grams, nil
}

func parseGrams(s string) (float64, error) {
	grams, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "g"), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid grams %q", models.ErrValidation, s)
	}
	if err := models.ValidateQuantity(grams); err != nil {
		return 0, err
	}
	return grams, nil
}

func init() {
	mealAddCmd.Flags().StringVar(&mealInstructions, "instructions", "", "preparation notes")
	mealEditCmd.Flags().StringVar(&mealName, "name", "", "new name")
	mealEditCmd.Flags().StringVar(&mealInstructions, "instructions", "", "new preparation notes (empty clears)")

	mealCmd.AddCommand(mealAddCmd, mealListCmd, mealShowCmd, mealEditCmd,
		mealAddIngredientCmd, mealSetQuantityCmd, mealRemoveIngredientCmd, mealDeleteCmd)
	rootCmd.AddCommand(mealCmd)
}
