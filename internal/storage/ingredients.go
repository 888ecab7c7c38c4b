// ABOUTME: Ingredient library CRUD operations for SQLite storage.
// ABOUTME: Deletion is refused while any meal still uses the ingredient.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/jacktrack/internal/models"
)

const ingredientColumns = `id, user_id, name, calories, protein, carbs, fat, fiber, created_at, updated_at`

// CreateIngredient stores a new ingredient in the owner's library.
func (d *DB) CreateIngredient(ctx context.Context, ing *models.Ingredient) error {
	ing.Name = strings.TrimSpace(ing.Name)
	if err := ing.Validate(); err != nil {
		return fmt.Errorf("create ingredient: %w", err)
	}

	return d.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireUser(ctx, tx, ing.UserID); err != nil {
			return fmt.Errorf("create ingredient: %w", err)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO ingredients (`+ingredientColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			ing.ID.String(),
			ing.UserID.String(),
			ing.Name,
			ing.Calories,
			ing.Protein,
			ing.Carbs,
			ing.Fat,
			ing.Fiber,
			formatTime(ing.CreatedAt),
			formatTime(ing.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("create ingredient: %w", duplicateNameAsValidation(err, "ingredient", ing.Name))
		}
		return nil
	})
}

// GetIngredient retrieves one of the caller's ingredients by ID.
func (d *DB) GetIngredient(ctx context.Context, userID, id uuid.UUID) (*models.Ingredient, error) {
	return getIngredient(ctx, d.db, userID, id)
}

func getIngredient(ctx context.Context, q querier, userID, id uuid.UUID) (*models.Ingredient, error) {
	row := q.QueryRowContext(ctx, `SELECT `+ingredientColumns+` FROM ingredients WHERE id = ?`, id.String())
	ing, err := scanIngredient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(string(KindIngredient), id.String())
	}
	if err != nil {
		return nil, err
	}
	if ing.UserID != userID {
		return nil, forbidden(string(KindIngredient), id.String())
	}
	return ing, nil
}

// GetIngredientByName retrieves one of the caller's ingredients by its exact name.
func (d *DB) GetIngredientByName(ctx context.Context, userID uuid.UUID, name string) (*models.Ingredient, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT `+ingredientColumns+` FROM ingredients WHERE user_id = ? AND name = ?`,
		userID.String(), name)
	ing, err := scanIngredient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(string(KindIngredient), name)
	}
	return ing, err
}

// ListIngredients returns the caller's library ordered by name.
func (d *DB) ListIngredients(ctx context.Context, userID uuid.UUID) ([]*models.Ingredient, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT `+ingredientColumns+` FROM ingredients WHERE user_id = ? ORDER BY name COLLATE NOCASE, name`,
		userID.String())
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	defer rows.Close()

	var ingredients []*models.Ingredient
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients, rows.Err()
}

// UpdateIngredient rewrites the name and macros of an existing ingredient.
// The new values are validated the same way as on create.
func (d *DB) UpdateIngredient(ctx context.Context, userID uuid.UUID, ing *models.Ingredient) error {
	ing.Name = strings.TrimSpace(ing.Name)
	if err := ing.Validate(); err != nil {
		return fmt.Errorf("update ingredient: %w", err)
	}

	return d.withTx(ctx, func(tx *sql.Tx) error {
		if err := authorize(ctx, tx, "ingredients", KindIngredient, userID, ing.ID); err != nil {
			return fmt.Errorf("update ingredient: %w", err)
		}
		ing.UserID = userID
		ing.UpdatedAt = time.Now()
		_, err := tx.ExecContext(ctx, `
			UPDATE ingredients
			SET name = ?, calories = ?, protein = ?, carbs = ?, fat = ?, fiber = ?, updated_at = ?
			WHERE id = ?`,
			ing.Name, ing.Calories, ing.Protein, ing.Carbs, ing.Fat, ing.Fiber,
			formatTime(ing.UpdatedAt), ing.ID.String())
		if err != nil {
			return fmt.Errorf("update ingredient: %w", duplicateNameAsValidation(err, "ingredient", ing.Name))
		}
		return nil
	})
}

// DeleteIngredient removes an ingredient that no meal references.
func (d *DB) DeleteIngredient(ctx context.Context, userID, id uuid.UUID) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		if err := authorize(ctx, tx, "ingredients", KindIngredient, userID, id); err != nil {
			return fmt.Errorf("delete ingredient: %w", err)
		}

		var refs int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM meal_ingredients WHERE ingredient_id = ?", id.String()).Scan(&refs); err != nil {
			return fmt.Errorf("delete ingredient: %w", err)
		}
		if refs > 0 {
			return fmt.Errorf("delete ingredient: %w: used by %d meal(s)", models.ErrReferentialIntegrity, refs)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM ingredients WHERE id = ?", id.String()); err != nil {
			return fmt.Errorf("delete ingredient: %w", translateError(err))
		}
		return nil
	})
}

func scanIngredient(row rowScanner) (*models.Ingredient, error) {
	var ing models.Ingredient
	var idStr, userIDStr, createdAt, updatedAt string
	err := row.Scan(&idStr, &userIDStr, &ing.Name,
		&ing.Calories, &ing.Protein, &ing.Carbs, &ing.Fat, &ing.Fiber,
		&createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan ingredient: %w", err)
	}
	ing.ID, _ = uuid.Parse(idStr)
	ing.UserID, _ = uuid.Parse(userIDStr)
	ing.CreatedAt = parseTime(createdAt)
	ing.UpdatedAt = parseTime(updatedAt)
	return &ing, nil
}
