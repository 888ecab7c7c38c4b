// ABOUTME: Meal composer operations for SQLite storage.
// ABOUTME: Meals own their ingredient rows; totals are always computed from current ingredient data.
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

// CreateMeal stores a new meal together with any rows in m.Ingredients.
// Repeated ingredients are summed. Nothing is stored if any row fails.
func (d *DB) CreateMeal(ctx context.Context, m *models.Meal) error {
	m.Name = strings.TrimSpace(m.Name)
	if err := m.Validate(); err != nil {
		return fmt.Errorf("create meal: %w", err)
	}
	for _, mi := range m.Ingredients {
		if err := models.ValidateQuantity(mi.QuantityGrams); err != nil {
			return fmt.Errorf("create meal: %w", err)
		}
	}

	return d.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireUser(ctx, tx, m.UserID); err != nil {
			return fmt.Errorf("create meal: %w", err)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO meals (id, user_id, name, instructions, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			m.ID.String(), m.UserID.String(), m.Name, nullString(m.Instructions),
			formatTime(m.CreatedAt), formatTime(m.UpdatedAt))
		if err != nil {
			return fmt.Errorf("create meal: %w", duplicateNameAsValidation(err, "meal", m.Name))
		}
		if len(m.Ingredients) == 0 {
			return nil
		}

		for _, mi := range m.Ingredients {
			if _, err := addMealIngredient(ctx, tx, m.UserID, m.ID, mi.IngredientID, mi.QuantityGrams); err != nil {
				return fmt.Errorf("create meal: %w", err)
			}
		}
		stored, err := getMeal(ctx, tx, m.UserID, m.ID)
		if err != nil {
			return fmt.Errorf("create meal: %w", err)
		}
		m.Ingredients = stored.Ingredients
		return nil
	})
}

// GetMeal retrieves a meal with its ingredient rows and their ingredients.
func (d *DB) GetMeal(ctx context.Context, userID, id uuid.UUID) (*models.Meal, error) {
	return getMeal(ctx, d.db, userID, id)
}

func getMeal(ctx context.Context, q querier, userID, id uuid.UUID) (*models.Meal, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, user_id, name, instructions, created_at, updated_at
		FROM meals WHERE id = ?`, id.String())
	m, err := scanMeal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(string(KindMeal), id.String())
	}
	if err != nil {
		return nil, err
	}
	if m.UserID != userID {
		return nil, forbidden(string(KindMeal), id.String())
	}

	m.Ingredients, err = loadMealIngredients(ctx, q, m.ID)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ListMeals returns the caller's meals ordered by name, each with its ingredients.
func (d *DB) ListMeals(ctx context.Context, userID uuid.UUID) ([]*models.Meal, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, user_id, name, instructions, created_at, updated_at
		FROM meals WHERE user_id = ? ORDER BY name COLLATE NOCASE, name`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}

	var meals []*models.Meal
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		meals = append(meals, m)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("list meals: %w", err)
	}
	rows.Close()

	for _, m := range meals {
		m.Ingredients, err = loadMealIngredients(ctx, d.db, m.ID)
		if err != nil {
			return nil, err
		}
	}
	return meals, nil
}

// UpdateMeal rewrites a meal's name and instructions. Ingredient rows are
// managed through AddMealIngredient and friends.
func (d *DB) UpdateMeal(ctx context.Context, userID uuid.UUID, m *models.Meal) error {
	m.Name = strings.TrimSpace(m.Name)
	if err := m.Validate(); err != nil {
		return fmt.Errorf("update meal: %w", err)
	}

	return d.withTx(ctx, func(tx *sql.Tx) error {
		if err := authorize(ctx, tx, "meals", KindMeal, userID, m.ID); err != nil {
			return fmt.Errorf("update meal: %w", err)
		}
		m.UserID = userID
		m.UpdatedAt = time.Now()
		_, err := tx.ExecContext(ctx, `
			UPDATE meals SET name = ?, instructions = ?, updated_at = ? WHERE id = ?`,
			m.Name, nullString(m.Instructions), formatTime(m.UpdatedAt), m.ID.String())
		if err != nil {
			return fmt.Errorf("update meal: %w", duplicateNameAsValidation(err, "meal", m.Name))
		}
		return nil
	})
}

// DeleteMeal removes a meal and its ingredient rows. It fails while any
// daily log still has the meal attached.
func (d *DB) DeleteMeal(ctx context.Context, userID, id uuid.UUID) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		if err := authorize(ctx, tx, "meals", KindMeal, userID, id); err != nil {
			return fmt.Errorf("delete meal: %w", err)
		}

		var refs int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM daily_log_meals WHERE meal_id = ?", id.String()).Scan(&refs); err != nil {
			return fmt.Errorf("delete meal: %w", err)
		}
		if refs > 0 {
			return fmt.Errorf("delete meal: %w: logged on %d day(s)", models.ErrReferentialIntegrity, refs)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM meals WHERE id = ?", id.String()); err != nil {
			return fmt.Errorf("delete meal: %w", translateError(err))
		}
		return nil
	})
}

// AddMealIngredient puts quantityGrams of an ingredient into a meal. Adding
// an ingredient the meal already has increases that row's quantity.
func (d *DB) AddMealIngredient(ctx context.Context, userID, mealID, ingredientID uuid.UUID, quantityGrams float64) (*models.MealIngredient, error) {
	if err := models.ValidateQuantity(quantityGrams); err != nil {
		return nil, fmt.Errorf("add meal ingredient: %w", err)
	}

	var added *models.MealIngredient
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		if err := authorize(ctx, tx, "meals", KindMeal, userID, mealID); err != nil {
			return err
		}
		var err error
		added, err = addMealIngredient(ctx, tx, userID, mealID, ingredientID, quantityGrams)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("add meal ingredient: %w", err)
	}
	return added, nil
}

// addMealIngredient inserts or merges one row into a meal the caller owns.
func addMealIngredient(ctx context.Context, tx *sql.Tx, userID, mealID, ingredientID uuid.UUID, quantityGrams float64) (*models.MealIngredient, error) {
	ing, err := ownedIngredient(ctx, tx, userID, ingredientID)
	if err != nil {
		return nil, err
	}

	mi := models.NewMealIngredient(mealID, ingredientID, quantityGrams)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO meal_ingredients (id, meal_id, ingredient_id, quantity_grams, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (meal_id, ingredient_id)
		DO UPDATE SET quantity_grams = quantity_grams + excluded.quantity_grams`,
		mi.ID.String(), mealID.String(), ingredientID.String(), quantityGrams, formatTime(mi.CreatedAt))
	if err != nil {
		return nil, translateError(err)
	}
	if err := touchMeal(ctx, tx, mealID); err != nil {
		return nil, err
	}

	added, err := getMealIngredient(ctx, tx, mealID, ingredientID)
	if err != nil {
		return nil, err
	}
	added.Ingredient = ing
	return added, nil
}

// SetMealIngredientQuantity replaces the grams of an ingredient already in a meal.
func (d *DB) SetMealIngredientQuantity(ctx context.Context, userID, mealID, ingredientID uuid.UUID, quantityGrams float64) error {
	if err := models.ValidateQuantity(quantityGrams); err != nil {
		return fmt.Errorf("set meal ingredient quantity: %w", err)
	}

	err := d.withTx(ctx, func(tx *sql.Tx) error {
		if err := authorize(ctx, tx, "meals", KindMeal, userID, mealID); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, `
			UPDATE meal_ingredients SET quantity_grams = ?
			WHERE meal_id = ? AND ingredient_id = ?`,
			quantityGrams, mealID.String(), ingredientID.String())
		if err != nil {
			return translateError(err)
		}
		if err := requireAffected(result, "meal ingredient", ingredientID.String()); err != nil {
			return err
		}
		return touchMeal(ctx, tx, mealID)
	})
	if err != nil {
		return fmt.Errorf("set meal ingredient quantity: %w", err)
	}
	return nil
}

// RemoveMealIngredient takes an ingredient out of a meal.
func (d *DB) RemoveMealIngredient(ctx context.Context, userID, mealID, ingredientID uuid.UUID) error {
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		if err := authorize(ctx, tx, "meals", KindMeal, userID, mealID); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx,
			"DELETE FROM meal_ingredients WHERE meal_id = ? AND ingredient_id = ?",
			mealID.String(), ingredientID.String())
		if err != nil {
			return translateError(err)
		}
		if err := requireAffected(result, "meal ingredient", ingredientID.String()); err != nil {
			return err
		}
		return touchMeal(ctx, tx, mealID)
	})
	if err != nil {
		return fmt.Errorf("remove meal ingredient: %w", err)
	}
	return nil
}

// MealTotals computes a meal's macros from its current ingredients.
func (d *DB) MealTotals(ctx context.Context, userID, mealID uuid.UUID) (models.Macros, error) {
	m, err := d.GetMeal(ctx, userID, mealID)
	if err != nil {
		return models.Macros{}, fmt.Errorf("meal totals: %w", err)
	}
	return m.Totals(), nil
}

// ownedIngredient loads an ingredient for linking into one of userID's meals.
// Another user's ingredient is an ownership violation rather than a lookup failure.
func ownedIngredient(ctx context.Context, q querier, userID, id uuid.UUID) (*models.Ingredient, error) {
	ing, err := getIngredient(ctx, q, userID, id)
	if errors.Is(err, models.ErrAuthorization) {
		return nil, fmt.Errorf("%w: ingredient %s belongs to another user", models.ErrOwnership, id)
	}
	return ing, err
}

func touchMeal(ctx context.Context, q querier, mealID uuid.UUID) error {
	_, err := q.ExecContext(ctx, "UPDATE meals SET updated_at = ? WHERE id = ?",
		formatTime(time.Now()), mealID.String())
	if err != nil {
		return fmt.Errorf("touch meal: %w", err)
	}
	return nil
}

func requireAffected(result sql.Result, kind, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound(kind, id)
	}
	return nil
}

func getMealIngredient(ctx context.Context, q querier, mealID, ingredientID uuid.UUID) (*models.MealIngredient, error) {
	var mi models.MealIngredient
	var idStr, createdAt string
	err := q.QueryRowContext(ctx, `
		SELECT id, quantity_grams, created_at FROM meal_ingredients
		WHERE meal_id = ? AND ingredient_id = ?`,
		mealID.String(), ingredientID.String()).Scan(&idStr, &mi.QuantityGrams, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("meal ingredient", ingredientID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("get meal ingredient: %w", err)
	}
	mi.ID, _ = uuid.Parse(idStr)
	mi.MealID = mealID
	mi.IngredientID = ingredientID
	mi.CreatedAt = parseTime(createdAt)
	return &mi, nil
}

// loadMealIngredients returns a meal's rows joined to their ingredients,
// ordered by ingredient name.
func loadMealIngredients(ctx context.Context, q querier, mealID uuid.UUID) ([]models.MealIngredient, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT mi.id, mi.quantity_grams, mi.created_at,
		       i.id, i.user_id, i.name, i.calories, i.protein, i.carbs, i.fat, i.fiber, i.created_at, i.updated_at
		FROM meal_ingredients mi
		JOIN ingredients i ON i.id = mi.ingredient_id
		WHERE mi.meal_id = ?
		ORDER BY i.name COLLATE NOCASE, mi.created_at`, mealID.String())
	if err != nil {
		return nil, fmt.Errorf("load meal ingredients: %w", err)
	}
	defer rows.Close()

	var items []models.MealIngredient
	for rows.Next() {
		var mi models.MealIngredient
		var ing models.Ingredient
		var miID, miCreated, ingID, ingUser, ingCreated, ingUpdated string
		if err := rows.Scan(&miID, &mi.QuantityGrams, &miCreated,
			&ingID, &ingUser, &ing.Name,
			&ing.Calories, &ing.Protein, &ing.Carbs, &ing.Fat, &ing.Fiber,
			&ingCreated, &ingUpdated); err != nil {
			return nil, fmt.Errorf("scan meal ingredient: %w", err)
		}
		mi.ID, _ = uuid.Parse(miID)
		mi.MealID = mealID
		mi.CreatedAt = parseTime(miCreated)
		ing.ID, _ = uuid.Parse(ingID)
		ing.UserID, _ = uuid.Parse(ingUser)
		ing.CreatedAt = parseTime(ingCreated)
		ing.UpdatedAt = parseTime(ingUpdated)
		mi.IngredientID = ing.ID
		mi.Ingredient = &ing
		items = append(items, mi)
	}
	return items, rows.Err()
}

func scanMeal(row rowScanner) (*models.Meal, error) {
	var m models.Meal
	var idStr, userIDStr, createdAt, updatedAt string
	var instructions sql.NullString
	if err := row.Scan(&idStr, &userIDStr, &m.Name, &instructions, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan meal: %w", err)
	}
	m.ID, _ = uuid.Parse(idStr)
	m.UserID, _ = uuid.Parse(userIDStr)
	m.Instructions = stringPtr(instructions)
	m.CreatedAt = parseTime(createdAt)
	m.UpdatedAt = parseTime(updatedAt)
	return &m, nil
}
