// ABOUTME: Export and import functionality for one user's tracker data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats; imports are all-or-nothing.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/jacktrack/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportVersion is the format version written by GetAllData.
const ExportVersion = "1.0"

// ExportData represents the full export format for one user.
type ExportData struct {
	Version     string                   `json:"version" yaml:"version"`
	ExportedAt  time.Time                `json:"exported_at" yaml:"exported_at"`
	Tool        string                   `json:"tool" yaml:"tool"`
	Username    string                   `json:"username,omitempty" yaml:"username,omitempty"`
	Ingredients []*models.Ingredient     `json:"ingredients" yaml:"ingredients"`
	Meals       []*models.Meal           `json:"meals" yaml:"meals"`
	DailyLogs   []*models.DailyLog       `json:"daily_logs" yaml:"daily_logs"`
	Workouts    []*models.WorkoutSession `json:"workouts" yaml:"workouts"`
}

// GetAllData retrieves everything the user owns for export.
func (d *DB) GetAllData(ctx context.Context, userID uuid.UUID) (*ExportData, error) {
	user, err := d.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	ingredients, err := d.ListIngredients(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}

	meals, err := d.ListMeals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}

	logs, err := d.ListDailyLogs(ctx, userID, DailyLogFilter{})
	if err != nil {
		return nil, fmt.Errorf("list daily logs: %w", err)
	}

	workouts, err := d.ListWorkoutSessions(ctx, userID, 0)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	return &ExportData{
		Version:     ExportVersion,
		ExportedAt:  time.Now(),
		Tool:        "jacktrack",
		Username:    user.Username,
		Ingredients: ingredients,
		Meals:       meals,
		DailyLogs:   logs,
		Workouts:    workouts,
	}, nil
}

// ImportData recreates an export under userID, keeping the exported IDs.
// Parent links come from nesting, so a YAML export imports the same as JSON.
// Everything runs in one transaction; any failure leaves the store unchanged.
func (d *DB) ImportData(ctx context.Context, userID uuid.UUID, data *ExportData) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireUser(ctx, tx, userID); err != nil {
			return fmt.Errorf("import: %w", err)
		}
		return importData(ctx, tx, userID, data)
	})
}

// ImportUserData imports data for u, creating u first when it does not exist.
// The user row and the data commit together or not at all.
func (d *DB) ImportUserData(ctx context.Context, u *models.User, data *ExportData) error {
	if err := u.Validate(); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	return d.withTx(ctx, func(tx *sql.Tx) error {
		var username string
		err := tx.QueryRowContext(ctx, "SELECT username FROM users WHERE id = ?", u.ID.String()).Scan(&username)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			if err := insertUser(ctx, tx, u); err != nil {
				return fmt.Errorf("import: create user: %w", err)
			}
		case err != nil:
			return fmt.Errorf("import: %w", err)
		case username != u.Username:
			return fmt.Errorf("import: %w: user %s is named %q", models.ErrConflict, u.ID, username)
		}
		return importData(ctx, tx, u.ID, data)
	})
}

func importData(ctx context.Context, tx *sql.Tx, userID uuid.UUID, data *ExportData) error {
	for _, ing := range data.Ingredients {
		ing.UserID = userID
		if err := ing.Validate(); err != nil {
			return fmt.Errorf("import ingredient %q: %w", ing.Name, err)
		}
		if err := insertIngredient(ctx, tx, ing); err != nil {
			return fmt.Errorf("import ingredient %q: %w", ing.Name, err)
		}
	}

	for _, m := range data.Meals {
		m.UserID = userID
		if err := importMeal(ctx, tx, userID, m); err != nil {
			return fmt.Errorf("import meal %q: %w", m.Name, err)
		}
	}

	for _, l := range data.DailyLogs {
		l.UserID = userID
		if err := importDailyLog(ctx, tx, userID, l); err != nil {
			return fmt.Errorf("import daily log %s: %w", l.LogDate, err)
		}
	}

	for _, w := range data.Workouts {
		w.UserID = userID
		if err := importWorkout(ctx, tx, w); err != nil {
			return fmt.Errorf("import workout %s: %w", w.ID, err)
		}
	}
	return nil
}

func insertIngredient(ctx context.Context, q querier, ing *models.Ingredient) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO ingredients (`+ingredientColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ing.ID.String(), ing.UserID.String(), ing.Name,
		ing.Calories, ing.Protein, ing.Carbs, ing.Fat, ing.Fiber,
		formatTime(ing.CreatedAt), formatTime(ing.UpdatedAt))
	return duplicateNameAsValidation(err, "ingredient", ing.Name)
}

func importMeal(ctx context.Context, tx *sql.Tx, userID uuid.UUID, m *models.Meal) error {
	if err := m.Validate(); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO meals (id, user_id, name, instructions, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID.String(), userID.String(), m.Name, nullString(m.Instructions),
		formatTime(m.CreatedAt), formatTime(m.UpdatedAt))
	if err != nil {
		return duplicateNameAsValidation(err, "meal", m.Name)
	}

	for _, mi := range m.Ingredients {
		if err := models.ValidateQuantity(mi.QuantityGrams); err != nil {
			return err
		}
		if _, err := ownedIngredient(ctx, tx, userID, mi.IngredientID); err != nil {
			return err
		}
		if mi.ID == uuid.Nil {
			mi.ID = uuid.New()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO meal_ingredients (id, meal_id, ingredient_id, quantity_grams, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			mi.ID.String(), m.ID.String(), mi.IngredientID.String(), mi.QuantityGrams, formatTime(mi.CreatedAt))
		if err != nil {
			return translateError(err)
		}
	}
	return nil
}

func importDailyLog(ctx context.Context, tx *sql.Tx, userID uuid.UUID, l *models.DailyLog) error {
	if err := l.Validate(); err != nil {
		return err
	}

	var steps sql.NullInt64
	if l.Steps != nil {
		steps = sql.NullInt64{Int64: int64(*l.Steps), Valid: true}
	}
	var bodyweight sql.NullFloat64
	if l.Bodyweight != nil {
		bodyweight = sql.NullFloat64{Float64: *l.Bodyweight, Valid: true}
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO daily_logs (`+dailyLogColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID.String(), userID.String(), string(l.LogDate), steps, bodyweight,
		nullString(l.Notes), formatTime(l.CreatedAt), formatTime(l.UpdatedAt))
	if err != nil {
		return translateError(err)
	}

	for _, dlm := range l.Meals {
		if err := models.ValidateServings(dlm.Servings); err != nil {
			return err
		}
		owner, err := ownerOf(ctx, tx, "meals", KindMeal, dlm.MealID)
		if err != nil {
			return err
		}
		if owner != userID {
			return fmt.Errorf("%w: meal %s belongs to another user", models.ErrOwnership, dlm.MealID)
		}
		if dlm.ID == uuid.Nil {
			dlm.ID = uuid.New()
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO daily_log_meals (id, daily_log_id, meal_id, servings, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			dlm.ID.String(), l.ID.String(), dlm.MealID.String(), dlm.Servings, formatTime(dlm.CreatedAt))
		if err != nil {
			return translateError(err)
		}
	}
	return nil
}

func importWorkout(ctx context.Context, tx *sql.Tx, w *models.WorkoutSession) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO workout_sessions (id, user_id, performed_at, notes, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		w.ID.String(), w.UserID.String(), formatTime(w.PerformedAt),
		nullString(w.Notes), formatTime(w.CreatedAt))
	if err != nil {
		return translateError(err)
	}
	for i := range w.Exercises {
		e := &w.Exercises[i]
		e.SessionID = w.ID
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		if err := e.Validate(); err != nil {
			return err
		}
		if err := insertExercise(ctx, tx, e); err != nil {
			return err
		}
	}
	return nil
}

// ExportJSON exports the user's data as JSON.
func (d *DB) ExportJSON(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	data, err := d.GetAllData(ctx, userID)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports the user's data as YAML.
func (d *DB) ExportYAML(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	data, err := d.GetAllData(ctx, userID)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(data)
}

// ImportJSON imports data from JSON bytes.
func (d *DB) ImportJSON(ctx context.Context, userID uuid.UUID, raw []byte) error {
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}
	return d.ImportData(ctx, userID, &data)
}

// ImportYAML imports data from YAML bytes.
func (d *DB) ImportYAML(ctx context.Context, userID uuid.UUID, raw []byte) error {
	var data ExportData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("unmarshal YAML: %w", err)
	}
	return d.ImportData(ctx, userID, &data)
}

// ExportMarkdown renders the user's data as Markdown, with meal and day
// totals computed from current ingredient values. A non-empty since drops
// days and workouts before that date.
func (d *DB) ExportMarkdown(ctx context.Context, userID uuid.UUID, since models.Date) (string, error) {
	data, err := d.GetAllData(ctx, userID)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# Jacktrack Export - %s\n\n", now.Format(models.DateLayout)))
	sb.WriteString(fmt.Sprintf("User: %s\n", data.Username))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	if len(data.Ingredients) > 0 {
		sb.WriteString("## Ingredients (per 100g)\n\n")
		sb.WriteString("| Name | Calories | Protein | Carbs | Fat | Fiber |\n")
		sb.WriteString("|------|----------|---------|-------|-----|-------|\n")
		for _, ing := range data.Ingredients {
			sb.WriteString(fmt.Sprintf("| %s | %s |\n", ing.Name, macroCells(ing.Macros)))
		}
		sb.WriteString("\n")
	}

	if len(data.Meals) > 0 {
		sb.WriteString("## Meals\n\n")
		for _, m := range data.Meals {
			sb.WriteString(fmt.Sprintf("### %s\n\n", m.Name))
			if m.Instructions != nil && *m.Instructions != "" {
				sb.WriteString(*m.Instructions + "\n\n")
			}
			for _, mi := range m.Ingredients {
				sb.WriteString(fmt.Sprintf("- %g g %s\n", mi.QuantityGrams, mi.Ingredient.Name))
			}
			if len(m.Ingredients) > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(fmt.Sprintf("Totals: %s\n\n", macroSummary(m.Totals())))
		}
	}

	var days []*models.DailyLog
	for _, l := range data.DailyLogs {
		if since == "" || l.LogDate >= since {
			days = append(days, l)
		}
	}
	if len(days) > 0 {
		sb.WriteString("## Days\n\n")
		for _, l := range days {
			sb.WriteString(fmt.Sprintf("### %s\n\n", l.LogDate))
			if l.Steps != nil {
				sb.WriteString(fmt.Sprintf("- Steps: %d\n", *l.Steps))
			}
			if l.Bodyweight != nil {
				sb.WriteString(fmt.Sprintf("- Bodyweight: %.1f\n", *l.Bodyweight))
			}
			if l.Notes != nil && *l.Notes != "" {
				sb.WriteString(fmt.Sprintf("- Notes: %s\n", *l.Notes))
			}
			for _, dlm := range l.Meals {
				sb.WriteString(fmt.Sprintf("- %s x%g\n", dlm.Meal.Name, dlm.Servings))
			}
			sb.WriteString(fmt.Sprintf("\nTotals: %s\n\n", macroSummary(l.Totals())))
		}
	}

	var workouts []*models.WorkoutSession
	for _, w := range data.Workouts {
		if since == "" || models.DateOf(w.PerformedAt.Local()) >= since {
			workouts = append(workouts, w)
		}
	}
	if len(workouts) > 0 {
		sb.WriteString("## Workouts\n\n")
		sb.WriteString("| Date | Exercise | Sets | Reps | Weight |\n")
		sb.WriteString("|------|----------|------|------|--------|\n")
		for _, w := range workouts {
			date := w.PerformedAt.Local().Format("2006-01-02 15:04")
			if len(w.Exercises) == 0 {
				sb.WriteString(fmt.Sprintf("| %s | - | | | |\n", date))
			}
			for _, e := range w.Exercises {
				sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
					date, e.Name, intCell(e.Sets), intCell(e.Reps), floatCell(e.Weight)))
			}
		}
	}

	return sb.String(), nil
}

func macroCells(m models.Macros) string {
	return fmt.Sprintf("%.1f | %.1f | %.1f | %.1f | %.1f", m.Calories, m.Protein, m.Carbs, m.Fat, m.Fiber)
}

func macroSummary(m models.Macros) string {
	return fmt.Sprintf("%.1f kcal, %.1f g protein, %.1f g carbs, %.1f g fat, %.1f g fiber",
		m.Calories, m.Protein, m.Carbs, m.Fat, m.Fiber)
}

func intCell(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}

func floatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%g", *v)
}
