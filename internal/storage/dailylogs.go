// ABOUTME: Daily log operations for SQLite storage: metrics and meal attachments.
// ABOUTME: One log per user per date; day totals are recomputed from meals on every read.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/jacktrack/internal/models"
)

const dailyLogColumns = `id, user_id, log_date, steps, bodyweight, notes, created_at, updated_at`

// GetOrCreateDailyLog returns the caller's log for date, creating it if needed.
// Concurrent callers for the same date all receive the same row.
func (d *DB) GetOrCreateDailyLog(ctx context.Context, userID uuid.UUID, date models.Date) (*models.DailyLog, error) {
	if _, err := models.ParseDate(string(date)); err != nil {
		return nil, fmt.Errorf("get or create daily log: %w", err)
	}

	var log *models.DailyLog
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireUser(ctx, tx, userID); err != nil {
			return err
		}
		fresh := models.NewDailyLog(userID, date)
		_, err := tx.ExecContext(ctx, `
			INSERT INTO daily_logs (id, user_id, log_date, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (user_id, log_date) DO NOTHING`,
			fresh.ID.String(), userID.String(), string(date),
			formatTime(fresh.CreatedAt), formatTime(fresh.UpdatedAt))
		if err != nil {
			return translateError(err)
		}
		log, err = getDailyLogByDate(ctx, tx, userID, date)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get or create daily log: %w", err)
	}
	return log, nil
}

// GetDailyLog retrieves the caller's log for a date with its attached meals.
func (d *DB) GetDailyLog(ctx context.Context, userID uuid.UUID, date models.Date) (*models.DailyLog, error) {
	if _, err := models.ParseDate(string(date)); err != nil {
		return nil, err
	}
	return getDailyLogByDate(ctx, d.db, userID, date)
}

// GetDailyLogByID retrieves a log by ID with its attached meals.
func (d *DB) GetDailyLogByID(ctx context.Context, userID, id uuid.UUID) (*models.DailyLog, error) {
	return getDailyLogByID(ctx, d.db, userID, id)
}

// ListDailyLogs returns the caller's logs, newest date first, with attached meals.
func (d *DB) ListDailyLogs(ctx context.Context, userID uuid.UUID, filter DailyLogFilter) ([]*models.DailyLog, error) {
	query := `SELECT ` + dailyLogColumns + ` FROM daily_logs WHERE user_id = ?`
	args := []any{userID.String()}
	if filter.From != "" {
		query += " AND log_date >= ?"
		args = append(args, string(filter.From))
	}
	if filter.To != "" {
		query += " AND log_date <= ?"
		args = append(args, string(filter.To))
	}
	query += " ORDER BY log_date DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list daily logs: %w", err)
	}

	var logs []*models.DailyLog
	for rows.Next() {
		l, err := scanDailyLog(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("list daily logs: %w", err)
	}
	rows.Close()

	for _, l := range logs {
		l.Meals, err = loadDailyLogMeals(ctx, d.db, l.ID)
		if err != nil {
			return nil, err
		}
	}
	return logs, nil
}

// UpdateDailyLogMetrics applies the provided fields and leaves the rest untouched.
func (d *DB) UpdateDailyLogMetrics(ctx context.Context, userID, logID uuid.UUID, metrics models.DailyMetrics) (*models.DailyLog, error) {
	if err := metrics.Validate(); err != nil {
		return nil, fmt.Errorf("update daily log metrics: %w", err)
	}

	var log *models.DailyLog
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		current, err := getDailyLogByID(ctx, tx, userID, logID)
		if err != nil {
			return err
		}
		metrics.Apply(current)
		current.UpdatedAt = time.Now()

		var steps sql.NullInt64
		if current.Steps != nil {
			steps = sql.NullInt64{Int64: int64(*current.Steps), Valid: true}
		}
		var bodyweight sql.NullFloat64
		if current.Bodyweight != nil {
			bodyweight = sql.NullFloat64{Float64: *current.Bodyweight, Valid: true}
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE daily_logs SET steps = ?, bodyweight = ?, notes = ?, updated_at = ?
			WHERE id = ?`,
			steps, bodyweight, nullString(current.Notes), formatTime(current.UpdatedAt), logID.String())
		if err != nil {
			return translateError(err)
		}
		log = current
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update daily log metrics: %w", err)
	}
	return log, nil
}

// AttachMeal adds a meal to a day. A meal can be attached to a day only once;
// change the servings of an existing attachment with UpdateServings.
func (d *DB) AttachMeal(ctx context.Context, userID, logID, mealID uuid.UUID, servings float64) (*models.DailyLogMeal, error) {
	if err := models.ValidateServings(servings); err != nil {
		return nil, fmt.Errorf("attach meal: %w", err)
	}

	dlm := models.NewDailyLogMeal(logID, mealID, servings)
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		if err := authorize(ctx, tx, "daily_logs", KindDailyLog, userID, logID); err != nil {
			return err
		}
		owner, err := ownerOf(ctx, tx, "meals", KindMeal, mealID)
		if err != nil {
			return err
		}
		if owner != userID {
			return fmt.Errorf("%w: meal %s belongs to another user", models.ErrOwnership, mealID)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO daily_log_meals (id, daily_log_id, meal_id, servings, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			dlm.ID.String(), logID.String(), mealID.String(), servings, formatTime(dlm.CreatedAt))
		if err != nil {
			err = translateError(err)
			if errors.Is(err, models.ErrConflict) {
				return fmt.Errorf("%w: meal %s is already logged on this day", models.ErrConflict, mealID)
			}
			return err
		}
		if err := touchDailyLog(ctx, tx, logID); err != nil {
			return err
		}

		dlm.Meal, err = getMeal(ctx, tx, userID, mealID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("attach meal: %w", err)
	}
	return dlm, nil
}

// UpdateServings changes the serving multiplier of an attached meal.
func (d *DB) UpdateServings(ctx context.Context, userID, logID, mealID uuid.UUID, servings float64) error {
	if err := models.ValidateServings(servings); err != nil {
		return fmt.Errorf("update servings: %w", err)
	}

	err := d.withTx(ctx, func(tx *sql.Tx) error {
		if err := authorize(ctx, tx, "daily_logs", KindDailyLog, userID, logID); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, `
			UPDATE daily_log_meals SET servings = ? WHERE daily_log_id = ? AND meal_id = ?`,
			servings, logID.String(), mealID.String())
		if err != nil {
			return translateError(err)
		}
		if err := requireAffected(result, "logged meal", mealID.String()); err != nil {
			return err
		}
		return touchDailyLog(ctx, tx, logID)
	})
	if err != nil {
		return fmt.Errorf("update servings: %w", err)
	}
	return nil
}

// DetachMeal removes a meal from a day.
func (d *DB) DetachMeal(ctx context.Context, userID, logID, mealID uuid.UUID) error {
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		if err := authorize(ctx, tx, "daily_logs", KindDailyLog, userID, logID); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx,
			"DELETE FROM daily_log_meals WHERE daily_log_id = ? AND meal_id = ?",
			logID.String(), mealID.String())
		if err != nil {
			return translateError(err)
		}
		if err := requireAffected(result, "logged meal", mealID.String()); err != nil {
			return err
		}
		return touchDailyLog(ctx, tx, logID)
	})
	if err != nil {
		return fmt.Errorf("detach meal: %w", err)
	}
	return nil
}

// DeleteDailyLog removes a log and its meal attachments.
func (d *DB) DeleteDailyLog(ctx context.Context, userID, logID uuid.UUID) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		if err := authorize(ctx, tx, "daily_logs", KindDailyLog, userID, logID); err != nil {
			return fmt.Errorf("delete daily log: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM daily_logs WHERE id = ?", logID.String()); err != nil {
			return fmt.Errorf("delete daily log: %w", translateError(err))
		}
		return nil
	})
}

// DailyTotals computes a day's macros from its attached meals as they are now.
func (d *DB) DailyTotals(ctx context.Context, userID, logID uuid.UUID) (models.Macros, error) {
	l, err := d.GetDailyLogByID(ctx, userID, logID)
	if err != nil {
		return models.Macros{}, fmt.Errorf("daily totals: %w", err)
	}
	return l.Totals(), nil
}

func getDailyLogByDate(ctx context.Context, q querier, userID uuid.UUID, date models.Date) (*models.DailyLog, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+dailyLogColumns+` FROM daily_logs WHERE user_id = ? AND log_date = ?`,
		userID.String(), string(date))
	l, err := scanDailyLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(string(KindDailyLog), string(date))
	}
	if err != nil {
		return nil, err
	}
	l.Meals, err = loadDailyLogMeals(ctx, q, l.ID)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func getDailyLogByID(ctx context.Context, q querier, userID, id uuid.UUID) (*models.DailyLog, error) {
	row := q.QueryRowContext(ctx, `SELECT `+dailyLogColumns+` FROM daily_logs WHERE id = ?`, id.String())
	l, err := scanDailyLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(string(KindDailyLog), id.String())
	}
	if err != nil {
		return nil, err
	}
	if l.UserID != userID {
		return nil, forbidden(string(KindDailyLog), id.String())
	}
	l.Meals, err = loadDailyLogMeals(ctx, q, l.ID)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// loadDailyLogMeals returns a log's attachments with each meal fully loaded.
func loadDailyLogMeals(ctx context.Context, q querier, logID uuid.UUID) ([]models.DailyLogMeal, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT dlm.id, dlm.meal_id, dlm.servings, dlm.created_at,
		       m.user_id, m.name, m.instructions, m.created_at, m.updated_at
		FROM daily_log_meals dlm
		JOIN meals m ON m.id = dlm.meal_id
		WHERE dlm.daily_log_id = ?
		ORDER BY dlm.created_at, dlm.id`, logID.String())
	if err != nil {
		return nil, fmt.Errorf("load logged meals: %w", err)
	}

	var attached []models.DailyLogMeal
	for rows.Next() {
		var dlm models.DailyLogMeal
		var meal models.Meal
		var dlmID, mealID, dlmCreated, mealUser, mealCreated, mealUpdated string
		var instructions sql.NullString
		if err := rows.Scan(&dlmID, &mealID, &dlm.Servings, &dlmCreated,
			&mealUser, &meal.Name, &instructions, &mealCreated, &mealUpdated); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan logged meal: %w", err)
		}
		dlm.ID, _ = uuid.Parse(dlmID)
		dlm.DailyLogID = logID
		dlm.MealID, _ = uuid.Parse(mealID)
		dlm.CreatedAt = parseTime(dlmCreated)
		meal.ID = dlm.MealID
		meal.UserID, _ = uuid.Parse(mealUser)
		meal.Instructions = stringPtr(instructions)
		meal.CreatedAt = parseTime(mealCreated)
		meal.UpdatedAt = parseTime(mealUpdated)
		dlm.Meal = &meal
		attached = append(attached, dlm)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("load logged meals: %w", err)
	}
	rows.Close()

	for i := range attached {
		attached[i].Meal.Ingredients, err = loadMealIngredients(ctx, q, attached[i].MealID)
		if err != nil {
			return nil, err
		}
	}
	return attached, nil
}

func touchDailyLog(ctx context.Context, q querier, logID uuid.UUID) error {
	_, err := q.ExecContext(ctx, "UPDATE daily_logs SET updated_at = ? WHERE id = ?",
		formatTime(time.Now()), logID.String())
	if err != nil {
		return fmt.Errorf("touch daily log: %w", err)
	}
	return nil
}

func scanDailyLog(row rowScanner) (*models.DailyLog, error) {
	var l models.DailyLog
	var idStr, userIDStr, date, createdAt, updatedAt string
	var steps sql.NullInt64
	var bodyweight sql.NullFloat64
	var notes sql.NullString
	if err := row.Scan(&idStr, &userIDStr, &date, &steps, &bodyweight, &notes, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan daily log: %w", err)
	}
	l.ID, _ = uuid.Parse(idStr)
	l.UserID, _ = uuid.Parse(userIDStr)
	l.LogDate = models.Date(date)
	if steps.Valid {
		s := int(steps.Int64)
		l.Steps = &s
	}
	if bodyweight.Valid {
		bw := bodyweight.Float64
		l.Bodyweight = &bw
	}
	l.Notes = stringPtr(notes)
	l.CreatedAt = parseTime(createdAt)
	l.UpdatedAt = parseTime(updatedAt)
	return &l, nil
}
