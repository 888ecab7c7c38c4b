// ABOUTME: WorkoutSession and WorkoutExercise CRUD operations for SQLite storage.
// ABOUTME: Implements Repository interface methods for workouts with cascade delete.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/jacktrack/internal/models"
)

// CreateWorkoutSession stores a new session and any exercises already on it.
func (d *DB) CreateWorkoutSession(ctx context.Context, w *models.WorkoutSession) error {
	for i := range w.Exercises {
		w.Exercises[i].SessionID = w.ID
		if err := w.Exercises[i].Validate(); err != nil {
			return fmt.Errorf("create workout: %w", err)
		}
	}

	return d.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireUser(ctx, tx, w.UserID); err != nil {
			return fmt.Errorf("create workout: %w", err)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO workout_sessions (id, user_id, performed_at, notes, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			w.ID.String(), w.UserID.String(), formatTime(w.PerformedAt),
			nullString(w.Notes), formatTime(w.CreatedAt))
		if err != nil {
			return fmt.Errorf("create workout: %w", translateError(err))
		}
		for i := range w.Exercises {
			if err := insertExercise(ctx, tx, &w.Exercises[i]); err != nil {
				return fmt.Errorf("create workout: %w", err)
			}
		}
		return nil
	})
}

// GetWorkoutSession retrieves a session with its exercises.
func (d *DB) GetWorkoutSession(ctx context.Context, userID, id uuid.UUID) (*models.WorkoutSession, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT id, user_id, performed_at, notes, created_at
		FROM workout_sessions WHERE id = ?`, id.String())
	w, err := scanWorkoutSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(string(KindWorkoutSession), id.String())
	}
	if err != nil {
		return nil, err
	}
	if w.UserID != userID {
		return nil, forbidden(string(KindWorkoutSession), id.String())
	}

	w.Exercises, err = listExercises(ctx, d.db, w.ID)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// ListWorkoutSessions retrieves the caller's sessions, most recent first.
func (d *DB) ListWorkoutSessions(ctx context.Context, userID uuid.UUID, limit int) ([]*models.WorkoutSession, error) {
	query := `
		SELECT id, user_id, performed_at, notes, created_at
		FROM workout_sessions
		WHERE user_id = ?
		ORDER BY performed_at DESC`
	args := []any{userID.String()}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	var sessions []*models.WorkoutSession
	for rows.Next() {
		w, err := scanWorkoutSession(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		sessions = append(sessions, w)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	rows.Close()

	for _, w := range sessions {
		w.Exercises, err = listExercises(ctx, d.db, w.ID)
		if err != nil {
			return nil, err
		}
	}
	return sessions, nil
}

// AddWorkoutExercise appends an exercise to one of the caller's sessions.
func (d *DB) AddWorkoutExercise(ctx context.Context, userID uuid.UUID, e *models.WorkoutExercise) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("add exercise: %w", err)
	}

	return d.withTx(ctx, func(tx *sql.Tx) error {
		if err := authorize(ctx, tx, "workout_sessions", KindWorkoutSession, userID, e.SessionID); err != nil {
			return fmt.Errorf("add exercise: %w", err)
		}
		if err := insertExercise(ctx, tx, e); err != nil {
			return fmt.Errorf("add exercise: %w", err)
		}
		return nil
	})
}

// RemoveWorkoutExercise deletes one exercise from a session. An exercise that
// belongs to a different session is not found.
func (d *DB) RemoveWorkoutExercise(ctx context.Context, userID, sessionID, exerciseID uuid.UUID) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		if err := authorize(ctx, tx, "workout_sessions", KindWorkoutSession, userID, sessionID); err != nil {
			return fmt.Errorf("remove exercise: %w", err)
		}
		var owner string
		err := tx.QueryRowContext(ctx, `
			SELECT s.user_id FROM workout_exercises e
			JOIN workout_sessions s ON s.id = e.workout_session_id
			WHERE e.id = ? AND e.workout_session_id = ?`, exerciseID.String(), sessionID.String()).Scan(&owner)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("remove exercise: %w", notFound(string(KindWorkoutExercise), exerciseID.String()))
		}
		if err != nil {
			return fmt.Errorf("remove exercise: %w", err)
		}
		if owner != userID.String() {
			return fmt.Errorf("remove exercise: %w", forbidden(string(KindWorkoutExercise), exerciseID.String()))
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM workout_exercises WHERE id = ?", exerciseID.String()); err != nil {
			return fmt.Errorf("remove exercise: %w", translateError(err))
		}
		return nil
	})
}

// DeleteWorkoutSession removes a session and all its exercises (cascade delete).
func (d *DB) DeleteWorkoutSession(ctx context.Context, userID, id uuid.UUID) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		if err := authorize(ctx, tx, "workout_sessions", KindWorkoutSession, userID, id); err != nil {
			return fmt.Errorf("delete workout: %w", err)
		}
		// CASCADE is enabled, so deleting the session deletes its exercises
		if _, err := tx.ExecContext(ctx, "DELETE FROM workout_sessions WHERE id = ?", id.String()); err != nil {
			return fmt.Errorf("delete workout: %w", translateError(err))
		}
		return nil
	})
}

func insertExercise(ctx context.Context, q querier, e *models.WorkoutExercise) error {
	var sets, reps sql.NullInt64
	if e.Sets != nil {
		sets = sql.NullInt64{Int64: int64(*e.Sets), Valid: true}
	}
	if e.Reps != nil {
		reps = sql.NullInt64{Int64: int64(*e.Reps), Valid: true}
	}
	var weight sql.NullFloat64
	if e.Weight != nil {
		weight = sql.NullFloat64{Float64: *e.Weight, Valid: true}
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO workout_exercises (id, workout_session_id, name, sets, reps, weight, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(), e.SessionID.String(), e.Name, sets, reps, weight, formatTime(e.CreatedAt))
	return translateError(err)
}

func listExercises(ctx context.Context, q querier, sessionID uuid.UUID) ([]models.WorkoutExercise, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, workout_session_id, name, sets, reps, weight, created_at
		FROM workout_exercises
		WHERE workout_session_id = ?
		ORDER BY created_at ASC, id`, sessionID.String())
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	var exercises []models.WorkoutExercise
	for rows.Next() {
		var e models.WorkoutExercise
		var idStr, sessionStr, createdAt string
		var sets, reps sql.NullInt64
		var weight sql.NullFloat64
		if err := rows.Scan(&idStr, &sessionStr, &e.Name, &sets, &reps, &weight, &createdAt); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		e.ID, _ = uuid.Parse(idStr)
		e.SessionID, _ = uuid.Parse(sessionStr)
		e.CreatedAt = parseTime(createdAt)
		if sets.Valid {
			s := int(sets.Int64)
			e.Sets = &s
		}
		if reps.Valid {
			r := int(reps.Int64)
			e.Reps = &r
		}
		if weight.Valid {
			wt := weight.Float64
			e.Weight = &wt
		}
		exercises = append(exercises, e)
	}
	return exercises, rows.Err()
}

func scanWorkoutSession(row rowScanner) (*models.WorkoutSession, error) {
	var w models.WorkoutSession
	var idStr, userIDStr, performedAt, createdAt string
	var notes sql.NullString
	if err := row.Scan(&idStr, &userIDStr, &performedAt, &notes, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan workout: %w", err)
	}
	w.ID, _ = uuid.Parse(idStr)
	w.UserID, _ = uuid.Parse(userIDStr)
	w.PerformedAt = parseTime(performedAt)
	w.Notes = stringPtr(notes)
	w.CreatedAt = parseTime(createdAt)
	return &w, nil
}
