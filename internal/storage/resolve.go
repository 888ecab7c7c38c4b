// ABOUTME: ID prefix resolution and ownership checks shared by all entities.
// ABOUTME: Prefixes only match the caller's own rows; full UUIDs pass straight through.
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

// Kind names an entity type for prefix resolution.
type Kind string

const (
	KindIngredient      Kind = "ingredient"
	KindMeal            Kind = "meal"
	KindDailyLog        Kind = "daily log"
	KindWorkoutSession  Kind = "workout"
	KindWorkoutExercise Kind = "exercise"
)

// prefixQueries finds the caller's IDs starting with a prefix, per kind.
var prefixQueries = map[Kind]string{
	KindIngredient:     `SELECT id FROM ingredients WHERE user_id = ? AND id LIKE ? || '%'`,
	KindMeal:           `SELECT id FROM meals WHERE user_id = ? AND id LIKE ? || '%'`,
	KindDailyLog:       `SELECT id FROM daily_logs WHERE user_id = ? AND id LIKE ? || '%'`,
	KindWorkoutSession: `SELECT id FROM workout_sessions WHERE user_id = ? AND id LIKE ? || '%'`,
	KindWorkoutExercise: `
		SELECT e.id FROM workout_exercises e
		JOIN workout_sessions s ON s.id = e.workout_session_id
		WHERE s.user_id = ? AND e.id LIKE ? || '%'`,
}

// ResolveID finds the full ID from a prefix.
func (d *DB) ResolveID(ctx context.Context, userID uuid.UUID, kind Kind, idOrPrefix string) (uuid.UUID, error) {
	// If it looks like a full UUID, use it directly
	if len(idOrPrefix) == 36 && strings.Count(idOrPrefix, "-") == 4 {
		id, err := uuid.Parse(idOrPrefix)
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: invalid %s id %q", models.ErrValidation, kind, idOrPrefix)
		}
		return id, nil
	}

	query, ok := prefixQueries[kind]
	if !ok {
		return uuid.Nil, fmt.Errorf("resolve ID: unknown kind %q", kind)
	}
	if idOrPrefix == "" || strings.ContainsAny(idOrPrefix, "%_") {
		return uuid.Nil, notFound(string(kind), idOrPrefix)
	}

	rows, err := d.db.QueryContext(ctx, query, userID.String(), strings.ToLower(idOrPrefix))
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolve %s ID: %w", kind, err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return uuid.Nil, fmt.Errorf("scan %s ID: %w", kind, err)
		}
		matches = append(matches, id)
	}
	if err := rows.Err(); err != nil {
		return uuid.Nil, fmt.Errorf("resolve %s ID: %w", kind, err)
	}

	if len(matches) == 0 {
		return uuid.Nil, notFound(string(kind), idOrPrefix)
	}
	if len(matches) > 1 {
		return uuid.Nil, fmt.Errorf("%w %s: matches multiple %s records", models.ErrAmbiguous, idOrPrefix, kind)
	}

	return uuid.Parse(matches[0])
}

// ownerOf returns the owning user of a row in a user-scoped table.
func ownerOf(ctx context.Context, q querier, table string, kind Kind, id uuid.UUID) (uuid.UUID, error) {
	var owner string
	err := q.QueryRowContext(ctx, "SELECT user_id FROM "+table+" WHERE id = ?", id.String()).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, notFound(string(kind), id.String())
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("look up %s: %w", kind, err)
	}
	return uuid.Parse(owner)
}

// authorize fails unless the row exists and belongs to userID.
func authorize(ctx context.Context, q querier, table string, kind Kind, userID, id uuid.UUID) error {
	owner, err := ownerOf(ctx, q, table, kind, id)
	if err != nil {
		return err
	}
	if owner != userID {
		return forbidden(string(kind), id.String())
	}
	return nil
}

// requireUser fails with ErrNotFound unless the user row exists.
func requireUser(ctx context.Context, q querier, userID uuid.UUID) error {
	var one int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id = ?", userID.String()).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound("user", userID.String())
	}
	if err != nil {
		return fmt.Errorf("look up user: %w", err)
	}
	return nil
}

// timeLayout is fixed-width so stored timestamps sort lexicographically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
