// ABOUTME: User CRUD operations for SQLite storage.
// ABOUTME: Deleting a user cascades to everything they own.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/jacktrack/internal/models"
)

// CreateUser stores a new user. Username and email must both be unused.
func (d *DB) CreateUser(ctx context.Context, u *models.User) error {
	if err := u.Validate(); err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	if err := insertUser(ctx, d.db, u); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func insertUser(ctx context.Context, q querier, u *models.User) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO users (id, username, email, created_at)
		VALUES (?, ?, ?, ?)`,
		u.ID.String(), u.Username, u.Email, formatTime(u.CreatedAt))
	return translateError(err)
}

// GetUser retrieves a user by ID.
func (d *DB) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT id, username, email, created_at FROM users WHERE id = ?`, id.String())
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("user", id.String())
	}
	return u, err
}

// GetUserByUsername retrieves a user by username.
func (d *DB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT id, username, email, created_at FROM users WHERE username = ?`, username)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("user", username)
	}
	return u, err
}

// ListUsers returns every user ordered by username.
func (d *DB) ListUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, username, email, created_at FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// DeleteUser removes a user and, through CASCADE, all of their data.
func (d *DB) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id.String())
		if err != nil {
			return fmt.Errorf("delete user: %w", translateError(err))
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if affected == 0 {
			return notFound("user", id.String())
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var idStr, createdAt string
	if err := row.Scan(&idStr, &u.Username, &u.Email, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.ID, _ = uuid.Parse(idStr)
	u.CreatedAt = parseTime(createdAt)
	return &u, nil
}
