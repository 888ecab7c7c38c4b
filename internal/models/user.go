// ABOUTME: User model, the identity anchor that owns every other record.
// ABOUTME: Deleting a user removes their ingredients, meals, logs, and workouts.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User owns an ingredient library, meals, daily logs, and workout sessions.
type User struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	Username  string    `json:"username" yaml:"username"`
	Email     string    `json:"email" yaml:"email"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// NewUser creates a User with a generated UUID.
func NewUser(username, email string) *User {
	return &User{
		ID:        uuid.New(),
		Username:  strings.TrimSpace(username),
		Email:     strings.TrimSpace(email),
		CreatedAt: time.Now(),
	}
}

// Validate checks the username and email fields.
func (u *User) Validate() error {
	if err := validateName("username", u.Username, MaxUsernameLen); err != nil {
		return err
	}
	if err := validateName("email", u.Email, MaxEmailLen); err != nil {
		return err
	}
	if !strings.Contains(u.Email, "@") {
		return fmt.Errorf("%w: email %q is not an address", ErrValidation, u.Email)
	}
	return nil
}
