// ABOUTME: Ingredient model with macros stored per 100 grams.
// ABOUTME: Names are unique within one user's library, not across users.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Ingredient is a user-owned named macro record. The embedded Macros are base
// values per 100g.
type Ingredient struct {
	ID     uuid.UUID `json:"id" yaml:"id"`
	UserID uuid.UUID `json:"user_id" yaml:"-"`
	Name   string    `json:"name" yaml:"name"`
	Macros `yaml:",inline"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// NewIngredient creates an Ingredient with a generated UUID.
func NewIngredient(userID uuid.UUID, name string, per100g Macros) *Ingredient {
	now := time.Now()
	return &Ingredient{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		Macros:    per100g,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks the name and that no macro is negative.
func (i *Ingredient) Validate() error {
	if err := validateName("ingredient name", i.Name, MaxIngredientLen); err != nil {
		return err
	}
	return i.Macros.Validate()
}

// Scale returns the macros for quantityGrams of this ingredient.
func (i *Ingredient) Scale(quantityGrams float64) Macros {
	return ScaleMacros(i.Macros, quantityGrams)
}
