// ABOUTME: Meal template and MealIngredient join rows.
// ABOUTME: Meal totals are the sum of each row's ingredient scaled to its grams.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Meal is a named, reusable composition of a user's ingredients.
type Meal struct {
	ID           uuid.UUID        `json:"id" yaml:"id"`
	UserID       uuid.UUID        `json:"user_id" yaml:"-"`
	Name         string           `json:"name" yaml:"name"`
	Instructions *string          `json:"instructions,omitempty" yaml:"instructions,omitempty"`
	CreatedAt    time.Time        `json:"created_at" yaml:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at" yaml:"updated_at"`
	Ingredients  []MealIngredient `json:"ingredients,omitempty" yaml:"ingredients,omitempty"` // Populated when fetching full meal
}

// NewMeal creates a Meal with a generated UUID.
func NewMeal(userID uuid.UUID, name string) *Meal {
	now := time.Now()
	return &Meal{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WithInstructions sets preparation instructions on the meal.
func (m *Meal) WithInstructions(instructions string) *Meal {
	m.Instructions = &instructions
	return m
}

// Validate checks the meal name.
func (m *Meal) Validate() error {
	return validateName("meal name", m.Name, MaxMealNameLen)
}

// Totals sums the scaled macros of every ingredient row. Rows whose
// Ingredient is not loaded contribute nothing.
func (m *Meal) Totals() Macros {
	var total Macros
	for _, mi := range m.Ingredients {
		total = total.Add(mi.Macros())
	}
	return total
}

// MealIngredient says "this many grams of this ingredient are in this meal".
type MealIngredient struct {
	ID            uuid.UUID   `json:"id" yaml:"id"`
	MealID        uuid.UUID   `json:"meal_id" yaml:"-"`
	IngredientID  uuid.UUID   `json:"ingredient_id" yaml:"ingredient_id"`
	QuantityGrams float64     `json:"quantity_grams" yaml:"quantity_grams"`
	CreatedAt     time.Time   `json:"created_at" yaml:"created_at"`
	Ingredient    *Ingredient `json:"ingredient,omitempty" yaml:"-"`
}

// NewMealIngredient creates a join row with a generated UUID.
func NewMealIngredient(mealID, ingredientID uuid.UUID, quantityGrams float64) *MealIngredient {
	return &MealIngredient{
		ID:            uuid.New(),
		MealID:        mealID,
		IngredientID:  ingredientID,
		QuantityGrams: quantityGrams,
		CreatedAt:     time.Now(),
	}
}

// Macros returns the ingredient's macros scaled to this row's quantity.
func (mi *MealIngredient) Macros() Macros {
	if mi.Ingredient == nil {
		return Macros{}
	}
	return mi.Ingredient.Scale(mi.QuantityGrams)
}
