// ABOUTME: Shared field validators for names, quantities, and optional numbers.
// ABOUTME: Every failure wraps ErrValidation so callers can classify it.
package models

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// Column limits carried over from the relational schema.
const (
	MaxUsernameLen   = 150
	MaxEmailLen      = 120
	MaxIngredientLen = 100
	MaxMealNameLen   = 200
	MaxExerciseLen   = 200
)

// validateName rejects blank names and names longer than max characters.
func validateName(field, value string, max int) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrValidation, field)
	}
	if utf8.RuneCountInString(value) > max {
		return fmt.Errorf("%w: %s must be at most %d characters", ErrValidation, field, max)
	}
	return nil
}

// validatePositive rejects zero, negative, and non-finite values.
func validatePositive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be a finite number", ErrValidation, field)
	}
	if v <= 0 {
		return fmt.Errorf("%w: %s must be greater than 0 (got %g)", ErrValidation, field, v)
	}
	return nil
}

// ValidateQuantity checks a meal ingredient quantity in grams.
func ValidateQuantity(grams float64) error {
	return validatePositive("quantity_grams", grams)
}

// ValidateServings checks a serving multiplier for a logged meal.
func ValidateServings(servings float64) error {
	return validatePositive("servings", servings)
}
