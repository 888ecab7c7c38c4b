// ABOUTME: Macro values and the pure arithmetic used by meal and day roll-ups.
// ABOUTME: Ingredient macros are per 100g; totals are always recomputed, never stored.
package models

import (
	"fmt"
	"math"
)

// Macros holds the tracked nutritional quantities. Calories are kcal, the rest grams.
type Macros struct {
	Calories float64 `json:"calories" yaml:"calories"`
	Protein  float64 `json:"protein" yaml:"protein"`
	Carbs    float64 `json:"carbs" yaml:"carbs"`
	Fat      float64 `json:"fat" yaml:"fat"`
	Fiber    float64 `json:"fiber" yaml:"fiber"`
}

// Add returns the field-wise sum of m and o.
func (m Macros) Add(o Macros) Macros {
	return Macros{
		Calories: m.Calories + o.Calories,
		Protein:  m.Protein + o.Protein,
		Carbs:    m.Carbs + o.Carbs,
		Fat:      m.Fat + o.Fat,
		Fiber:    m.Fiber + o.Fiber,
	}
}

// Mul returns m with every field multiplied by factor.
func (m Macros) Mul(factor float64) Macros {
	return Macros{
		Calories: m.Calories * factor,
		Protein:  m.Protein * factor,
		Carbs:    m.Carbs * factor,
		Fat:      m.Fat * factor,
		Fiber:    m.Fiber * factor,
	}
}

// IsZero reports whether every field is zero.
func (m Macros) IsZero() bool {
	return m == Macros{}
}

// Validate checks that every field is a finite, non-negative number.
func (m Macros) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"calories", m.Calories},
		{"protein", m.Protein},
		{"carbs", m.Carbs},
		{"fat", m.Fat},
		{"fiber", m.Fiber},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be a finite number", ErrValidation, f.name)
		}
		if f.value < 0 {
			return fmt.Errorf("%w: %s must not be negative (got %g)", ErrValidation, f.name, f.value)
		}
	}
	return nil
}

// ScaleMacros converts per-100g base values to the values for the given grams.
// Fractional grams are fine; zero grams yields all zeros.
func ScaleMacros(per100g Macros, grams float64) Macros {
	return per100g.Mul(grams / 100.0)
}
