// ABOUTME: Tests for macro arithmetic and the meal/day roll-ups.
// ABOUTME: Covers scaling by grams, zero cases, and the chicken breast scenario.
package models

import (
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
)

const epsilon = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= epsilon*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func macrosApproxEqual(a, b Macros) bool {
	return approxEqual(a.Calories, b.Calories) &&
		approxEqual(a.Protein, b.Protein) &&
		approxEqual(a.Carbs, b.Carbs) &&
		approxEqual(a.Fat, b.Fat) &&
		approxEqual(a.Fiber, b.Fiber)
}

func chickenBreast(userID uuid.UUID) *Ingredient {
	return NewIngredient(userID, "Chicken Breast", Macros{Calories: 165, Protein: 31, Carbs: 0, Fat: 3.6, Fiber: 0})
}

func TestIngredientScale(t *testing.T) {
	oats := NewIngredient(uuid.New(), "Oats", Macros{Calories: 389, Protein: 16.9, Carbs: 66.3, Fat: 6.9, Fiber: 10.6})

	grams := []float64{0, 1, 37.5, 100, 150, 0.25, 1234.5}
	for _, g := range grams {
		got := oats.Scale(g)
		want := Macros{
			Calories: oats.Calories * g / 100,
			Protein:  oats.Protein * g / 100,
			Carbs:    oats.Carbs * g / 100,
			Fat:      oats.Fat * g / 100,
			Fiber:    oats.Fiber * g / 100,
		}
		if !macrosApproxEqual(got, want) {
			t.Errorf("Scale(%g) = %+v, want %+v", g, got, want)
		}
	}
}

func TestIngredientScaleZero(t *testing.T) {
	got := chickenBreast(uuid.New()).Scale(0)
	if !got.IsZero() {
		t.Errorf("Scale(0) = %+v, want all zeros", got)
	}
}

func TestMacrosValidate(t *testing.T) {
	tests := []struct {
		name    string
		m       Macros
		wantErr bool
	}{
		{"all zero", Macros{}, false},
		{"typical", Macros{Calories: 52, Protein: 0.3, Carbs: 14, Fat: 0.2, Fiber: 2.4}, false},
		{"negative calories", Macros{Calories: -1}, true},
		{"negative fiber", Macros{Fiber: -0.1}, true},
		{"NaN fat", Macros{Fat: math.NaN()}, true},
		{"infinite carbs", Macros{Carbs: math.Inf(1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.m.Validate()
			if tt.wantErr && !errors.Is(err, ErrValidation) {
				t.Errorf("Validate() = %v, want ErrValidation", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestMealTotals(t *testing.T) {
	userID := uuid.New()
	rice := NewIngredient(userID, "Rice", Macros{Calories: 130, Protein: 2.7, Carbs: 28, Fat: 0.3, Fiber: 0.4})
	chicken := chickenBreast(userID)

	meal := NewMeal(userID, "Lunch")
	if !meal.Totals().IsZero() {
		t.Errorf("empty meal totals = %+v, want zeros", meal.Totals())
	}

	meal.Ingredients = []MealIngredient{
		{IngredientID: chicken.ID, QuantityGrams: 150, Ingredient: chicken},
		{IngredientID: rice.ID, QuantityGrams: 200, Ingredient: rice},
	}

	want := chicken.Scale(150).Add(rice.Scale(200))
	if got := meal.Totals(); !macrosApproxEqual(got, want) {
		t.Errorf("Totals() = %+v, want %+v", got, want)
	}

	// Reading totals must not change anything.
	first := meal.Totals()
	second := meal.Totals()
	if first != second {
		t.Errorf("Totals() not idempotent: %+v then %+v", first, second)
	}
}

func TestDailyLogTotals(t *testing.T) {
	userID := uuid.New()
	chicken := chickenBreast(userID)
	lunch := NewMeal(userID, "Lunch")
	lunch.Ingredients = []MealIngredient{{IngredientID: chicken.ID, QuantityGrams: 150, Ingredient: chicken}}

	log := NewDailyLog(userID, "2025-01-15")
	if !log.Totals().IsZero() {
		t.Errorf("empty day totals = %+v, want zeros", log.Totals())
	}

	log.Meals = []DailyLogMeal{{MealID: lunch.ID, Servings: 2, Meal: lunch}}
	got := log.Totals()
	want := lunch.Totals().Mul(2)
	if !macrosApproxEqual(got, want) {
		t.Errorf("Totals() = %+v, want %+v", got, want)
	}
}

func TestChickenBreastScenario(t *testing.T) {
	userID := uuid.New()
	chicken := chickenBreast(userID)

	scaled := chicken.Scale(150)
	if !approxEqual(scaled.Calories, 247.5) {
		t.Errorf("scaled calories = %v, want 247.5", scaled.Calories)
	}
	if !approxEqual(scaled.Protein, 46.5) {
		t.Errorf("scaled protein = %v, want 46.5", scaled.Protein)
	}

	lunch := NewMeal(userID, "Lunch")
	lunch.Ingredients = []MealIngredient{{IngredientID: chicken.ID, QuantityGrams: 150, Ingredient: chicken}}
	if got := lunch.Totals(); !macrosApproxEqual(got, scaled) {
		t.Errorf("meal totals = %+v, want %+v", got, scaled)
	}

	day := NewDailyLog(userID, "2025-01-15")
	day.Meals = []DailyLogMeal{{MealID: lunch.ID, Servings: 2, Meal: lunch}}
	totals := day.Totals()
	if !approxEqual(totals.Calories, 495) {
		t.Errorf("day calories = %v, want 495", totals.Calories)
	}
	if !approxEqual(totals.Protein, 93) {
		t.Errorf("day protein = %v, want 93", totals.Protein)
	}
}

func TestValidateQuantityAndServings(t *testing.T) {
	for _, v := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if err := ValidateQuantity(v); !errors.Is(err, ErrValidation) {
			t.Errorf("ValidateQuantity(%v) = %v, want ErrValidation", v, err)
		}
		if err := ValidateServings(v); !errors.Is(err, ErrValidation) {
			t.Errorf("ValidateServings(%v) = %v, want ErrValidation", v, err)
		}
	}
	if err := ValidateQuantity(0.5); err != nil {
		t.Errorf("ValidateQuantity(0.5) unexpected error: %v", err)
	}
	if err := ValidateServings(1.5); err != nil {
		t.Errorf("ValidateServings(1.5) unexpected error: %v", err)
	}
}
