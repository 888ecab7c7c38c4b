// ABOUTME: DailyLog and DailyLogMeal models, one log per user per calendar date.
// ABOUTME: Day totals sum each attached meal's totals scaled by its servings.
package models

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the storage and display format for calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date in YYYY-MM-DD form. It sorts lexicographically.
type Date string

// ParseDate validates s and returns it as a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: invalid date %q (use YYYY-MM-DD)", ErrValidation, s)
	}
	return Date(t.Format(DateLayout)), nil
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// Today returns the current local calendar date.
func Today() Date {
	return DateOf(time.Now())
}

// Time returns midnight UTC of the date. Invalid dates yield the zero time.
func (d Date) Time() time.Time {
	t, _ := time.Parse(DateLayout, string(d))
	return t
}

// String implements fmt.Stringer.
func (d Date) String() string {
	return string(d)
}

// DailyLog is a user's record for one calendar date.
type DailyLog struct {
	ID         uuid.UUID      `json:"id" yaml:"id"`
	UserID     uuid.UUID      `json:"user_id" yaml:"-"`
	LogDate    Date           `json:"log_date" yaml:"log_date"`
	Steps      *int           `json:"steps,omitempty" yaml:"steps,omitempty"`
	Bodyweight *float64       `json:"bodyweight,omitempty" yaml:"bodyweight,omitempty"`
	Notes      *string        `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt  time.Time      `json:"created_at" yaml:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" yaml:"updated_at"`
	Meals      []DailyLogMeal `json:"meals,omitempty" yaml:"meals,omitempty"` // Populated when fetching full log
}

// NewDailyLog creates a DailyLog with a generated UUID.
func NewDailyLog(userID uuid.UUID, date Date) *DailyLog {
	now := time.Now()
	return &DailyLog{
		ID:        uuid.New(),
		UserID:    userID,
		LogDate:   date,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Totals sums each attached meal's totals multiplied by its servings.
func (l *DailyLog) Totals() Macros {
	var total Macros
	for _, dlm := range l.Meals {
		total = total.Add(dlm.Macros())
	}
	return total
}

// Validate checks the date and the optional scalar metrics.
func (l *DailyLog) Validate() error {
	if _, err := ParseDate(string(l.LogDate)); err != nil {
		return err
	}
	return DailyMetrics{Steps: l.Steps, Bodyweight: l.Bodyweight}.Validate()
}

// DailyMetrics is a partial update of a log's scalar fields. Nil fields are left unchanged.
type DailyMetrics struct {
	Steps      *int     `json:"steps,omitempty"`
	Bodyweight *float64 `json:"bodyweight,omitempty"`
	Notes      *string  `json:"notes,omitempty"`
}

// Validate checks steps >= 0 and bodyweight > 0 when they are provided.
func (dm DailyMetrics) Validate() error {
	if dm.Steps != nil && *dm.Steps < 0 {
		return fmt.Errorf("%w: steps must not be negative (got %d)", ErrValidation, *dm.Steps)
	}
	if dm.Bodyweight != nil {
		if math.IsNaN(*dm.Bodyweight) || math.IsInf(*dm.Bodyweight, 0) || *dm.Bodyweight <= 0 {
			return fmt.Errorf("%w: bodyweight must be greater than 0 (got %g)", ErrValidation, *dm.Bodyweight)
		}
	}
	return nil
}

// Apply copies the provided fields onto l.
func (dm DailyMetrics) Apply(l *DailyLog) {
	if dm.Steps != nil {
		steps := *dm.Steps
		l.Steps = &steps
	}
	if dm.Bodyweight != nil {
		bw := *dm.Bodyweight
		l.Bodyweight = &bw
	}
	if dm.Notes != nil {
		notes := *dm.Notes
		l.Notes = &notes
	}
}

// DailyLogMeal attaches a saved meal to a day with a serving multiplier.
type DailyLogMeal struct {
	ID         uuid.UUID `json:"id" yaml:"id"`
	DailyLogID uuid.UUID `json:"daily_log_id" yaml:"-"`
	MealID     uuid.UUID `json:"meal_id" yaml:"meal_id"`
	Servings   float64   `json:"servings" yaml:"servings"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
	Meal       *Meal     `json:"meal,omitempty" yaml:"-"`
}

// NewDailyLogMeal creates an attachment with a generated UUID.
func NewDailyLogMeal(dailyLogID, mealID uuid.UUID, servings float64) *DailyLogMeal {
	return &DailyLogMeal{
		ID:         uuid.New(),
		DailyLogID: dailyLogID,
		MealID:     mealID,
		Servings:   servings,
		CreatedAt:  time.Now(),
	}
}

// Macros returns the attached meal's totals multiplied by servings.
func (dlm *DailyLogMeal) Macros() Macros {
	if dlm.Meal == nil {
		return Macros{}
	}
	return dlm.Meal.Totals().Mul(dlm.Servings)
}
