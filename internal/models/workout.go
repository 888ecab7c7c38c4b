// ABOUTME: WorkoutSession and WorkoutExercise models for strength tracking.
// ABOUTME: Sessions own their exercises; sets, reps, and weight are optional but positive.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// WorkoutSession represents one training session.
type WorkoutSession struct {
	ID          uuid.UUID         `json:"id" yaml:"id"`
	UserID      uuid.UUID         `json:"user_id" yaml:"-"`
	PerformedAt time.Time         `json:"performed_at" yaml:"performed_at"`
	Notes       *string           `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt   time.Time         `json:"created_at" yaml:"created_at"`
	Exercises   []WorkoutExercise `json:"exercises,omitempty" yaml:"exercises,omitempty"` // Populated when fetching full session
}

// NewWorkoutSession creates a session performed now.
func NewWorkoutSession(userID uuid.UUID) *WorkoutSession {
	now := time.Now()
	return &WorkoutSession{
		ID:          uuid.New(),
		UserID:      userID,
		PerformedAt: now,
		CreatedAt:   now,
	}
}

// WithPerformedAt sets a custom performed_at timestamp.
func (w *WorkoutSession) WithPerformedAt(t time.Time) *WorkoutSession {
	w.PerformedAt = t
	return w
}

// WithNotes sets notes on the session.
func (w *WorkoutSession) WithNotes(notes string) *WorkoutSession {
	w.Notes = &notes
	return w
}

// WorkoutExercise is one movement inside a session.
type WorkoutExercise struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	SessionID uuid.UUID `json:"workout_session_id" yaml:"-"`
	Name      string    `json:"name" yaml:"name"`
	Sets      *int      `json:"sets,omitempty" yaml:"sets,omitempty"`
	Reps      *int      `json:"reps,omitempty" yaml:"reps,omitempty"`
	Weight    *float64  `json:"weight,omitempty" yaml:"weight,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// NewWorkoutExercise creates an exercise for the given session.
func NewWorkoutExercise(sessionID uuid.UUID, name string) *WorkoutExercise {
	return &WorkoutExercise{
		ID:        uuid.New(),
		SessionID: sessionID,
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now(),
	}
}

// WithSets sets the number of sets.
func (e *WorkoutExercise) WithSets(sets int) *WorkoutExercise {
	e.Sets = &sets
	return e
}

// WithReps sets the reps per set.
func (e *WorkoutExercise) WithReps(reps int) *WorkoutExercise {
	e.Reps = &reps
	return e
}

// WithWeight sets the load.
func (e *WorkoutExercise) WithWeight(weight float64) *WorkoutExercise {
	e.Weight = &weight
	return e
}

// Validate checks the name and that any provided number is positive.
func (e *WorkoutExercise) Validate() error {
	if err := validateName("exercise name", e.Name, MaxExerciseLen); err != nil {
		return err
	}
	if e.Sets != nil {
		if err := validatePositive("sets", float64(*e.Sets)); err != nil {
			return err
		}
	}
	if e.Reps != nil {
		if err := validatePositive("reps", float64(*e.Reps)); err != nil {
			return err
		}
	}
	if e.Weight != nil {
		if err := validatePositive("weight", *e.Weight); err != nil {
			return err
		}
	}
	return nil
}
