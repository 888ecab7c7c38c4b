// ABOUTME: Tests for WorkoutSession and WorkoutExercise models.
// ABOUTME: Validates constructors, builder methods, and positivity checks.
package models

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewWorkoutSession(t *testing.T) {
	userID := uuid.New()
	w := NewWorkoutSession(userID)

	if w.ID == uuid.Nil {
		t.Error("expected UUID to be set")
	}
	if w.UserID != userID {
		t.Errorf("UserID = %s, want %s", w.UserID, userID)
	}
	if w.PerformedAt.IsZero() {
		t.Error("expected PerformedAt to be set")
	}
}

func TestWorkoutSessionBuilders(t *testing.T) {
	at := time.Date(2025, 3, 1, 7, 30, 0, 0, time.UTC)
	w := NewWorkoutSession(uuid.New()).WithPerformedAt(at).WithNotes("leg day")

	if !w.PerformedAt.Equal(at) {
		t.Errorf("PerformedAt = %v, want %v", w.PerformedAt, at)
	}
	if w.Notes == nil || *w.Notes != "leg day" {
		t.Error("expected Notes to be 'leg day'")
	}
}

func TestNewWorkoutExercise(t *testing.T) {
	w := NewWorkoutSession(uuid.New())
	e := NewWorkoutExercise(w.ID, "  Squat ").WithSets(5).WithReps(5).WithWeight(100)

	if e.SessionID != w.ID {
		t.Error("expected SessionID to match")
	}
	if e.Name != "Squat" {
		t.Errorf("Name = %q, want Squat", e.Name)
	}
	if e.Sets == nil || *e.Sets != 5 {
		t.Error("expected Sets to be 5")
	}
	if e.Weight == nil || *e.Weight != 100 {
		t.Error("expected Weight to be 100")
	}
	if err := e.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
}

func TestWorkoutExerciseValidate(t *testing.T) {
	sessionID := uuid.New()
	tests := []struct {
		name    string
		ex      *WorkoutExercise
		wantErr bool
	}{
		{"name only", NewWorkoutExercise(sessionID, "plank"), false},
		{"empty name", NewWorkoutExercise(sessionID, "  "), true},
		{"zero sets", NewWorkoutExercise(sessionID, "row").WithSets(0), true},
		{"negative reps", NewWorkoutExercise(sessionID, "row").WithReps(-3), true},
		{"zero weight", NewWorkoutExercise(sessionID, "row").WithWeight(0), true},
		{"fractional weight", NewWorkoutExercise(sessionID, "curl").WithWeight(12.5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ex.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Errorf("Validate() = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}
