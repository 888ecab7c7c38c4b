// ABOUTME: Tests for DailyLog dates and metric validation.
// ABOUTME: Covers ParseDate, DailyMetrics.Validate, and partial Apply.
package models

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		want    Date
		wantErr bool
	}{
		{"2025-01-31", "2025-01-31", false},
		{"2024-02-29", "2024-02-29", false},
		{"2025-02-29", "", true},
		{"31-01-2025", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Errorf("ParseDate(%q) = %v, want ErrValidation", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestDailyMetricsValidate(t *testing.T) {
	ptrInt := func(v int) *int { return &v }
	ptrFloat := func(v float64) *float64 { return &v }

	tests := []struct {
		name    string
		dm      DailyMetrics
		wantErr bool
	}{
		{"nothing provided", DailyMetrics{}, false},
		{"zero steps", DailyMetrics{Steps: ptrInt(0)}, false},
		{"negative steps", DailyMetrics{Steps: ptrInt(-5)}, true},
		{"positive bodyweight", DailyMetrics{Bodyweight: ptrFloat(82.4)}, false},
		{"zero bodyweight", DailyMetrics{Bodyweight: ptrFloat(0)}, true},
		{"negative bodyweight", DailyMetrics{Bodyweight: ptrFloat(-70)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.dm.Validate()
			if tt.wantErr && !errors.Is(err, ErrValidation) {
				t.Errorf("Validate() = %v, want ErrValidation", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestDailyMetricsApplyIsPartial(t *testing.T) {
	steps := 9000
	notes := "rest day"
	log := NewDailyLog(uuid.New(), "2025-01-31")
	log.Steps = &steps
	log.Notes = &notes

	bw := 81.9
	DailyMetrics{Bodyweight: &bw}.Apply(log)

	if log.Steps == nil || *log.Steps != 9000 {
		t.Errorf("Steps changed unexpectedly: %v", log.Steps)
	}
	if log.Notes == nil || *log.Notes != "rest day" {
		t.Errorf("Notes changed unexpectedly: %v", log.Notes)
	}
	if log.Bodyweight == nil || *log.Bodyweight != 81.9 {
		t.Errorf("Bodyweight = %v, want 81.9", log.Bodyweight)
	}
}
