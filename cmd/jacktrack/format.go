// ABOUTME: Output and parsing helpers shared by CLI commands.
// ABOUTME: Covers short IDs, padding, macro lines, dates, and timestamps.
package main

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/harperreed/jacktrack/internal/models"
)

var (
	faint   = color.New(color.Faint)
	bold    = color.New(color.Bold)
	success = color.New(color.FgGreen)
	warn    = color.New(color.FgYellow)
)

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

// truncate and padRight count runes, not bytes.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

func padRight(s string, length int) string {
	n := utf8.RuneCountInString(s)
	if n >= length {
		return s
	}
	return s + strings.Repeat(" ", length-n)
}

// macroLine renders macros as "247.5 kcal  P 46.5  C 0.0  F 5.4  Fb 0.0".
func macroLine(m models.Macros) string {
	return fmt.Sprintf("%.1f kcal  P %.1f  C %.1f  F %.1f  Fb %.1f",
		m.Calories, m.Protein, m.Carbs, m.Fat, m.Fiber)
}

// parseDay accepts YYYY-MM-DD, "today", "yesterday", or empty for today.
func parseDay(s string) (models.Date, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return models.Today(), nil
	case "yesterday":
		return models.DateOf(time.Now().AddDate(0, 0, -1)), nil
	}
	return models.ParseDate(s)
}

// parseTime parses a timestamp in several common formats, in local time.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid time %q (use YYYY-MM-DD HH:MM)", models.ErrValidation, s)
}

func printOK(w io.Writer, format string, args ...any) {
	success.Fprintf(w, "✓ "+format+"\n", args...)
}

func printRemoved(w io.Writer, format string, args ...any) {
	warn.Fprintf(w, "✗ "+format+"\n", args...)
}
