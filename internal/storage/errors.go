// ABOUTME: Translation of SQLite constraint failures into model error kinds.
// ABOUTME: Unique -> conflict, check/not null -> validation, foreign key -> referential integrity.
package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/jacktrack/internal/models"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// translateError maps a constraint failure to the matching model error and
// passes every other error through unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return err
	}
	// Primary code is the low byte, whether or not extended codes are on.
	if se.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
		return err
	}

	msg := se.Error()
	switch {
	case strings.Contains(msg, "UNIQUE"), strings.Contains(msg, "PRIMARY KEY"):
		return fmt.Errorf("%w: %s", models.ErrConflict, msg)
	case strings.Contains(msg, "FOREIGN KEY"):
		return fmt.Errorf("%w: %s", models.ErrReferentialIntegrity, msg)
	case strings.Contains(msg, "CHECK"), strings.Contains(msg, "NOT NULL"):
		return fmt.Errorf("%w: %s", models.ErrValidation, msg)
	default:
		return fmt.Errorf("%w: %s", models.ErrConflict, msg)
	}
}

// duplicateNameAsValidation reports a unique violation on a per-user name as
// ErrValidation. Other unique violations, such as an ID clash, stay ErrConflict.
func duplicateNameAsValidation(err error, kind, name string) error {
	var se *sqlite.Error
	if errors.As(err, &se) && strings.Contains(se.Error(), kind+"s.name") {
		return fmt.Errorf("%w: %s %q already exists", models.ErrValidation, kind, name)
	}
	return translateError(err)
}

// notFound builds an ErrNotFound for the given kind and identifier.
func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", models.ErrNotFound, kind, id)
}

// forbidden builds an ErrAuthorization for the given kind and identifier.
func forbidden(kind, id string) error {
	return fmt.Errorf("%w: %s %s belongs to another user", models.ErrAuthorization, kind, id)
}
