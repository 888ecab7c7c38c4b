// ABOUTME: Error kinds surfaced by the tracker's data layer.
// ABOUTME: Callers wrap these with fmt.Errorf and test them with errors.Is.
package models

import "errors"

var (
	// ErrValidation means a field-level constraint was violated: a negative macro,
	// a non-positive quantity or serving count, or a duplicate name in a user's library.
	ErrValidation = errors.New("validation failed")

	// ErrReferentialIntegrity means a delete was blocked by an existing shared reference.
	ErrReferentialIntegrity = errors.New("still referenced")

	// ErrConflict means a unique constraint rejected a write, e.g. attaching a meal
	// to a day twice.
	ErrConflict = errors.New("conflict")

	// ErrOwnership means an operation would link records owned by different users.
	ErrOwnership = errors.New("ownership mismatch")

	// ErrAuthorization means the caller does not own the record it asked for.
	ErrAuthorization = errors.New("not authorized")

	// ErrNotFound means no record matched.
	ErrNotFound = errors.New("not found")

	// ErrAmbiguous means an ID prefix matched more than one record.
	ErrAmbiguous = errors.New("ambiguous prefix")
)
