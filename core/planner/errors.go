package planner

import (
	"errors"
	"fmt"
)

// Error kinds returned by the planner. Callers match them with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrStore      = errors.New("store failure")
)

// Errors reported by Store implementations. The service translates them into
// one of the kinds above depending on the operation.
var (
	// ErrDuplicate indicates a primary key or unique constraint violation.
	ErrDuplicate = errors.New("duplicate key")
	// ErrReferenced indicates a foreign key constraint violation.
	ErrReferenced = errors.New("referenced record")
)

// NotFoundError reports a missing entity of the given kind.
func NotFoundError(entity, id string) error {
	return fmt.Errorf("%s %q: %w", entity, id, ErrNotFound)
}

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

func classified(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrStore)
}

// storeError marks any unclassified failure as a store failure.
func storeError(err error) error {
	if err == nil || classified(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStore, err)
}

// Outcome names the error kind of err for metrics labels.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return "store"
	}
}
