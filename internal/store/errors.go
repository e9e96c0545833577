package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced task ID does not exist.
// This is an expected occurrence (stale IDs from a prior session), so
// callers should test for it with errors.Is rather than treat it as fatal.
var ErrNotFound = errors.New("task not found")

// ValidationError reports caller-supplied data that fails a precondition.
// The operation is aborted with no partial write.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// invalidf builds a ValidationError for the given field.
func invalidf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}
