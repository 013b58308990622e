package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced post, group or user does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrForbidden is returned when the acting user does not own the record they mutate.
	ErrForbidden = errors.New("forbidden")
	// ErrConstraintViolation is returned when a uniqueness constraint rejects a write,
	// such as a duplicate group slug or a duplicate follow edge.
	ErrConstraintViolation = errors.New("constraint violation")
)

// ValidationError reports malformed or out-of-bounds input for a single field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
