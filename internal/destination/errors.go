package destination

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a mutation references an unknown id.
// The UI treats it as a silent no-op.
var ErrNotFound = errors.New("destination not found")

// ErrValidation is the sentinel every *ValidationError unwraps to.
var ErrValidation = errors.New("validation error")

// ValidationError reports the first field that failed validation so forms can
// render the message next to the offending input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
