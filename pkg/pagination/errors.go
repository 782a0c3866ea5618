package pagination

import (
	"errors"
	"fmt"
)

// Validation failures. Wrapped in *ValidationError, so match with errors.Is.
var (
	ErrAmbiguousCursor = errors.New("ambiguous cursor")
	ErrInvalidLimit    = errors.New("invalid limit")
	ErrInvalidOrder    = errors.New("invalid order")
)

// ValidationError is a client fault in the pagination request
type ValidationError struct {
	Err    error
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Err, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(err error, format string, args ...any) *ValidationError {
	return &ValidationError{Err: err, Reason: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err came from request validation
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
