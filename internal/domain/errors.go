package domain

import "fmt"

// ValidationError reports malformed input rejected before any side effect:
// a bad type code, an unknown activity type, a contradictory axis score.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for a field.
// Parameters:
//   - field: name of the offending field.
//   - format: reason format string.
//   - args: format arguments.
// Returns:
//   - *ValidationError: constructed error.
func NewValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
