package domain

import (
	"errors"
	"fmt"
)

var (
	// Polygon has fewer than 3 vertices.
	ErrDegeneratePolygon = errors.New("degenerate polygon: at least 3 vertices required")
	// Path has fewer than 2 vertices.
	ErrDegeneratePath = errors.New("degenerate path: at least 2 vertices required")
	// No saved site matches the requested identifier.
	ErrSiteNotFound = errors.New("site not found")
)

// ValidationError reports malformed or missing required input.
// Callers match it with errors.As and re-prompt for corrected input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

// IsValidation reports whether err wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
