package application

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound          = errors.New("application not found")
	ErrDocumentNotFound  = errors.New("document not found")
	ErrForbidden         = errors.New("actor is not allowed to perform this action")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAlreadyReviewed   = errors.New("this application was already reviewed")
	ErrUnsupportedMedia  = errors.New("unsupported document media type")
	ErrPayloadTooLarge   = errors.New("document exceeds the size limit")
)

// FieldViolation names the offending field so callers can correct the request.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every field-level problem found in a request.
// It is built fully before being returned, so a caller sees all violations
// at once instead of fixing them one by one.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s %s", v.Field, v.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Add(field, message string) {
	e.Violations = append(e.Violations, FieldViolation{Field: field, Message: message})
}

// Errored reports whether any violation has been recorded.
func (e *ValidationError) Errored() bool { return len(e.Violations) > 0 }
