package domain

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when no user matches the requested id.
var ErrNotFound = errors.New("user not found")

// FieldViolation names one field that failed a constraint.
type FieldViolation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError reports every constraint a request violated.
type ValidationError struct {
	Violations []FieldViolation
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Violations: []FieldViolation{{Field: field, Reason: reason}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Reason)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
