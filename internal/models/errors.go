package models

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks input that was rejected before any write happened.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound means no record matched the requested key.
	ErrNotFound = errors.New("not found")

	// ErrIndexOutOfRange is returned for positional deletes past the end of a collection.
	ErrIndexOutOfRange = fmt.Errorf("index out of range: %w", ErrNotFound)

	// ErrCorruptData means a persisted collection exists but cannot be parsed.
	ErrCorruptData = errors.New("corrupt data")

	// ErrPermissionDenied means the session role may not use the feature.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInsufficientData means an analytic needs more samples than are available.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrTransportFailure means a notification could not be delivered.
	ErrTransportFailure = errors.New("transport failure")

	// ErrInvalidRange is returned when a date range starts after it ends.
	ErrInvalidRange = fmt.Errorf("start date must be before end date: %w", ErrValidation)
)

// ValidationError names the offending field of a rejected record.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError returns a ValidationError for field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
