// Package model defines the slot and booking entities, their persisted
// schema and the error types shared by every layer.  Handlers translate
// these errors into HTTP status codes: ErrValidation → 400,
// ErrNotFound → 404, ErrCapacity → 409 and ErrFormat → 422.
package model

import (
	"errors"
	"fmt"
)

// Sentinels matched through errors.Is by the typed errors below.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrCapacity   = errors.New("capacity exceeded")
	ErrFormat     = errors.New("invalid format")
)

// ValidationError reports malformed or out-of-range input.  Nothing was
// written.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError reports a reference to an identifier that does not exist.
type NotFoundError struct {
	Kind string // "slot" or "booking"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// CapacityError reports a booking write that would push a slot past its
// capacity.  Remaining is the number of seats that were still free for
// the write.
type CapacityError struct {
	SlotID    string
	Requested int
	Remaining int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("slot %q has %d seat(s) left, %d requested", e.SlotID, e.Remaining, e.Requested)
}

func (e *CapacityError) Is(target error) bool { return target == ErrCapacity }

// FormatError reports a stored or uploaded document that does not match
// the expected schema.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string { return "invalid format: " + e.Reason }

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// Invalid is a shorthand for a *ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Malformed is a shorthand for a *FormatError with a formatted reason.
func Malformed(format string, args ...any) error {
	return &FormatError{Reason: fmt.Sprintf(format, args...)}
}
