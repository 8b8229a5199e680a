package service

import (
	"errors"
	"fmt"
)

var (
	// ErrPermission is returned when the acting user lacks rights for an operation.
	ErrPermission = errors.New("permission denied")
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("not found")
)

// ValidationError captures field-level validation issues that callers can
// surface to users. It is always terminal for the triggering request.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil || len(v.FieldErrors) == 0 {
		return "validation failed"
	}
	for field, msg := range v.FieldErrors {
		return fmt.Sprintf("validation failed: %s: %s", field, msg)
	}
	return "validation failed"
}

func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// HasErrors reports whether any field-level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// ConflictError reports an overlapping confirmed reservation. It carries the
// id of the reservation that holds the room so callers can render a message.
type ConflictError struct {
	WithReservationID uint
}

// Error implements the error interface.
func (c *ConflictError) Error() string {
	return fmt.Sprintf("room is already booked for the selected time range (reservation %d)", c.WithReservationID)
}

// IsValidation reports whether err is a field-level validation failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsConflict reports whether err is a reservation conflict.
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}
