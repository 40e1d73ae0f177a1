package booking

import (
	"errors"
	"fmt"
)

// Rejection codes surfaced to callers.
const (
	CodeMissingField = "MissingField"
	CodeInvalidEmail = "InvalidEmail"
	CodeInvalidDate  = "InvalidDate"
	CodeInvalidStart = "InvalidStart"
	CodeNotASlot     = "NotASlot"
	CodeSlotTaken    = "SlotTaken"
	CodeNotFound     = "NotFound"
)

// ValidationError is malformed or missing input, detected before any mutation.
type ValidationError struct {
	Code    string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ConflictError means the requested slot is already booked.
type ConflictError struct {
	Start string
	Err   error
}

func (e *ConflictError) Error() string {
	return "This time slot is no longer available"
}

func (e *ConflictError) Unwrap() error { return e.Err }

// NotFoundError is an unknown booking id.
type NotFoundError struct {
	ID  string
	Err error
}

func (e *NotFoundError) Error() string {
	return "Booking not found"
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// PersistenceError is a store failure; the request is aborted with no partial state.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsPersistence(err error) bool {
	var target *PersistenceError
	return errors.As(err, &target)
}

// ValidationCode returns the rejection code of a validation error, or "".
func ValidationCode(err error) string {
	var target *ValidationError
	if errors.As(err, &target) {
		return target.Code
	}
	return ""
}
