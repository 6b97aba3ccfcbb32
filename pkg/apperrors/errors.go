package apperrors

import (
	"errors"
	"fmt"
)

// ErrorType classifies application errors for transport mapping
type ErrorType string

const (
	// ErrorTypeValidation indicates missing or malformed request fields
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeSlotConflict indicates the provider is already booked for the slot
	ErrorTypeSlotConflict ErrorType = "SLOT_CONFLICT"

	// ErrorTypeIllegalTransition indicates a booking status transition outside the legal set
	ErrorTypeIllegalTransition ErrorType = "ILLEGAL_TRANSITION"

	// ErrorTypeNotFound indicates a referenced record does not exist
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeTransient indicates storage was unavailable; safe to retry
	ErrorTypeTransient ErrorType = "TRANSIENT"
)

// AppError carries a type, a caller-safe message, and an optional wrapped cause
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(message string) *AppError {
	return &AppError{Type: ErrorTypeValidation, Message: message}
}

func NewSlotConflictError(message string) *AppError {
	return &AppError{Type: ErrorTypeSlotConflict, Message: message}
}

func NewIllegalTransitionError(message string) *AppError {
	return &AppError{Type: ErrorTypeIllegalTransition, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Type: ErrorTypeNotFound, Message: message}
}

// NewTransientError wraps a storage failure. The wrapped cause is for logs
// only and must never reach the response body.
func NewTransientError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeTransient, Message: message, Err: err}
}

// IsType reports whether err is an AppError of the given type
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// TypeOf returns the error type, or empty string for non-application errors
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}
