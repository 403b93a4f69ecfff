// Package apperr defines the error kinds shared by services and mapped to HTTP statuses by handlers.
package apperr

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrInvalidToken      = errors.New("invalid token")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrUnsupportedMethod = errors.New("unsupported method")
)

// Error carries a user-facing message for one of the kinds above.
type Error struct {
	kind error
	msg  string
}

// New creates an error of the given kind with a user-facing message.
func New(kind error, format string, args ...interface{}) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.kind
}

// ValidationError represents user-facing validation issues.
type ValidationError struct {
	msg     string
	Details []string
}

func (e ValidationError) Error() string {
	return e.msg
}

// NewValidationError creates a new validation error.
func NewValidationError(format string, args ...interface{}) error {
	return ValidationError{msg: fmt.Sprintf(format, args...)}
}

// NewValidationErrors creates a validation error listing every failed rule.
func NewValidationErrors(msg string, details []string) error {
	return ValidationError{msg: msg, Details: details}
}

// StorageError reports a failed write against a persistent store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
