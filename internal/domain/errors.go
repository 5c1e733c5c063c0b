package domain

import (
	"errors"
	"fmt"
)

// ValidationError is returned for bad input before any I/O happens
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// AuthError is a user-visible authentication failure
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// NetworkError wraps a failed remote call
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

var (
	ErrUsernameTaken      = &AuthError{Message: "username taken"}
	ErrInvalidCredentials = &AuthError{Message: "invalid credentials"}

	ErrNotFound     = errors.New("not found")
	ErrInvalidIndex = &ValidationError{Message: "invalid index"}
)

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNetwork reports whether err came from a failed remote call
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
