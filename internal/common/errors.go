// Package common defines shared constants and sentinel errors used across
// todokeeper components. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound            = errors.New("not found")
	ErrorDuplicateIdentifier = errors.New("identifier already taken")
	ErrorStoreUnavailable    = errors.New("store unavailable")

	// Service-level errors.
	ErrorValidation         = errors.New("validation error")
	ErrorInvalidCredentials = errors.New("invalid credentials")
	ErrorUnauthorized       = errors.New("unauthorized")

	// Auth errors (invalid, tampered or expired token).
	ErrInvalidToken = errors.New("invalid token")
)

// ValidationError reports which input field was rejected and why.
// It matches ErrorValidation via errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrorValidation, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrorValidation }

// NewValidationError is a shorthand for &ValidationError{...}.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// StoreError wraps a driver failure so that it matches ErrorStoreUnavailable
// while keeping the original cause in the chain.
func StoreError(err error) error {
	return fmt.Errorf("%w: db error: %w", ErrorStoreUnavailable, err)
}
