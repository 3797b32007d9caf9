// Package common defines shared constants and sentinel errors used across
// the server and client layers of sold.bd. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal  = errors.New("internal error")
	ErrUnavailable = errors.New("service unavailable")
	ErrConflict    = errors.New("conflict")

	// Validation errors. Concrete failures are *InputError values.
	ErrInvalidInput = errors.New("invalid input")

	// Auth errors. Messages are deliberately generic.
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidToken        = errors.New("invalid token")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")

	// Startup errors.
	ErrConfiguration = errors.New("configuration error")

	// Optional integrations that have not been set up by an operator.
	ErrNotConfigured = errors.New("not configured")
)

// InputError describes a rejected request field. It matches ErrInvalidInput.
type InputError struct {
	Field  string
	Reason string
}

// NewInputError returns an *InputError for field with a human readable reason.
func NewInputError(field, reason string) *InputError {
	return &InputError{Field: field, Reason: reason}
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is reports ErrInvalidInput as a match so callers can stay on sentinels.
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}
