// Package common defines shared constants and sentinel errors used across
// client and server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("service unavailable")

	// Validation errors (caught before a request is sent where possible).
	ErrValidation = errors.New("validation error")

	// Bootstrap lifecycle errors.
	ErrAlreadyConfigured = errors.New("system already configured")
	ErrNotConfigured     = errors.New("system not configured")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// API key lifecycle errors.
	ErrTooManyKeys = errors.New("api key limit reached")
)

// AuthError carries the server's human-readable reason for a failed
// login or setup attempt. It unwraps to ErrUnauthorized so callers can
// still match with errors.Is.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	if e.Reason == "" {
		return "authentication failed"
	}
	return e.Reason
}

func (e *AuthError) Unwrap() error { return ErrUnauthorized }
