// internal/service/errors.go
package service

import "errors"

// Error kinds surfaced to the HTTP layer. Handlers match with errors.Is and
// translate to a status code; the wrapped message becomes the response body.
var (
	// ErrValidation covers malformed or missing input (400).
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCredentials covers failed login attempts (401).
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized covers missing, invalid, expired, or revoked tokens (401).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound covers missing resources, including resources owned by
	// another user (404).
	ErrNotFound = errors.New("not found")

	// ErrConflict covers duplicate username or email registration (409).
	ErrConflict = errors.New("already exists")
)
