package systm

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated is returned when an operation needs a session token
	// and none is held. Distinct from an upstream rejection.
	ErrNotAuthenticated = errors.New("not authenticated, call Authenticate first")

	// ErrWorkoutNotFound is returned when a workout cannot be resolved by
	// workout id nor by library content id.
	ErrWorkoutNotFound = errors.New("workout not found")
)

// APIError is any failure talking to the SYSTM API: transport-level
// (non-200, timeout, malformed body) or GraphQL-level (errors array).
type APIError struct {
	Message string
	// StatusCode is the HTTP status, 0 when the failure happened before
	// or instead of an HTTP response (timeout, network error).
	StatusCode int
	// Timeout marks a request that hit the configured client timeout.
	Timeout bool
	// GraphQL marks a well-formed 200 response carrying a GraphQL error.
	GraphQL bool
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

// AuthenticationError means the upstream rejected the login itself, as
// opposed to a generic API failure. Callers can prompt for re-auth instead
// of retrying blindly.
type AuthenticationError struct {
	Message string
	Err     error
}

func (e *AuthenticationError) Error() string {
	return "authentication failed: " + e.Message
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}
