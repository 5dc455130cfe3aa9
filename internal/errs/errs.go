// Package errs holds the sentinel errors shared by the store, service and
// transport layers. Handlers map them to HTTP status codes with errors.Is.
package errs

import "errors"

var (
	// ErrValidation marks a request with a missing required field.
	ErrValidation = errors.New("missing fields in the request")

	// ErrInvalidCredentials is returned for an unknown username and for a wrong
	// password alike, so callers cannot tell the two apart.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUnauthenticated means no bearer token was presented.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden covers a token that fails verification and a caller acting
	// on a note written by someone else.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a unique constraint violation (email or username taken).
	ErrConflict = errors.New("email or username already exists")
)

// ValidationError carries per-field details for an ErrValidation failure.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return ErrValidation.Error() }

func (e *ValidationError) Unwrap() error { return ErrValidation }
