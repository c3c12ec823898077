package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure. It is the only failure
	// surfaced by credential checks so callers cannot tell an unknown email
	// from a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated indicates a missing, malformed or expired session token.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrDuplicate indicates a unique constraint conflict.
	ErrDuplicate = errors.New("duplicate resource")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)
