// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/mapleai/mapleai/internal/shared"
)

// ValidationError carries the request fields that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "Missing required fields"
}

// NewValidationError builds a ValidationError for the given fields.
func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// RespondError maps domain errors to HTTP responses using RFC7807.
// Unexpected errors become a bare 500: internal detail never reaches the
// client.
func RespondError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		ProblemFields(w, http.StatusBadRequest, "Missing required fields", "", verr.Fields)
	case errors.Is(err, shared.ErrInvalidCredentials):
		Problem(w, http.StatusUnauthorized, "Invalid credentials", "")
	case errors.Is(err, shared.ErrUnauthenticated):
		Problem(w, http.StatusUnauthorized, "Unauthenticated", "")
	case errors.Is(err, shared.ErrDuplicate):
		Problem(w, http.StatusBadRequest, "User already exists", "")
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", "")
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
