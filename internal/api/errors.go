package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/taskwell/taskwell-api/internal/api/shared"
	"github.com/taskwell/taskwell-api/internal/store"
)

// ValidationError is returned when a request payload fails validation.
// It enumerates every offending field so the client can fix them all at once.
// Validation errors never reach the store layer.
type ValidationError struct {
	Fields []shared.FieldError
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Reason))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest

	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Pool exhaustion or a cancelled acquisition surfaces as a service-level
	// failure, never as a client error.
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable

	// Integrity violations indicate a bug or outage and must fail loudly.
	case store.IsIntegrityError(err):
		return http.StatusInternalServerError

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message based
// on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		return "Validation error"

	case store.IsNotFoundError(err):
		return "Task not found"

	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return "Service temporarily unavailable"

	default:
		return "An unexpected error occurred"
	}
}
