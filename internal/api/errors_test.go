package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taskwell/taskwell-api/internal/api/shared"
	"github.com/taskwell/taskwell-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "validation_error",
			err:  &ValidationError{Fields: []shared.FieldError{{Field: "content", Reason: "required field"}}},
			want: http.StatusBadRequest,
		},
		{
			name: "task_not_found",
			err:  store.ErrTaskNotFound,
			want: http.StatusNotFound,
		},
		{
			name: "wrapped_not_found",
			err:  fmt.Errorf("loading task: %w", store.ErrTaskNotFound),
			want: http.StatusNotFound,
		},
		{
			name: "integrity_error",
			err:  fmt.Errorf("%w: column mismatch", store.ErrIntegrity),
			want: http.StatusInternalServerError,
		},
		{
			name: "pool_acquisition_timeout",
			err:  fmt.Errorf("failed to acquire database connection: %w", context.DeadlineExceeded),
			want: http.StatusServiceUnavailable,
		},
		{
			name: "unknown_error",
			err:  errors.New("boom"),
			want: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Task not found", GetSafeErrorMessage(store.ErrTaskNotFound))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(errors.New("internal detail")))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	assert.Equal(t, "Service temporarily unavailable", GetSafeErrorMessage(context.Canceled))
}

func TestValidationErrorMessage(t *testing.T) {
	t.Parallel()

	err := &ValidationError{Fields: []shared.FieldError{
		{Field: "task_id", Reason: "required field"},
		{Field: "owner", Reason: "unexpected field"},
	}}
	assert.Equal(t, "validation failed: task_id: required field; owner: unexpected field", err.Error())
}
