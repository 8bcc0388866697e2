package api

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCreateTaskRequest(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		req, vErr := ParseCreateTaskRequest(url.Values{"content": {"abc"}})
		require.Nil(t, vErr)
		assert.Equal(t, "abc", req.Content)
	})

	t.Run("missing_content", func(t *testing.T) {
		_, vErr := ParseCreateTaskRequest(url.Values{})
		require.NotNil(t, vErr)
		require.Len(t, vErr.Fields, 1)
		assert.Equal(t, "content", vErr.Fields[0].Field)
		assert.Equal(t, "required field", vErr.Fields[0].Reason)
	})

	t.Run("unknown_field", func(t *testing.T) {
		_, vErr := ParseCreateTaskRequest(url.Values{"content": {"abc"}, "status": {"Done"}})
		require.NotNil(t, vErr)
		require.Len(t, vErr.Fields, 1)
		assert.Equal(t, "status", vErr.Fields[0].Field)
		assert.Equal(t, "unexpected field", vErr.Fields[0].Reason)
	})

	t.Run("empty_content_is_valid", func(t *testing.T) {
		// Presence of the key is what counts; an empty value is a valid task.
		req, vErr := ParseCreateTaskRequest(url.Values{"content": {""}})
		require.Nil(t, vErr)
		assert.Equal(t, "", req.Content)
	})
}

func TestParseUpdateTaskRequest(t *testing.T) {
	t.Parallel()

	t.Run("valid_content_only", func(t *testing.T) {
		req, vErr := ParseUpdateTaskRequest(url.Values{"task_id": {"3"}, "content": {"xyz"}})
		require.Nil(t, vErr)
		assert.Equal(t, int64(3), req.TaskID)
		require.NotNil(t, req.Content)
		assert.Equal(t, "xyz", *req.Content)
		assert.Nil(t, req.Status)
	})

	t.Run("valid_status_with_space", func(t *testing.T) {
		req, vErr := ParseUpdateTaskRequest(url.Values{"task_id": {"3"}, "status": {"In progress"}})
		require.Nil(t, vErr)
		require.NotNil(t, req.Status)
		assert.Equal(t, "In progress", *req.Status)
	})

	t.Run("valid_both", func(t *testing.T) {
		req, vErr := ParseUpdateTaskRequest(url.Values{
			"task_id": {"7"}, "status": {"Done"}, "content": {"xyz"},
		})
		require.Nil(t, vErr)
		assert.NotNil(t, req.Status)
		assert.NotNil(t, req.Content)
	})

	t.Run("task_id_alone_has_nothing_to_update", func(t *testing.T) {
		_, vErr := ParseUpdateTaskRequest(url.Values{"task_id": {"3"}})
		require.NotNil(t, vErr)
		require.Len(t, vErr.Fields, 1)
		assert.Contains(t, vErr.Fields[0].Reason, "at least one of status or content")
	})

	t.Run("missing_task_id", func(t *testing.T) {
		_, vErr := ParseUpdateTaskRequest(url.Values{"content": {"xyz"}})
		require.NotNil(t, vErr)
		assert.Equal(t, "task_id", vErr.Fields[0].Field)
		assert.Equal(t, "required field", vErr.Fields[0].Reason)
	})

	t.Run("zero_task_id_passes_validation", func(t *testing.T) {
		// Zero parses as an integer and reaches the store lookup, which
		// reports it as not found; validation does not reject it.
		req, vErr := ParseUpdateTaskRequest(url.Values{"task_id": {"0"}, "content": {"xyz"}})
		require.Nil(t, vErr)
		assert.Equal(t, int64(0), req.TaskID)
	})

	t.Run("non_integer_task_id", func(t *testing.T) {
		_, vErr := ParseUpdateTaskRequest(url.Values{"task_id": {"abc"}, "content": {"xyz"}})
		require.NotNil(t, vErr)
		assert.Equal(t, "task_id", vErr.Fields[0].Field)
		assert.Equal(t, "must be an integer", vErr.Fields[0].Reason)
	})

	t.Run("unrecognized_status", func(t *testing.T) {
		_, vErr := ParseUpdateTaskRequest(url.Values{"task_id": {"3"}, "status": {"Blocked"}})
		require.NotNil(t, vErr)
		require.Len(t, vErr.Fields, 1)
		assert.Equal(t, "status", vErr.Fields[0].Field)
		assert.Contains(t, vErr.Fields[0].Reason, "must be one of")
	})

	t.Run("unknown_field", func(t *testing.T) {
		_, vErr := ParseUpdateTaskRequest(url.Values{
			"task_id": {"3"}, "content": {"xyz"}, "owner": {"me"},
		})
		require.NotNil(t, vErr)
		require.Len(t, vErr.Fields, 1)
		assert.Equal(t, "owner", vErr.Fields[0].Field)
	})

	t.Run("multiple_failures_all_reported", func(t *testing.T) {
		_, vErr := ParseUpdateTaskRequest(url.Values{
			"task_id": {"abc"}, "status": {"Blocked"}, "owner": {"me"},
		})
		require.NotNil(t, vErr)
		assert.Len(t, vErr.Fields, 3)
	})
}
