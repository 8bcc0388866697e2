// Package api provides HTTP handlers for the API.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/taskwell/taskwell-api/internal/api/shared"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/platform/logger"
	"github.com/taskwell/taskwell-api/internal/store"
)

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	tasks  store.TaskStore
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks store.TaskStore, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}

	return &TaskHandler{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_handler")),
	}
}

// ListTasks handles GET /tasks requests. It returns every task keyed by id,
// or an empty JSON object when the table is empty.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	records, err := h.tasks.GetAll(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("listed tasks", slog.Int("count", len(records)))
	shared.RespondWithJSON(w, r, http.StatusOK, taskCollection(records))
}

// taskCollection serializes tasks keyed by id in ascending numeric order.
// encoding/json sorts integer map keys by their string form, which would put
// "10" before "2".
type taskCollection map[int64]store.Record

func (c taskCollection) MarshalJSON() ([]byte, error) {
	ids := make([]int64, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range ids {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strconv.FormatInt(id, 10))
		buf.WriteString(`":`)
		rec, err := json.Marshal(c[id])
		if err != nil {
			return nil, err
		}
		buf.Write(rec)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// CreateTask handles POST /tasks requests. The form body must contain exactly
// one field, content; on success the new task's id is returned as plain text.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	if err := r.ParseForm(); err != nil {
		log.Warn("malformed form body", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Malformed form body")
		return
	}

	req, vErr := ParseCreateTaskRequest(r.PostForm)
	if vErr != nil {
		log.Warn("create task validation failed", slog.String("error", vErr.Error()))
		shared.RespondWithFieldErrors(w, r, http.StatusBadRequest,
			"The request body should contain only 1 parameter - content", vErr.Fields)
		return
	}

	task, err := domain.CreateTask(r.Context(), h.tasks)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if err := task.SetContent(r.Context(), req.Content); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("task created", slog.Int64("task_id", task.ID()))
	shared.RespondWithText(w, r, http.StatusCreated, strconv.FormatInt(task.ID(), 10))
}

// GetTask handles GET /tasks/{id} requests, returning the full task record.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := h.pathTaskID(w, r)
	if !ok {
		return
	}

	rec, err := h.tasks.Get(r.Context(), id)
	if errors.Is(err, store.ErrTaskNotFound) {
		shared.RespondWithError(w, r, http.StatusNotFound,
			fmt.Sprintf("Task with id %d NOT FOUND", id))
		return
	}
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("task fetched", slog.Int64("task_id", id))
	shared.RespondWithJSON(w, r, http.StatusOK, rec)
}

// DeleteTask handles DELETE /tasks/{id} requests. The task is loaded first so
// a missing id yields 404 rather than a silent no-op delete.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := h.pathTaskID(w, r)
	if !ok {
		return
	}

	task, err := domain.LoadTask(r.Context(), h.tasks, id)
	if errors.Is(err, store.ErrTaskNotFound) {
		shared.RespondWithError(w, r, http.StatusNotFound,
			fmt.Sprintf("Task with id %d NOT FOUND", id))
		return
	}
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if err := task.Delete(r.Context()); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("task deleted", slog.Int64("task_id", id))
	shared.RespondWithText(w, r, http.StatusOK,
		fmt.Sprintf("Task with id %d DELETED", id))
}

// UpdateTask handles PUT /tasks requests. The form body must contain task_id
// and at least one of status/content; content is applied before status.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	if err := r.ParseForm(); err != nil {
		log.Warn("malformed form body", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Malformed form body")
		return
	}

	req, vErr := ParseUpdateTaskRequest(r.PostForm)
	if vErr != nil {
		log.Warn("update task validation failed", slog.String("error", vErr.Error()))
		shared.RespondWithFieldErrors(w, r, http.StatusBadRequest,
			"Validation error", vErr.Fields)
		return
	}

	task, err := domain.LoadTask(r.Context(), h.tasks, req.TaskID)
	if errors.Is(err, store.ErrTaskNotFound) {
		shared.RespondWithError(w, r, http.StatusNotFound,
			fmt.Sprintf("Task with id %d NOT FOUND", req.TaskID))
		return
	}
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if req.Content != nil {
		if err := task.SetContent(r.Context(), *req.Content); err != nil {
			shared.RespondWithErrorAndLog(w, r,
				MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
			return
		}
	}
	if req.Status != nil {
		if err := task.SetStatus(r.Context(), *req.Status); err != nil {
			shared.RespondWithErrorAndLog(w, r,
				MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
			return
		}
	}

	log.Debug("task updated", slog.Int64("task_id", req.TaskID))
	w.WriteHeader(http.StatusOK)
}

// pathTaskID extracts the task id from the URL path. A non-numeric id cannot
// reference any task, so it is reported as 404, matching the route-typing
// behavior the API has always had.
func (h *TaskHandler) pathTaskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).
			Warn("invalid task id in path", slog.String("id", raw))
		shared.RespondWithError(w, r, http.StatusNotFound,
			fmt.Sprintf("Task with id %s NOT FOUND", raw))
		return 0, false
	}
	return id, true
}
