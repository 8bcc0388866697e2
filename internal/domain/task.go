package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/taskwell/taskwell-api/internal/store"
)

// Task is the in-memory representation of one task row. Every mutation through
// a setter persists to the backing store in the same call, so the in-memory
// state and the stored row stay synchronized after every operation.
//
// A Task must be obtained through CreateTask or LoadTask. After Delete the
// Task is invalid and must not be used for further persistence operations.
type Task struct {
	tasks store.TaskStore

	id                   int64
	content              *string
	dateOfCreation       time.Time
	currentStatus        string
	previousStatus       *string
	lastChangeStatusDate *time.Time
}

// CreateTask inserts a new task row (status Waiting, creation timestamp now)
// and returns it loaded from the store. The round trip through the store
// guarantees the in-memory state matches the authoritative row rather than
// assuming local defaults.
func CreateTask(ctx context.Context, tasks store.TaskStore) (*Task, error) {
	id, err := tasks.Create(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return LoadTask(ctx, tasks, id)
}

// LoadTask fetches the task with the given id from the store.
// It returns store.ErrTaskNotFound when no such row exists.
func LoadTask(ctx context.Context, tasks store.TaskStore, id int64) (*Task, error) {
	rec, err := tasks.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return taskFromRecord(tasks, rec)
}

// taskFromRecord decodes a store record into a Task.
func taskFromRecord(tasks store.TaskStore, rec store.Record) (*Task, error) {
	t := &Task{tasks: tasks}

	var err error
	if t.id, err = recordInt64(rec, store.ColID); err != nil {
		return nil, err
	}
	if t.content, err = recordStringPtr(rec, store.ColContent); err != nil {
		return nil, err
	}
	if t.dateOfCreation, err = recordTime(rec, store.ColDateOfCreation); err != nil {
		return nil, err
	}
	if t.currentStatus, err = recordString(rec, store.ColCurrentStatus); err != nil {
		return nil, err
	}
	if t.previousStatus, err = recordStringPtr(rec, store.ColPreviousStatus); err != nil {
		return nil, err
	}
	if t.lastChangeStatusDate, err = recordTimePtr(rec, store.ColLastChangeStatusDate); err != nil {
		return nil, err
	}

	return t, nil
}

// ID returns the task's store-assigned identifier.
func (t *Task) ID() int64 {
	return t.id
}

// Content returns the task's free-form description and whether it is set.
func (t *Task) Content() (string, bool) {
	if t.content == nil {
		return "", false
	}
	return *t.content, true
}

// DateOfCreation returns the immutable creation timestamp.
func (t *Task) DateOfCreation() time.Time {
	return t.dateOfCreation
}

// CurrentStatus returns the task's current status label.
func (t *Task) CurrentStatus() string {
	return t.currentStatus
}

// PreviousStatus returns the status the task held immediately before the last
// transition, and whether the status has ever changed.
func (t *Task) PreviousStatus() (string, bool) {
	if t.previousStatus == nil {
		return "", false
	}
	return *t.previousStatus, true
}

// LastChangeStatusDate returns the timestamp of the last status transition,
// and whether the status has ever changed.
func (t *Task) LastChangeStatusDate() (time.Time, bool) {
	if t.lastChangeStatusDate == nil {
		return time.Time{}, false
	}
	return *t.lastChangeStatusDate, true
}

// SetContent updates the task's content in memory and persists it as a
// single-column update in the same call.
func (t *Task) SetContent(ctx context.Context, content string) error {
	if _, err := t.tasks.UpdateField(ctx, t.id, store.ColContent, content); err != nil {
		return fmt.Errorf("failed to update task content: %w", err)
	}
	t.content = &content
	return nil
}

// SetStatus transitions the task to the given status. When the new status
// differs from the current one, the current status becomes the previous
// status, the change timestamp is set to now, and the triple is persisted
// atomically as one update. Setting the current value again is a no-op: no
// write occurs and no field changes.
//
// Any string is accepted here; SetStatus records history, it does not police
// the vocabulary. The HTTP update validator restricts status values to the
// recognized set, so arbitrary labels can only enter through direct entity
// use.
func (t *Task) SetStatus(ctx context.Context, status string) error {
	if status == t.currentStatus {
		return nil
	}

	previous := t.currentStatus
	changedAt := time.Now().UTC()

	if _, err := t.tasks.UpdateStatus(ctx, t.id, status, previous, changedAt); err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}

	t.previousStatus = &previous
	t.currentStatus = status
	t.lastChangeStatusDate = &changedAt
	return nil
}

// Delete removes the backing row. The Task is invalid afterwards and callers
// must not reuse it.
func (t *Task) Delete(ctx context.Context) error {
	if _, err := t.tasks.Delete(ctx, t.id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// Record produces a flat mapping of all attribute names to their current
// values, suitable for serialization. Unset optional attributes map to nil.
func (t *Task) Record() store.Record {
	rec := store.Record{
		store.ColID:                   t.id,
		store.ColContent:              nil,
		store.ColDateOfCreation:       t.dateOfCreation,
		store.ColCurrentStatus:        t.currentStatus,
		store.ColPreviousStatus:       nil,
		store.ColLastChangeStatusDate: nil,
	}
	if t.content != nil {
		rec[store.ColContent] = *t.content
	}
	if t.previousStatus != nil {
		rec[store.ColPreviousStatus] = *t.previousStatus
	}
	if t.lastChangeStatusDate != nil {
		rec[store.ColLastChangeStatusDate] = *t.lastChangeStatusDate
	}
	return rec
}

// Record value accessors. A column holding a value of an unexpected dynamic
// type means the row mapping is broken, which is surfaced as
// ErrMalformedRecord rather than silently fabricating data.

func recordInt64(rec store.Record, col string) (int64, error) {
	switch v := rec[col].(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("%w: column %q holds %T, expected integer", ErrMalformedRecord, col, rec[col])
	}
}

func recordString(rec store.Record, col string) (string, error) {
	v, ok := rec[col].(string)
	if !ok {
		return "", fmt.Errorf("%w: column %q holds %T, expected string", ErrMalformedRecord, col, rec[col])
	}
	return v, nil
}

func recordStringPtr(rec store.Record, col string) (*string, error) {
	if rec[col] == nil {
		return nil, nil
	}
	v, err := recordString(rec, col)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func recordTime(rec store.Record, col string) (time.Time, error) {
	v, ok := rec[col].(time.Time)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: column %q holds %T, expected timestamp", ErrMalformedRecord, col, rec[col])
	}
	return v, nil
}

func recordTimePtr(rec store.Record, col string) (*time.Time, error) {
	if rec[col] == nil {
		return nil, nil
	}
	v, err := recordTime(rec, col)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
