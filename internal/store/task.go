package store

import (
	"context"
	"time"
)

// Column names of the task table. Row-to-record mapping uses the reflected
// column order from the store, which must agree with these names.
const (
	ColID                   = "id"
	ColContent              = "content"
	ColDateOfCreation       = "date_of_creation"
	ColCurrentStatus        = "current_status"
	ColPreviousStatus       = "previous_status"
	ColLastChangeStatusDate = "last_change_status_date"
)

// Record is a flat mapping from column name to value representing one task row,
// suitable for direct JSON serialization.
type Record map[string]any

// TaskStore defines the persistence operations for task records.
// Implementations acquire a pooled database connection for the duration of
// each call and release it unconditionally, including on failure.
type TaskStore interface {
	// Create inserts a new task row with the creation timestamp set to now and
	// the default status, and returns the newly generated id.
	Create(ctx context.Context) (int64, error)

	// Get returns the full column-name-to-value mapping for the task with the
	// given id. It returns ErrTaskNotFound when no row matches.
	Get(ctx context.Context, id int64) (Record, error)

	// GetAll returns every task row keyed by id, sorted ascending by id when
	// iterated through sorted keys. An empty table yields an empty map.
	GetAll(ctx context.Context) (map[int64]Record, error)

	// UpdateField performs a single-column update by id and reports the number
	// of affected rows. Zero affected rows is not an error at this layer;
	// existence checks belong to the caller.
	UpdateField(ctx context.Context, id int64, column string, value any) (int64, error)

	// UpdateStatus persists a status transition as one statement: the new
	// current status, the previous status, and the change timestamp. It
	// reports the number of affected rows.
	UpdateStatus(ctx context.Context, id int64, current, previous string, changedAt time.Time) (int64, error)

	// Delete removes the task row by id and reports the number of affected
	// rows. Zero affected rows is not an error at this layer.
	Delete(ctx context.Context, id int64) (int64, error)
}
