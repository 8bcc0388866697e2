package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/platform/logger"
	"github.com/taskwell/taskwell-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface using PostgreSQL.
//
// Every operation acquires a dedicated connection from the pooled *sql.DB for
// its duration and releases it unconditionally on completion or failure.
// Acquisition blocks when the pool is exhausted until a connection is released
// or the context is done.
type PostgresTaskStore struct {
	db     *sql.DB
	table  string
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgresTaskStore backed by the given
// pooled database handle and table name.
func NewPostgresTaskStore(db *sql.DB, table string, logger *slog.Logger) *PostgresTaskStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTaskStore{
		db:     db,
		table:  table,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// acquire checks a single connection out of the pool. The caller must release
// it via the returned function on every exit path.
func (s *PostgresTaskStore) acquire(ctx context.Context) (*sql.Conn, func(), error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to acquire database connection: %w", err)
	}
	return conn, func() { _ = conn.Close() }, nil
}

// Create inserts a new task row with the creation timestamp set to now and
// status Waiting, then reads back the generated id. Both statements run on the
// same acquired connection because CURRVAL reports the connection-local value
// of the id sequence.
func (s *PostgresTaskStore) Create(ctx context.Context) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	conn, release, err := s.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer release()

	insert := fmt.Sprintf(
		`INSERT INTO %s (date_of_creation, current_status) VALUES ($1, $2)`,
		s.table,
	)
	if _, err := conn.ExecContext(ctx, insert, time.Now().UTC(), string(domain.StatusWaiting)); err != nil {
		log.Error("failed to insert task", "error", err)
		return 0, store.NewStoreError("task", "create", "insert failed", MapError(err))
	}

	var id int64
	currval := `SELECT CURRVAL(pg_get_serial_sequence($1, 'id'))`
	if err := conn.QueryRowContext(ctx, currval, s.table).Scan(&id); err != nil {
		log.Error("no generated id readable after insert", "error", err)
		return 0, fmt.Errorf("%w: no generated id after insert: %v", store.ErrIntegrity, err)
	}

	log.Debug("task created", "task_id", id)
	return id, nil
}

// Get returns the full column-name-to-value mapping for the task with the
// given id, or store.ErrTaskNotFound when no row matches.
func (s *PostgresTaskStore) Get(ctx context.Context, id int64) (store.Record, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	conn, release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	columns, err := columnNames(ctx, conn, s.table)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT * FROM %s WHERE id = $1`, s.table)
	rows, err := conn.QueryContext(ctx, query, id)
	if err != nil {
		log.Error("failed to query task", "task_id", id, "error", err)
		return nil, store.NewStoreError("task", "get", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("error reading task row: %w", err)
		}
		return nil, store.ErrTaskNotFound
	}

	rec, err := scanRecord(rows, columns)
	if err != nil {
		log.Error("failed to map task row", "task_id", id, "error", err)
		return nil, err
	}
	return rec, nil
}

// GetAll returns every task row keyed by id. It yields an empty map when the
// table is empty.
func (s *PostgresTaskStore) GetAll(ctx context.Context) (map[int64]store.Record, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	conn, release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	columns, err := columnNames(ctx, conn, s.table)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT * FROM %s ORDER BY id`, s.table)
	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query tasks", "error", err)
		return nil, store.NewStoreError("task", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	records := make(map[int64]store.Record)
	for rows.Next() {
		rec, err := scanRecord(rows, columns)
		if err != nil {
			log.Error("failed to map task row", "error", err)
			return nil, err
		}
		id, ok := rec[store.ColID].(int64)
		if !ok {
			return nil, fmt.Errorf(
				"%w: id column holds %T, expected int64",
				store.ErrIntegrity, rec[store.ColID],
			)
		}
		records[id] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	return records, nil
}

// UpdateField performs a single-column update by id and reports the number of
// affected rows. The column must be one of the table's reflected columns.
// Zero affected rows is a no-op at this layer; existence is the caller's
// responsibility.
func (s *PostgresTaskStore) UpdateField(ctx context.Context, id int64, column string, value any) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	conn, release, err := s.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer release()

	columns, err := columnNames(ctx, conn, s.table)
	if err != nil {
		return 0, err
	}
	if !slices.Contains(columns, column) {
		return 0, fmt.Errorf("%w: unknown column %q", store.ErrInvalidEntity, column)
	}

	query := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE id = $2`, s.table, column)
	result, err := conn.ExecContext(ctx, query, value, id)
	if err != nil {
		log.Error("failed to update task field",
			"task_id", id,
			"column", column,
			"error", err)
		return 0, store.NewStoreError("task", "update", "column update failed", MapError(err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected, nil
}

// UpdateStatus persists a status transition as one statement: the new current
// status, the previous status, and the change timestamp all move together.
func (s *PostgresTaskStore) UpdateStatus(ctx context.Context, id int64, current, previous string, changedAt time.Time) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	conn, release, err := s.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer release()

	query := fmt.Sprintf(
		`UPDATE %s SET current_status = $1, previous_status = $2, last_change_status_date = $3 WHERE id = $4`,
		s.table,
	)
	result, err := conn.ExecContext(ctx, query, current, previous, changedAt, id)
	if err != nil {
		log.Error("failed to update task status",
			"task_id", id,
			"status", current,
			"error", err)
		return 0, store.NewStoreError("task", "update_status", "transition update failed", MapError(err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected, nil
}

// Delete removes the task row by id and reports the number of affected rows.
// Zero affected rows is a no-op at this layer.
func (s *PostgresTaskStore) Delete(ctx context.Context, id int64) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	conn, release, err := s.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer release()

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.table)
	result, err := conn.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete task", "task_id", id, "error", err)
		return 0, store.NewStoreError("task", "delete", "delete failed", MapError(err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected, nil
}
