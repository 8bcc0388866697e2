package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskwell/taskwell-api/internal/store"
)

// newTestStore connects to the database named by TASKWELL_TEST_DATABASE_URL
// and creates a fresh task table for this test, dropped on cleanup. A fresh
// table means a fresh id sequence, so generated ids start at 1.
func newTestStore(t *testing.T) (*sql.DB, *PostgresTaskStore) {
	t.Helper()

	dsn := os.Getenv("TASKWELL_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TASKWELL_TEST_DATABASE_URL not set; skipping database integration test")
	}

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	table := fmt.Sprintf("tasks_test_%d", time.Now().UnixNano())
	_, err = db.Exec(fmt.Sprintf(`
		CREATE TABLE %s (
			id                      BIGSERIAL PRIMARY KEY,
			content                 TEXT,
			date_of_creation        TIMESTAMPTZ NOT NULL,
			current_status          TEXT NOT NULL DEFAULT 'Waiting',
			previous_status         TEXT,
			last_change_status_date TIMESTAMPTZ
		)`, table))
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = db.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %s`, table))
	})

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	return db, NewPostgresTaskStore(db, table, quiet)
}

func TestCreateAssignsSequentialIDs(t *testing.T) {
	_, tasks := newTestStore(t)
	ctx := context.Background()

	id, err := tasks.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	id, err = tasks.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)
}

func TestCreateSetsDefaults(t *testing.T) {
	_, tasks := newTestStore(t)
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Minute)
	id, err := tasks.Create(ctx)
	require.NoError(t, err)

	rec, err := tasks.Get(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, int64(1), rec[store.ColID])
	assert.Nil(t, rec[store.ColContent])
	assert.Equal(t, "Waiting", rec[store.ColCurrentStatus])
	assert.Nil(t, rec[store.ColPreviousStatus])
	assert.Nil(t, rec[store.ColLastChangeStatusDate])

	created, ok := rec[store.ColDateOfCreation].(time.Time)
	require.True(t, ok, "date_of_creation should scan as time.Time")
	assert.True(t, created.After(before))
}

func TestGetNotFound(t *testing.T) {
	_, tasks := newTestStore(t)

	_, err := tasks.Get(context.Background(), 42)
	assert.True(t, errors.Is(err, store.ErrTaskNotFound))
}

func TestGetAllOrderedByID(t *testing.T) {
	_, tasks := newTestStore(t)
	ctx := context.Background()

	records, err := tasks.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, records, "empty table yields an empty map")

	for i := 0; i < 3; i++ {
		_, err := tasks.Create(ctx)
		require.NoError(t, err)
	}

	records, err = tasks.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	for id := int64(1); id <= 3; id++ {
		assert.Contains(t, records, id)
		assert.Equal(t, id, records[id][store.ColID])
	}
}

func TestUpdateField(t *testing.T) {
	_, tasks := newTestStore(t)
	ctx := context.Background()

	id, err := tasks.Create(ctx)
	require.NoError(t, err)

	affected, err := tasks.UpdateField(ctx, id, store.ColContent, "write the report")
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	rec, err := tasks.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "write the report", rec[store.ColContent])

	// Zero affected rows is a no-op, not an error.
	affected, err = tasks.UpdateField(ctx, 42, store.ColContent, "ghost")
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestUpdateFieldRejectsUnknownColumn(t *testing.T) {
	_, tasks := newTestStore(t)
	ctx := context.Background()

	id, err := tasks.Create(ctx)
	require.NoError(t, err)

	_, err = tasks.UpdateField(ctx, id, "owner", "me")
	assert.True(t, errors.Is(err, store.ErrInvalidEntity))
}

func TestUpdateStatusIsOneStatement(t *testing.T) {
	_, tasks := newTestStore(t)
	ctx := context.Background()

	id, err := tasks.Create(ctx)
	require.NoError(t, err)

	changedAt := time.Now().UTC().Truncate(time.Microsecond)
	affected, err := tasks.UpdateStatus(ctx, id, "In progress", "Waiting", changedAt)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	rec, err := tasks.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "In progress", rec[store.ColCurrentStatus])
	assert.Equal(t, "Waiting", rec[store.ColPreviousStatus])

	stored, ok := rec[store.ColLastChangeStatusDate].(time.Time)
	require.True(t, ok)
	assert.True(t, stored.Equal(changedAt))
}

func TestDelete(t *testing.T) {
	_, tasks := newTestStore(t)
	ctx := context.Background()

	id, err := tasks.Create(ctx)
	require.NoError(t, err)

	affected, err := tasks.Delete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	_, err = tasks.Get(ctx, id)
	assert.True(t, errors.Is(err, store.ErrTaskNotFound))

	affected, err = tasks.Delete(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, affected, "deleting a missing row is a no-op at this layer")
}

func TestColumnNamesDeclarationOrder(t *testing.T) {
	db, tasks := newTestStore(t)
	ctx := context.Background()

	conn, err := db.Conn(ctx)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	columns, err := columnNames(ctx, conn, tasks.table)
	require.NoError(t, err)
	assert.Equal(t, []string{
		store.ColID,
		store.ColContent,
		store.ColDateOfCreation,
		store.ColCurrentStatus,
		store.ColPreviousStatus,
		store.ColLastChangeStatusDate,
	}, columns)
}
