package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/taskwell/taskwell-api/internal/store"
)

// columnNames returns the column names of the given table in declaration
// order. Row-to-record mapping relies on this order matching the tuple order
// of SELECT *, which PostgreSQL guarantees via attnum. Dropped columns are
// excluded because they no longer appear in result tuples.
func columnNames(ctx context.Context, conn *sql.Conn, table string) ([]string, error) {
	const query = `
		SELECT attname FROM pg_attribute
		WHERE attrelid = $1::regclass AND attnum > 0 AND NOT attisdropped
		ORDER BY attnum
	`

	rows, err := conn.QueryContext(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("failed to reflect columns of %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan column name: %w", err)
		}
		columns = append(columns, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column names: %w", err)
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: table %s has no columns", store.ErrIntegrity, table)
	}

	return columns, nil
}

// scanRecord maps the current row of rows to a Record using the reflected
// column names. A mismatch between the reflected column count and the row's
// value count is a fatal integrity error.
func scanRecord(rows *sql.Rows, columns []string) (store.Record, error) {
	actual, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}
	if len(actual) != len(columns) {
		return nil, fmt.Errorf(
			"%w: reflected %d columns but row has %d values",
			store.ErrIntegrity, len(columns), len(actual),
		)
	}

	values := make([]any, len(columns))
	targets := make([]any, len(columns))
	for i := range values {
		targets[i] = &values[i]
	}

	if err := rows.Scan(targets...); err != nil {
		return nil, fmt.Errorf("failed to scan task row: %w", err)
	}

	rec := make(store.Record, len(columns))
	for i, col := range columns {
		v := values[i]
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		rec[col] = v
	}
	return rec, nil
}
