// Package postgres provides PostgreSQL implementations of the store
// interfaces. Row-to-record mapping is driven by the table's reflected column
// order rather than hard-coded field lists, so the mapping follows the store's
// column declaration order exactly.
package postgres
