// Package mocks provides test doubles for the store interfaces.
package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/store"
)

// InMemoryTaskStore implements store.TaskStore against an in-memory map,
// mirroring the PostgreSQL implementation's observable semantics: sequential
// ids starting at 1, Waiting as the creation status, ErrTaskNotFound on
// missing reads, and zero-rows-affected no-ops on missing writes.
//
// It also counts mutating statements so tests can assert that no-op
// transitions perform no store write.
type InMemoryTaskStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]store.Record

	// Writes is the number of mutating statements executed.
	Writes int

	// Optional behavior overrides for error-path tests.
	CreateFn func(ctx context.Context) (int64, error)
	GetFn    func(ctx context.Context, id int64) (store.Record, error)
}

// NewInMemoryTaskStore creates an empty in-memory task store.
func NewInMemoryTaskStore() *InMemoryTaskStore {
	return &InMemoryTaskStore{rows: make(map[int64]store.Record)}
}

// Create inserts a row with the default status and the current timestamp and
// returns the next sequential id.
func (s *InMemoryTaskStore) Create(ctx context.Context) (int64, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.rows[id] = store.Record{
		store.ColID:                   id,
		store.ColContent:              nil,
		store.ColDateOfCreation:       time.Now().UTC(),
		store.ColCurrentStatus:        string(domain.StatusWaiting),
		store.ColPreviousStatus:       nil,
		store.ColLastChangeStatusDate: nil,
	}
	s.Writes++
	return id, nil
}

// Get returns a copy of the stored record or store.ErrTaskNotFound.
func (s *InMemoryTaskStore) Get(ctx context.Context, id int64) (store.Record, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return copyRecord(row), nil
}

// GetAll returns copies of every stored record keyed by id.
func (s *InMemoryTaskStore) GetAll(ctx context.Context) (map[int64]store.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[int64]store.Record, len(s.rows))
	for id, row := range s.rows {
		out[id] = copyRecord(row)
	}
	return out, nil
}

// UpdateField sets a single column and reports affected rows.
func (s *InMemoryTaskStore) UpdateField(ctx context.Context, id int64, column string, value any) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[id]
	if !ok {
		return 0, nil
	}
	row[column] = value
	s.Writes++
	return 1, nil
}

// UpdateStatus applies the three-field status transition as one write.
func (s *InMemoryTaskStore) UpdateStatus(ctx context.Context, id int64, current, previous string, changedAt time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[id]
	if !ok {
		return 0, nil
	}
	row[store.ColCurrentStatus] = current
	row[store.ColPreviousStatus] = previous
	row[store.ColLastChangeStatusDate] = changedAt
	s.Writes++
	return 1, nil
}

// Delete removes the row and reports affected rows.
func (s *InMemoryTaskStore) Delete(ctx context.Context, id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[id]; !ok {
		return 0, nil
	}
	delete(s.rows, id)
	s.Writes++
	return 1, nil
}

func copyRecord(rec store.Record) store.Record {
	out := make(store.Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}
