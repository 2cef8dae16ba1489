// Package memory provides an in-memory RequestStore for testing and dev.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/warp/leave-workflow/workflow"
)

// Store keeps the request log as an append-ordered slice. Oldest first;
// lookups scan newest to oldest, matching the durable store's semantics.
type Store struct {
	mu      sync.RWMutex
	records []workflow.TimeOffRequest
}

func New() *Store {
	return &Store{}
}

// Append adds a record as the newest entry. Append-only.
func (s *Store) Append(_ context.Context, rec workflow.TimeOffRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

// FindLatestPending scans newest-first for a Pending record matching
// (email, start, end). Returns nil when none matches.
func (s *Store) FindLatestPending(_ context.Context, email string, start, end time.Time) (*workflow.TimeOffRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.records) - 1; i >= 0; i-- {
		r := s.records[i]
		if r.Status == workflow.StatusPending &&
			r.EmployeeEmail == email &&
			r.StartDate.Equal(start) &&
			r.EndDate.Equal(end) {
			found := r
			return &found, nil
		}
	}
	return nil, nil
}

// UpdateStatus sets the status on the record with the given ID.
func (s *Store) UpdateStatus(_ context.Context, id string, status workflow.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].Status = status
			return nil
		}
	}
	return nil
}

// All returns a copy of the log, oldest first.
func (s *Store) All() []workflow.TimeOffRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]workflow.TimeOffRequest, len(s.records))
	copy(out, s.records)
	return out
}

// Reset clears the log.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
}
