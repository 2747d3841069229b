// Package inmemory provides an in-memory event store, useful for tests
// and for sessions that only need live inspection.
package inmemory

import (
	"context"
	"sync"

	"github.com/lanternhq/lantern/pkg/recorder"
)

// Store implements recorder.Store using in-memory maps.
type Store struct {
	// mu is a read write sync mutex for locking the session map
	mu sync.RWMutex

	// sessions maps a session ID to its records in arrival order
	sessions map[string][]recorder.Record

	// order tracks session IDs by first appearance
	order []string
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string][]recorder.Record),
	}
}

// Save persists a single record.
func (s *Store) Save(_ context.Context, rec recorder.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[rec.SessionID]; !ok {
		s.order = append(s.order, rec.SessionID)
	}
	s.sessions[rec.SessionID] = append(s.sessions[rec.SessionID], rec)

	return nil
}

// Session returns all records for a session in arrival order.
func (s *Store) Session(_ context.Context, sessionID string) ([]recorder.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.sessions[sessionID]
	if !ok {
		return nil, recorder.ErrSessionNotFound{SessionID: sessionID}
	}

	out := make([]recorder.Record, len(records))
	copy(out, records)
	return out, nil
}

// Sessions lists all known session IDs, oldest first.
func (s *Store) Sessions(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.order))
	copy(out, s.order)
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}
