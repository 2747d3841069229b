// Package sqlite provides a SQLite-backed event store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/lanternhq/lantern/pkg/recorder"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	event_type TEXT NOT NULL,
	path TEXT NOT NULL,
	data BLOB,
	received_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS events_session_idx ON events (session_id, received_at);
`

// Store implements recorder.Store using SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens the database at dbPath, creating it and its schema if
// needed. The dbPath can be a file path or ":memory:" for an in-memory
// database.
func NewStore(dbPath string) (*Store, error) {
	// Open the database using the github.com/mattn/go-sqlite3 driver (registered as "sqlite3")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A :memory: database exists per connection, so the pool must stay
	// at a single connection for the schema to be visible everywhere.
	db.SetMaxOpenConns(1)

	// SQLite-specific pragmas
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Save persists a single record.
func (s *Store) Save(ctx context.Context, rec recorder.Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (id, session_id, event_type, path, data, received_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.SessionID, rec.EventType, rec.Path, rec.Data, rec.ReceivedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}

	return nil
}

// Session returns all records for a session in arrival order.
func (s *Store) Session(ctx context.Context, sessionID string) ([]recorder.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, event_type, path, data, received_at
		 FROM events
		 WHERE session_id = ?
		 ORDER BY received_at, id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying session events: %w", err)
	}
	defer rows.Close()

	var records []recorder.Record
	for rows.Next() {
		var rec recorder.Record
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.EventType, &rec.Path, &rec.Data, &rec.ReceivedAt); err != nil {
			return nil, fmt.Errorf("scanning event row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating event rows: %w", err)
	}

	if len(records) == 0 {
		return nil, recorder.ErrSessionNotFound{SessionID: sessionID}
	}

	return records, nil
}

// Sessions lists all known session IDs, oldest first.
func (s *Store) Sessions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, MIN(received_at) AS started_at
		 FROM events
		 GROUP BY session_id
		 ORDER BY started_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []string
	for rows.Next() {
		var id, startedAt string
		if err := rows.Scan(&id, &startedAt); err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}
		sessions = append(sessions, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating session rows: %w", err)
	}

	return sessions, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
