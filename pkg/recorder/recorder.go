// Package recorder persists realtime database change events so a watch
// session can be replayed or inspected after the fact. Events are keyed
// by a session ID minted when the watch starts, and persistence runs on
// an asynchronous worker pool so a slow store never stalls the stream
// consumer.
package recorder

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lanternhq/lantern/pkg/rtdb"
)

// Record is one persisted change event.
type Record struct {
	// ID uniquely identifies the record.
	ID string

	// SessionID groups records belonging to one watch session.
	SessionID string

	// EventType is the database event kind (put, patch, cancel, ...).
	EventType string

	// Path locates the change relative to the watched node.
	Path string

	// Data is the JSON-encoded event payload, nil when the event
	// carried none.
	Data []byte

	// ReceivedAt is when the event was observed by the client.
	ReceivedAt time.Time
}

// NewSessionID mints an identifier for a watch session.
func NewSessionID() string {
	return uuid.NewString()
}

// NewRecord builds a Record from a database event, encoding its payload
// as JSON.
func NewRecord(sessionID string, ev rtdb.Event) (Record, error) {
	rec := Record{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		EventType:  string(ev.Type),
		Path:       ev.Path,
		ReceivedAt: time.Now().UTC(),
	}

	if ev.Data != nil {
		data, err := json.Marshal(ev.Data)
		if err != nil {
			return Record{}, fmt.Errorf("encoding event data: %w", err)
		}
		rec.Data = data
	}

	return rec, nil
}

// Store persists and retrieves event records.
type Store interface {
	// Save persists a single record.
	Save(ctx context.Context, rec Record) error

	// Session returns all records for a session in arrival order.
	// Returns ErrSessionNotFound when the session has no records.
	Session(ctx context.Context, sessionID string) ([]Record, error)

	// Sessions lists all known session IDs, oldest first.
	Sessions(ctx context.Context) ([]string, error)

	// Close releases any resources held by the store.
	Close() error
}
