// Package eventstream defines a transport-neutral payload for observed
// database changes and the Publisher interface for bridging them onto an
// event stream backend.
package eventstream

import (
	"time"

	"github.com/google/uuid"

	"github.com/lanternhq/lantern/pkg/rtdb"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeChangeObserved is emitted for every database change seen
	// by a watch session.
	EventTypeChangeObserved = "lantern.change.observed"
)

// ChangeEvent is a transport-neutral event payload for an observed
// database change.
type ChangeEvent struct {
	SchemaVersion int         `json:"schema_version"`
	EventType     string      `json:"event_type"`
	EventID       string      `json:"event_id"`
	EmittedAt     time.Time   `json:"emitted_at"`
	Source        EventSource `json:"source"`
	Change        Change      `json:"change"`
}

// EventSource identifies the watch session the change was observed on.
type EventSource struct {
	DatabaseURL string `json:"database_url"`
	WatchPath   string `json:"watch_path"`
	SessionID   string `json:"session_id,omitempty"`
}

// Change carries the change itself.
type Change struct {
	Kind string `json:"kind"`
	Path string `json:"path"`
	Data any    `json:"data,omitempty"`
}

// NewChangeEvent wraps a database event in a versioned envelope ready
// for publishing.
func NewChangeEvent(source EventSource, ev rtdb.Event) *ChangeEvent {
	return &ChangeEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeChangeObserved,
		EventID:       "evt_" + uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Source:        source,
		Change: Change{
			Kind: string(ev.Type),
			Path: ev.Path,
			Data: ev.Data,
		},
	}
}
