// Package sse implements the client half of the Server-Sent Events
// protocol: an incremental Decoder that frames an arbitrary byte stream
// into discrete messages, and a Client that owns a single long-lived
// HTTP streaming connection and delivers parsed messages to a Handler.
//
// This package intentionally does NOT provide SSE writer or server
// capabilities.
//
// See the SSE specification:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

// Message represents a single parsed SSE message, delimited by a blank
// line in the upstream byte stream.
type Message struct {
	// Event is the SSE event name from the "event:" field.
	// An empty string means the default "message" type per the SSE spec.
	Event string

	// Data is the concatenated contents of all "data:" lines for this
	// message, joined with "\n" (per the SSE spec, multiple data fields
	// are joined with a single newline).
	Data string

	// Origin is the contents of the "origin:" field, if present.
	Origin string

	// LastEventID is the last event ID from the "id:" field, if present.
	LastEventID string
}
