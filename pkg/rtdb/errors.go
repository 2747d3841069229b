package rtdb

import (
	"fmt"
)

// RequestError reports a non-success response to a plain REST call
// (get, set, push, update, delete).
type RequestError struct {
	// Method is the HTTP method of the failed request.
	Method string

	// Path is the database path the request addressed.
	Path string

	// Status is the HTTP status the server answered with.
	Status int

	// Body is a snippet of the error response body.
	Body string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("rtdb: %s %q failed with status %d: %s", e.Method, "/"+e.Path, e.Status, e.Body)
}

// ProtocolError reports a stream message that violates the database
// event contract: an event name outside the known set, or a put/patch
// payload without the expected {path, data} shape. These are surfaced
// loudly rather than skipped, so server-side contract drift is never
// masked.
type ProtocolError struct {
	// Event is the SSE event name of the offending message.
	Event string

	// Reason describes the violation.
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("rtdb: protocol error in %q event: %s", e.Event, e.Reason)
}
