package sse

import "fmt"

// ConnectError reports a failure to establish the event stream: either
// the socket could not be opened at all, or the server answered with a
// non-success status. The two cases are distinguished by Status: zero
// means the connection never completed.
type ConnectError struct {
	// URL is the stream endpoint that was dialed.
	URL string

	// Status is the HTTP status the server rejected the stream with,
	// or zero when no response was received.
	Status int

	// Err is the underlying transport error, when the connection could
	// not be established.
	Err error
}

func (e *ConnectError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("sse: %s rejected event stream with status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("sse: unable to connect to %s: %v", e.URL, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }
