package sse

import (
	"bufio"
	"io"
	"strings"
)

// Decoder incrementally frames a byte stream into SSE messages. Bytes
// arrive in arbitrary chunk sizes with no alignment to line or message
// boundaries; the decoder buffers until a full line is available, so a
// multi-byte UTF-8 sequence split across chunks is never mis-decoded.
//
// Decoder never looks ahead past the next completed line, which keeps it
// suitable for unbounded, long-lived streams.
type Decoder struct {
	scanner *bufio.Scanner

	// current accumulates fields for the message being built.
	current *Message
	pending bool
	hasData bool
}

// NewDecoder returns a Decoder that frames SSE messages from r.
func NewDecoder(r io.Reader) *Decoder {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 10*1024*1024)

	return &Decoder{
		scanner: scanner,
		current: &Message{},
	}
}

// Next returns the next complete SSE message from the stream. It blocks
// until a blank-line boundary is reached. Next returns nil, nil when the
// source is exhausted; a partial message left unterminated at stream end
// is discarded, not surfaced.
func (d *Decoder) Next() (*Message, error) {
	for d.scanner.Scan() {
		raw := d.scanner.Text()

		// A blank line signals the end of the current message.
		if raw == "" {
			if d.pending {
				msg := d.current
				d.reset()
				return msg, nil
			}

			// Blank line with no accumulated fields — skip (e.g.
			// leading blank lines or keep-alive newlines).
			continue
		}

		// Lines starting with ':' are comments.
		if strings.HasPrefix(raw, ":") {
			continue
		}

		d.parseLine(raw)
	}

	if err := d.scanner.Err(); err != nil {
		return nil, err
	}

	// Source exhausted cleanly. An in-progress message without its
	// terminating blank line was never committed by the server, so it
	// is dropped rather than delivered half-framed.
	d.reset()
	return nil, nil
}

// parseLine processes a single non-empty, non-comment SSE line and
// accumulates the field into the current message.
//
// Per the SSE spec, a line has the form "field: value"; a line with no
// colon is treated as a field name with an empty value, and unknown
// fields are ignored.
func (d *Decoder) parseLine(line string) {
	var field, value string

	if before, after, ok := strings.Cut(line, ":"); ok {
		field = strings.TrimSpace(before)
		value = strings.TrimSpace(after)
	} else {
		field = strings.TrimSpace(line)
	}

	switch field {
	case "event":
		d.current.Event = value
		d.pending = true
	case "data":
		// Multiple data fields are joined with "\n", even when an
		// earlier one was empty.
		if d.hasData {
			d.current.Data += "\n"
		}
		d.current.Data += value
		d.hasData = true
		d.pending = true
	case "origin":
		d.current.Origin = value
		d.pending = true
	case "id", "last-event-id":
		d.current.LastEventID = value
		d.pending = true
	default:
		// "retry" and other unknown fields are ignored per the SSE spec.
	}
}

// reset clears the accumulated message state for the next message.
func (d *Decoder) reset() {
	d.current = &Message{}
	d.pending = false
	d.hasData = false
}
