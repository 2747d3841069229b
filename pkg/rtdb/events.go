package rtdb

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/lanternhq/lantern/pkg/sse"
)

// EventType is a realtime database change event kind.
type EventType string

const (
	// EventTypePut is sent when data at the watched path is replaced.
	EventTypePut EventType = "put"

	// EventTypePatch is sent when data at the watched path is partially
	// merged.
	EventTypePatch EventType = "patch"

	// EventTypeKeepAlive is a heartbeat with no semantic payload, sent
	// to prevent idle-connection timeouts.
	EventTypeKeepAlive EventType = "keep-alive"

	// EventTypeCancel is sent when the security rules on the watched
	// path no longer allow the auth token to read it.
	EventTypeCancel EventType = "cancel"

	// EventTypeAuthRevoked is sent when the auth token is revoked or
	// expired.
	EventTypeAuthRevoked EventType = "auth_revoked"
)

// Event is one typed database change notification.
type Event struct {
	// Type is the event kind.
	Type EventType

	// Path locates the change relative to the watched node; the watched
	// node itself is "/". Empty for keep-alive events.
	Path string

	// Data is the replacement value for put, the partial merge map for
	// patch, and nil for keep-alive.
	Data any
}

// putPatchEnvelope is the wire shape of the data field for put and
// patch events.
type putPatchEnvelope struct {
	Path *string `json:"path"`
	Data any     `json:"data"`
}

// MapMessage classifies one SSE message into a typed database event.
// It is pure and stateless. An event name outside the known set, or a
// put/patch payload that is not a {path, data} object, yields a
// *ProtocolError.
func MapMessage(m *sse.Message) (Event, error) {
	switch EventType(m.Event) {
	case EventTypeKeepAlive:
		// Heartbeats never carry a payload, whatever the message says.
		return Event{Type: EventTypeKeepAlive}, nil

	case EventTypePut, EventTypePatch:
		if m.Data == "" {
			return Event{}, &ProtocolError{Event: m.Event, Reason: "missing data payload"}
		}

		var envelope putPatchEnvelope
		if err := json.Unmarshal([]byte(m.Data), &envelope); err != nil {
			return Event{}, &ProtocolError{Event: m.Event, Reason: "data payload is not a JSON object"}
		}
		if envelope.Path == nil {
			return Event{}, &ProtocolError{Event: m.Event, Reason: "data object has no path member"}
		}

		return Event{
			Type: EventType(m.Event),
			Path: *envelope.Path,
			Data: envelope.Data,
		}, nil

	case EventTypeCancel, EventTypeAuthRevoked:
		ev := Event{Type: EventType(m.Event)}
		if m.Data != "" {
			var data any
			if err := json.Unmarshal([]byte(m.Data), &data); err == nil {
				ev.Data = data
			} else {
				ev.Data = m.Data
			}
		}
		return ev, nil

	default:
		return Event{}, &ProtocolError{Event: m.Event, Reason: "unknown event kind"}
	}
}

// Subscription is a live change-notification stream scoped to one node.
// It owns its socket and framing state exclusively; the parent Rtdb is
// shared read-only. Events are buffered in-process without bound so a
// slow consumer never stalls the socket read, and are delivered in
// exact arrival order.
type Subscription struct {
	client *sse.Client
	cancel context.CancelFunc

	out      chan Event
	stop     chan struct{}
	stopOnce sync.Once
	pumpDone chan struct{}

	mu       sync.Mutex
	cond     *sync.Cond
	queue    []Event
	finished bool
	closed   bool
	err      error
}

// Watch opens a live subscription to changes at this node, honoring its
// query parameters and the connection's auth token. Watch blocks until
// the remote connection is confirmed open; on failure it returns the
// stream's *sse.ConnectError and leaves nothing live.
//
// The caller must drain Events and call Close when done:
//
//	sub, err := node.Watch(ctx)
//	if err != nil { ... }
//	defer sub.Close()
//	for ev := range sub.Events() { ... }
//	if err := sub.Err(); err != nil { ... }
func (n Node) Watch(ctx context.Context) (*Subscription, error) {
	if n.err != nil {
		return nil, n.err
	}
	if n.rtdb.err != nil {
		return nil, n.rtdb.err
	}

	ctx, cancel := context.WithCancel(ctx)

	sub := &Subscription{
		cancel:   cancel,
		out:      make(chan Event),
		stop:     make(chan struct{}),
		pumpDone: make(chan struct{}),
	}
	sub.cond = sync.NewCond(&sub.mu)

	client := sse.NewClient(n.rtdb.jsonURL(n.path), sub,
		sse.WithParams(n.queryParams()),
		sse.WithHTTPClient(n.rtdb.httpClient),
		sse.WithLogger(n.rtdb.logger),
	)

	if err := client.Open(ctx); err != nil {
		cancel()
		return nil, err
	}
	sub.client = client

	go sub.watchStream()
	go sub.pump()

	return sub, nil
}

// Events returns the delivery channel. It is closed when the stream
// ends for any reason; consult Err afterwards to distinguish a clean
// end from a failure.
func (s *Subscription) Events() <-chan Event { return s.out }

// Err reports the terminal stream or protocol error once Events has
// closed. A naturally ended or explicitly closed subscription reports
// nil.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close tears the subscription down: the read task is cancelled and
// joined, the socket released, and the events channel closed. No
// further events are delivered after Close returns, even if some were
// already buffered. Close is idempotent and never fails.
func (s *Subscription) Close() {
	s.stopOnce.Do(func() {
		close(s.stop)

		s.mu.Lock()
		s.closed = true
		s.cond.Broadcast()
		s.mu.Unlock()

		s.client.Close()
		<-s.pumpDone
	})
}

// OnMessage implements sse.Handler. It runs on the stream's read loop:
// classify, then enqueue for the pump. A protocol violation poisons the
// subscription and cancels the stream.
func (s *Subscription) OnMessage(m *sse.Message) {
	ev, err := MapMessage(m)
	if err != nil {
		s.fail(err)
		return
	}

	// Heartbeats are consumed here; the consumer never sees them.
	if ev.Type == EventTypeKeepAlive {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished || s.closed || s.err != nil {
		return
	}
	s.queue = append(s.queue, ev)
	s.cond.Broadcast()
}

// watchStream marks the subscription finished once the underlying read
// task terminates, adopting its terminal error if no protocol error was
// recorded first.
func (s *Subscription) watchStream() {
	<-s.client.Done()

	s.mu.Lock()
	if s.err == nil {
		s.err = s.client.Err()
	}
	s.finished = true
	s.cond.Broadcast()
	s.mu.Unlock()
}

// pump moves events from the unbounded queue to the delivery channel.
func (s *Subscription) pump() {
	defer close(s.pumpDone)
	defer close(s.out)

	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.finished && !s.closed {
			s.cond.Wait()
		}
		if s.closed || (len(s.queue) == 0 && s.finished) {
			s.mu.Unlock()
			return
		}
		ev := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- ev:
		case <-s.stop:
			return
		}
	}
}

// fail records a protocol error and cancels the stream. The read loop
// unwinds at its next suspension point; Close remains responsible for
// the join.
func (s *Subscription) fail(err error) {
	s.mu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.mu.Unlock()
	s.cancel()
}
