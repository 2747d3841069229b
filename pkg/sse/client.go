package sse

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Handler consumes parsed messages from a Client. OnMessage is invoked
// from the client's read loop, one message at a time, in arrival order.
type Handler interface {
	OnMessage(m *Message)
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(m *Message)

func (f HandlerFunc) OnMessage(m *Message) { f(m) }

// OpenNotifier is implemented by handlers that want to be told when the
// stream connection has been confirmed open. OnOpen is invoked exactly
// once, before any OnMessage call.
type OpenNotifier interface {
	OnOpen()
}

// ErrorNotifier is implemented by handlers that want to observe connect
// and read failures. Cancellation via Close is not reported as an error.
type ErrorNotifier interface {
	OnError(err error)
}

// Client owns exactly one live HTTP GET streaming connection. Open
// confirms the connection synchronously, then drives message delivery
// from a dedicated read loop goroutine so the caller can do other work
// concurrently. There is no automatic mid-stream reconnect; when the
// stream ends or errors the client is done.
type Client struct {
	url        string
	handler    Handler
	header     http.Header
	params     url.Values
	httpClient *http.Client
	logger     *slog.Logger

	connectAttempts int
	connectBackoff  time.Duration

	closeOnce sync.Once
	cancel    context.CancelFunc
	done      chan struct{}

	mu  sync.Mutex
	err error
}

// Option configures a Client.
type Option func(*Client)

// WithHeader merges the given headers into each stream request. The
// Accept header is always forced to text/event-stream.
func WithHeader(h http.Header) Option {
	return func(c *Client) { c.header = h }
}

// WithParams sets the query parameters sent with the stream request.
func WithParams(v url.Values) Option {
	return func(c *Client) { c.params = v }
}

// WithHTTPClient overrides the HTTP client used to open the stream.
// The client must not impose an overall request timeout: the stream is
// unbounded and long-lived.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for read-loop diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithConnectRetry retries the initial connect up to attempts times,
// sleeping backoff between tries. Only transport-level failures are
// retried; a server that answers with a rejection status fails fast.
// Retry applies at open time only, never mid-stream.
func WithConnectRetry(attempts int, backoff time.Duration) Option {
	return func(c *Client) {
		c.connectAttempts = attempts
		c.connectBackoff = backoff
	}
}

// NewClient creates a Client for the given stream URL. Messages are
// delivered to handler; if handler also implements OpenNotifier or
// ErrorNotifier it receives those signals too.
func NewClient(streamURL string, handler Handler, opts ...Option) *Client {
	c := &Client{
		url:             streamURL,
		handler:         handler,
		httpClient:      http.DefaultClient,
		logger:          slog.New(slog.DiscardHandler),
		connectAttempts: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open issues the streaming GET request and waits for the connection to
// be confirmed. On success it starts the read loop and returns nil; the
// stream then runs until it ends, errors, or Close is called. On failure
// it returns a *ConnectError and no messages are ever delivered.
func (c *Client) Open(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)

	req, err := c.newRequest(ctx)
	if err != nil {
		cancel()
		return err
	}

	resp, err := c.connect(ctx, req)
	if err != nil {
		cancel()
		cerr := &ConnectError{URL: c.url, Err: err}
		c.notifyError(cerr)
		return cerr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		cancel()
		cerr := &ConnectError{URL: c.url, Status: resp.StatusCode}
		c.notifyError(cerr)
		return cerr
	}

	c.cancel = cancel
	c.done = make(chan struct{})

	if on, ok := c.handler.(OpenNotifier); ok {
		on.OnOpen()
	}

	go c.readLoop(ctx, resp.Body)

	return nil
}

// Close cancels the read loop, waits for it to reach its terminal state,
// and releases the underlying response body. It is safe to call multiple
// times, after the stream has already ended naturally, or after a failed
// Open. Close never fails.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		if c.cancel == nil {
			return
		}
		c.cancel()
		<-c.done
	})
}

// Done returns a channel closed when the read loop has terminated, for
// any reason. Only valid after a successful Open.
func (c *Client) Done() <-chan struct{} { return c.done }

// Err reports the terminal read-loop error, if any, once Done is closed.
// A naturally ended or cancelled stream reports nil.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Client) newRequest(ctx context.Context) (*http.Request, error) {
	u, err := url.Parse(c.url)
	if err != nil {
		return nil, &ConnectError{URL: c.url, Err: err}
	}

	q := u.Query()
	for key, values := range c.params {
		for _, v := range values {
			q.Add(key, v)
		}
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &ConnectError{URL: c.url, Err: err}
	}

	for key, values := range c.header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Accept", "text/event-stream")

	return req, nil
}

// connect performs the GET, retrying transport failures up to the
// configured attempt count.
func (c *Client) connect(ctx context.Context, req *http.Request) (*http.Response, error) {
	attempts := c.connectAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := range attempts {
		resp, err := c.httpClient.Do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if attempt+1 == attempts {
			break
		}

		c.logger.Debug("stream connect failed, retrying",
			"url", c.url,
			"attempt", attempt+1,
			"error", err,
		)

		select {
		case <-time.After(c.connectBackoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// readLoop frames the response body into messages and hands each one to
// the handler. The body is read incrementally, never buffered whole.
func (c *Client) readLoop(ctx context.Context, body io.ReadCloser) {
	defer close(c.done)
	defer body.Close()

	dec := NewDecoder(body)

	for {
		msg, err := dec.Next()
		if err != nil {
			// Cancellation unwinds silently; the caller asked for it.
			if ctx.Err() != nil {
				return
			}
			c.logger.Debug("stream read failed", "url", c.url, "error", err)
			c.setErr(err)
			c.notifyError(err)
			return
		}
		if msg == nil {
			// Server ended the stream.
			return
		}
		if ctx.Err() != nil {
			// Closed while a message was already framed: discard it.
			return
		}

		c.handler.OnMessage(msg)
	}
}

func (c *Client) setErr(err error) {
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
}

func (c *Client) notifyError(err error) {
	if en, ok := c.handler.(ErrorNotifier); ok {
		en.OnError(err)
	}
}
