// Package rtdb is a client for the Firebase Realtime Database REST API:
// plain JSON reads and writes against a path, composable query filters,
// and a live change-notification stream consumed over SSE.
//
// A Rtdb value is an immutable connection descriptor. It is never
// mutated after construction, so any number of nodes and subscriptions
// may share it concurrently without locking.
package rtdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// Rtdb is a connection to a realtime database. Obtain nodes from Root
// and compose paths and filters from there:
//
//	db := rtdb.New("https://demo.firebaseio.com", rtdb.WithIDToken(token))
//	value, err := db.Root().Child("users", "alice").Get(ctx)
type Rtdb struct {
	base       *url.URL
	baseParams url.Values
	idToken    string
	httpClient *http.Client
	logger     *slog.Logger

	// err holds a database URL parse failure, surfaced on first use.
	err error
}

// Option configures a Rtdb connection.
type Option func(*Rtdb)

// WithIDToken authenticates every request and subscription with the
// given Identity Toolkit ID token (sent as the auth query parameter).
func WithIDToken(token string) Option {
	return func(r *Rtdb) { r.idToken = token }
}

// WithHTTPClient overrides the HTTP client used for both REST calls and
// event streams. It must not impose an overall request timeout, since
// event streams are unbounded; use context deadlines on the REST calls
// instead.
func WithHTTPClient(hc *http.Client) Option {
	return func(r *Rtdb) { r.httpClient = hc }
}

// WithLogger sets the logger used for request and stream diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Rtdb) { r.logger = l }
}

// New creates a connection descriptor for the database at databaseURL
// (scheme included, e.g. "https://demo.firebaseio.com" or an emulator
// host like "http://127.0.0.1:9000?ns=demo"). A query string on the URL
// is carried onto every request and stream; node paths always extend
// the URL path, never the query.
func New(databaseURL string, opts ...Option) *Rtdb {
	r := &Rtdb{
		httpClient: http.DefaultClient,
		logger:     slog.New(slog.DiscardHandler),
	}

	base, err := url.Parse(databaseURL)
	if err != nil {
		r.err = fmt.Errorf("rtdb: parsing database URL %q: %w", databaseURL, err)
	} else {
		r.baseParams = base.Query()
		base.RawQuery = ""
		base.Fragment = ""
		base.Path = strings.TrimRight(base.Path, "/")
		r.base = base
	}

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Root returns the node addressing the root of the JSON tree.
func (r *Rtdb) Root() Node {
	return Node{rtdb: r}
}

// authParams returns the database URL's own query parameters plus the
// auth parameter when a token is set.
func (r *Rtdb) authParams() url.Values {
	v := url.Values{}
	for key, values := range r.baseParams {
		v[key] = append([]string(nil), values...)
	}
	if r.idToken != "" {
		v.Set("auth", r.idToken)
	}
	return v
}

// jsonURL resolves a node path to its REST endpoint. Query parameters
// travel separately via authParams, so the returned URL has none.
func (r *Rtdb) jsonURL(path string) string {
	u := *r.base
	u.Path += "/" + path + ".json"
	return u.String()
}

// do performs one REST request against a node path. A non-success
// status is converted to a *RequestError; on success the response body
// is decoded into out when out is non-nil.
func (r *Rtdb) do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	if r.err != nil {
		return r.err
	}

	u := r.jsonURL(path)
	if encoded := params.Encode(); encoded != "" {
		u += "?" + encoded
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("rtdb: encoding %s %q body: %w", method, "/"+path, err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("rtdb: building %s %q request: %w", method, "/"+path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	r.logger.Debug("rtdb request", "method", method, "path", "/"+path)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("rtdb: %s %q: %w", method, "/"+path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &RequestError{
			Method: method,
			Path:   path,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("rtdb: decoding %s %q response: %w", method, "/"+path, err)
	}

	return nil
}
