package rtdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// WriteSizeLimit bounds the size of a single write accepted by the
// server before it is rejected, per the REST API's writeSizeLimit
// parameter.
type WriteSizeLimit string

// Write size limits accepted by the realtime database.
const (
	WriteSizeTiny      WriteSizeLimit = "tiny"
	WriteSizeSmall     WriteSizeLimit = "small"
	WriteSizeMedium    WriteSizeLimit = "medium"
	WriteSizeLarge     WriteSizeLimit = "large"
	WriteSizeUnlimited WriteSizeLimit = "unlimited"
)

// Node is an addressable location in the JSON tree: a slash-joined path
// plus a set of pre-serialized query parameters. Nodes are immutable —
// every builder returns a new node with an extended parameter map, and
// a node's identity is purely structural. Nodes are cheap values; hold
// them, copy them, drop them.
type Node struct {
	rtdb   *Rtdb
	path   string
	params map[string]string

	// err records a query value that could not be serialized; it is
	// surfaced by the first operation on the node.
	err error
}

// Path returns the node's location in the tree, without a leading slash.
// The root node's path is the empty string.
func (n Node) Path() string { return n.path }

// Child returns the node for a descendant location. Multiple segments
// are joined with slashes:
//
//	root.Child("users", "alice") // addresses "users/alice"
func (n Node) Child(segments ...string) Node {
	added := strings.Join(segments, "/")

	child := n.clone()
	if n.path == "" {
		child.path = added
	} else {
		child.path = n.path + "/" + added
	}
	return child
}

// OrderBy orders query results by the given child key, or by the
// special keys "$key", "$value" or "$priority".
func (n Node) OrderBy(key string) Node {
	return n.withJSON("orderBy", key)
}

// LimitToFirst restricts the query to the first limit children.
func (n Node) LimitToFirst(limit int) Node {
	return n.with("limitToFirst", strconv.Itoa(limit))
}

// LimitToLast restricts the query to the last limit children.
func (n Node) LimitToLast(limit int) Node {
	return n.with("limitToLast", strconv.Itoa(limit))
}

// StartAt bounds the query to children at or above value in the
// configured order.
func (n Node) StartAt(value any) Node {
	return n.withJSON("startAt", value)
}

// EndAt bounds the query to children at or below value in the
// configured order.
func (n Node) EndAt(value any) Node {
	return n.withJSON("endAt", value)
}

// EqualTo restricts the query to children exactly matching value in the
// configured order.
func (n Node) EqualTo(value any) Node {
	return n.withJSON("equalTo", value)
}

// Shallow limits a get to one level of keys, with each value replaced
// by true. Cannot be combined with any filter parameter.
func (n Node) Shallow() Node {
	return n.with("shallow", "true")
}

// ExportFormat makes gets include priority information in the response.
func (n Node) ExportFormat() Node {
	return n.with("format", "export")
}

// Timeout bounds how long the server spends serving a read before
// cutting it off. The server caps this at 15 minutes.
func (n Node) Timeout(d time.Duration) Node {
	return n.with("timeout", fmt.Sprintf("%dms", d.Milliseconds()))
}

// WriteSizeLimit bounds the size of writes the server will accept at
// this location.
func (n Node) WriteSizeLimit(limit WriteSizeLimit) Node {
	return n.with("writeSizeLimit", string(limit))
}

// Get reads the value at this node, honoring any query parameters.
func (n Node) Get(ctx context.Context) (any, error) {
	if n.err != nil {
		return nil, n.err
	}
	var out any
	if err := n.rtdb.do(ctx, http.MethodGet, n.path, n.queryParams(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Set replaces the value at this node, deleting any data it previously
// held.
func (n Node) Set(ctx context.Context, value any) error {
	if n.err != nil {
		return n.err
	}
	return n.rtdb.do(ctx, http.MethodPut, n.path, n.queryParams(), value, nil)
}

// Push appends value under a new chronologically-ordered key generated
// by the server, and returns that key.
func (n Node) Push(ctx context.Context, value any) (string, error) {
	if n.err != nil {
		return "", n.err
	}
	var out struct {
		Name string `json:"name"`
	}
	if err := n.rtdb.do(ctx, http.MethodPost, n.path, n.queryParams(), value, &out); err != nil {
		return "", err
	}
	return out.Name, nil
}

// Update merges values into this node without replacing siblings. Keys
// may be deep paths ("a/b/c"); a nil value deletes that child.
func (n Node) Update(ctx context.Context, values map[string]any) error {
	if n.err != nil {
		return n.err
	}
	return n.rtdb.do(ctx, http.MethodPatch, n.path, n.queryParams(), values, nil)
}

// Delete removes the value at this node and every node below it.
func (n Node) Delete(ctx context.Context) error {
	if n.err != nil {
		return n.err
	}
	return n.rtdb.do(ctx, http.MethodDelete, n.path, n.queryParams(), nil, nil)
}

// clone copies the node, including its parameter map, so builders never
// mutate the receiver.
func (n Node) clone() Node {
	out := Node{rtdb: n.rtdb, path: n.path, err: n.err}
	if n.params != nil {
		out.params = make(map[string]string, len(n.params))
		for k, v := range n.params {
			out.params[k] = v
		}
	}
	return out
}

// with returns a new node with one parameter appended or overwritten.
func (n Node) with(key, value string) Node {
	out := n.clone()
	if out.params == nil {
		out.params = make(map[string]string, 1)
	}
	out.params[key] = value
	return out
}

// withJSON serializes value the way the REST API expects filter values
// (JSON-encoded, so strings arrive quoted).
func (n Node) withJSON(key string, value any) Node {
	encoded, err := json.Marshal(value)
	if err != nil {
		out := n.clone()
		out.err = fmt.Errorf("rtdb: encoding %s value: %w", key, err)
		return out
	}
	return n.with(key, string(encoded))
}

// queryParams resolves the node's parameter map plus the connection's
// auth parameter into request query values.
func (n Node) queryParams() url.Values {
	v := n.rtdb.authParams()
	for key, value := range n.params {
		v.Set(key, value)
	}
	return v
}
