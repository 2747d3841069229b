// Package auth is a client for the Firebase Identity Toolkit REST API and
// its companion secure token endpoint. It covers account creation, the
// sign-in flavors, token refresh, profile and credential management, and
// the auth emulator's admin routes.
//
// See https://firebase.google.com/docs/reference/rest/auth.
package auth

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

const (
	productionIdentityToolkitURL = "https://identitytoolkit.googleapis.com"
	productionSecureTokenURL     = "https://securetoken.googleapis.com"

	versionOneBase           = "/v1"
	emulatorIdentityToolkits = "/identitytoolkit.googleapis.com"
	emulatorSecureToken      = "/securetoken.googleapis.com"

	accountsRoute = "/accounts"
	tokenRoute    = "/token"

	signUpRoute            = accountsRoute + ":signUp"
	signInPasswordRoute    = accountsRoute + ":signInWithPassword"
	signInCustomTokenRoute = accountsRoute + ":signInWithCustomToken"
	signInOAuthRoute       = accountsRoute + ":signInWithIdp"
	createAuthURIRoute     = accountsRoute + ":createAuthUri"
	sendOobCodeRoute       = accountsRoute + ":sendOobCode"
	resetPasswordRoute     = accountsRoute + ":resetPassword"
	updateAccountRoute     = accountsRoute + ":update"
	lookupRoute            = accountsRoute + ":lookup"
	deleteAccountRoute     = accountsRoute + ":delete"

	localeHeader = "X-Firebase-Locale"
)

// Client talks to the Identity Toolkit API. It is immutable after New and
// safe for concurrent use.
type Client struct {
	apiKey string

	identityToolkitURL string
	secureTokenURL     string
	emulatorRoutes     bool

	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithEmulator points the client at an auth emulator host (for example
// "http://localhost:9099") and enables the emulator's route prefixes. The
// caller resolves FIREBASE_AUTH_EMULATOR_HOST; the client never reads the
// environment itself.
func WithEmulator(host string) Option {
	return func(c *Client) {
		c.identityToolkitURL = host
		c.secureTokenURL = host
		c.emulatorRoutes = true
	}
}

// WithIdentityToolkitURL overrides the Identity Toolkit base URL.
func WithIdentityToolkitURL(u string) Option {
	return func(c *Client) {
		c.identityToolkitURL = u
	}
}

// WithSecureTokenURL overrides the secure token base URL.
func WithSecureTokenURL(u string) Option {
	return func(c *Client) {
		c.secureTokenURL = u
	}
}

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger attaches a structured logger. Requests are logged at debug.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New returns a client for the given Web API key, pointed at the
// production endpoints unless options say otherwise.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:             apiKey,
		identityToolkitURL: productionIdentityToolkitURL,
		secureTokenURL:     productionSecureTokenURL,
		httpClient:         http.DefaultClient,
		logger:             slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) identityToolkitBase() string {
	if c.emulatorRoutes {
		return c.identityToolkitURL + emulatorIdentityToolkits + versionOneBase
	}

	return c.identityToolkitURL + versionOneBase
}

func (c *Client) secureTokenBase() string {
	if c.emulatorRoutes {
		return c.secureTokenURL + emulatorSecureToken + versionOneBase
	}

	return c.secureTokenURL + versionOneBase
}

func (c *Client) keyParams() url.Values {
	params := url.Values{}
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	return params
}

// do issues a JSON request and decodes the JSON response into out when out
// is non-nil. Non-2xx responses become an *APIError carrying the upstream
// error message.
func (c *Client) do(ctx context.Context, method, fullURL, route string, header http.Header, body, out any) error {
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("unable to encode %s request: %w", route, err)
		}
		buf = bytes.NewReader(raw)
	}

	if params := c.keyParams(); len(params) > 0 {
		sep := "?"
		if strings.Contains(fullURL, "?") {
			sep = "&"
		}
		fullURL += sep + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, buf)
	if err != nil {
		return fmt.Errorf("unable to build %s request: %w", route, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	c.logger.Debug("auth request", "method", method, "route", route)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("unable to reach %s: %w", route, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			Route:   route,
			Status:  resp.StatusCode,
			Message: upstreamMessage(resp.Body),
		}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("unable to decode %s response: %w", route, err)
	}

	return nil
}

// post hits an Identity Toolkit route.
func (c *Client) post(ctx context.Context, route string, header http.Header, body, out any) error {
	return c.do(ctx, http.MethodPost, c.identityToolkitBase()+route, route, header, body, out)
}

// postToken hits the secure token endpoint.
func (c *Client) postToken(ctx context.Context, body, out any) error {
	return c.do(ctx, http.MethodPost, c.secureTokenBase()+tokenRoute, tokenRoute, nil, body, out)
}

// upstreamMessage pulls the error code string out of the API's
// {"error": {"message": ...}} failure envelope.
func upstreamMessage(r io.Reader) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 4096)).Decode(&envelope); err != nil {
		return ""
	}

	return envelope.Error.Message
}

func localeHeaders(locale string) http.Header {
	if locale == "" {
		return nil
	}

	return http.Header{localeHeader: []string{locale}}
}

// postBody builds the IdP credential body used by the signInWithIdp route.
func postBody(providerToken, providerID string) string {
	return fmt.Sprintf("id_token=%s&providerId=%s", providerToken, providerID)
}
