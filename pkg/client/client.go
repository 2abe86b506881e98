// Package client is a typed HTTP client for the hookd API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/getmockd/hookd/pkg/requestlog"
	"github.com/getmockd/hookd/pkg/response"
	"github.com/getmockd/hookd/pkg/space"
	"github.com/getmockd/hookd/pkg/sse"
)

// DefaultTimeout bounds non-streaming calls.
const DefaultTimeout = 30 * time.Second

// ErrNotFound is returned when the server answers 404.
var ErrNotFound = errors.New("not found")

// APIError represents a non-success response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Is makes errors.Is(err, ErrNotFound) match 404 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// ListOptions filters a request listing.
type ListOptions struct {
	Limit  int
	Search string
	Method string
}

// Health is the /healthz payload.
type Health struct {
	Status string `json:"status"`
	Spaces int    `json:"spaces"`
}

// Client talks to a hookd server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the timeout for non-streaming calls.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client for the server at baseURL (e.g. "http://localhost:4380").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// CaptureURL returns the public capture URL for a space.
func (c *Client) CaptureURL(spaceKey string) string {
	return c.baseURL + "/capture/" + url.PathEscape(spaceKey)
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.do(ctx, http.MethodGet, "/healthz", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// ListSpaces returns known spaces, newest first.
func (c *Client) ListSpaces(ctx context.Context) ([]space.Space, error) {
	var out items[space.Space]
	if err := c.do(ctx, http.MethodGet, "/spaces", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// CreateSpace creates a space with a generated id. name may be empty.
func (c *Client) CreateSpace(ctx context.Context, name string) (*space.Space, error) {
	var created space.Space
	body := struct {
		Name string `json:"name,omitempty"`
	}{Name: name}
	if err := c.do(ctx, http.MethodPost, "/spaces", body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListRequests returns captured requests for a space, newest first.
func (c *Client) ListRequests(ctx context.Context, spaceKey string, opts ListOptions) ([]*requestlog.CapturedRequest, error) {
	q := url.Values{}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	if opts.Method != "" {
		q.Set("method", opts.Method)
	}
	path := spacePath(spaceKey, "requests")
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out items[*requestlog.CapturedRequest]
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// GetRequest returns one captured request.
func (c *Client) GetRequest(ctx context.Context, spaceKey, id string) (*requestlog.CapturedRequest, error) {
	var rec requestlog.CapturedRequest
	if err := c.do(ctx, http.MethodGet, spacePath(spaceKey, "requests", id), nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ClearRequests drops a space's history and returns how many records went.
func (c *Client) ClearRequests(ctx context.Context, spaceKey string) (int, error) {
	var out struct {
		Cleared int `json:"cleared"`
	}
	if err := c.do(ctx, http.MethodDelete, spacePath(spaceKey, "requests"), nil, &out); err != nil {
		return 0, err
	}
	return out.Cleared, nil
}

// GetConfig returns a space's response config (the default when unset).
func (c *Client) GetConfig(ctx context.Context, spaceKey string) (*response.Config, error) {
	var cfg response.Config
	if err := c.do(ctx, http.MethodGet, spacePath(spaceKey, "config"), nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetConfig writes a partial config and returns the normalized result.
func (c *Client) SetConfig(ctx context.Context, spaceKey string, p response.Partial) (*response.Config, error) {
	var cfg response.Config
	if err := c.do(ctx, http.MethodPut, spacePath(spaceKey, "config"), p, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Tail follows a space's event stream and calls fn for every captured
// request until ctx is done, the server closes the stream, or fn errors.
// The ready event is consumed silently. A server-side close returns nil.
func (c *Client) Tail(ctx context.Context, spaceKey string, fn func(*requestlog.CapturedRequest) error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+spacePath(spaceKey, "events"), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", sse.ContentTypeEventStream)

	// Streams outlive any per-call timeout.
	stream := &http.Client{Transport: c.httpClient.Transport}
	resp, err := stream.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return c.connectionError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return parseError(resp)
	}

	reader := sse.NewReader(resp.Body)
	for {
		data, err := reader.Next()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read event stream: %w", err)
		}
		if data == sse.ReadyMessage {
			continue
		}
		var rec requestlog.CapturedRequest
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return fmt.Errorf("failed to parse event: %w", err)
		}
		if err := fn(&rec); err != nil {
			return err
		}
	}
}

type items[T any] struct {
	Items []T `json:"items"`
}

func spacePath(spaceKey string, parts ...string) string {
	segs := []string{"/spaces", url.PathEscape(spaceKey)}
	for _, p := range parts {
		segs = append(segs, url.PathEscape(p))
	}
	return strings.Join(segs, "/")
}

// do sends a JSON request and decodes a JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var bodyReader io.Reader
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.connectionError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func (c *Client) connectionError(err error) error {
	return &APIError{Message: fmt.Sprintf("cannot connect to hookd at %s: %v", c.baseURL, err)}
}

func parseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var errResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
}
