// Package client talks to the task API over HTTP and to its event stream over
// websocket.
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

	"taskloop/internal/query"
	"taskloop/internal/task"
)

const DefaultTimeout = 10 * time.Second

// TransportError covers network failures (Status 0) and non-2xx responses.
type TransportError struct {
	Status  int
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return "request failed: " + e.Err.Error()
	default:
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Status == http.StatusNotFound
}

type envelope struct {
	Message string     `json:"message"`
	Task    *task.Task `json:"task,omitempty"`
}

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// New returns a client for the API rooted at baseURL, e.g. http://localhost:5000.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) BaseURL() string { return c.baseURL.String() }

func (c *Client) endpoint(path string, q url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = ""
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func taskPath(id int64, suffix string) string {
	return "/api/tasks/" + strconv.FormatInt(id, 10) + suffix
}

// List fetches tasks, sending only the non-default query parameters.
func (c *Client) List(ctx context.Context, opts query.Options) ([]task.Task, error) {
	var out []task.Task
	if err := c.do(ctx, http.MethodGet, c.endpoint("/api/tasks", opts.Values()), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []task.Task{}
	}
	return out, nil
}

func (c *Client) Create(ctx context.Context, in task.Input) (task.Task, error) {
	in.Completed = nil
	return c.mutate(ctx, http.MethodPost, "/api/tasks", in)
}

func (c *Client) Update(ctx context.Context, id int64, in task.Input) (task.Task, error) {
	return c.mutate(ctx, http.MethodPut, taskPath(id, ""), in)
}

func (c *Client) Toggle(ctx context.Context, id int64) (task.Task, error) {
	return c.mutate(ctx, http.MethodPatch, taskPath(id, "/toggle"), nil)
}

func (c *Client) Delete(ctx context.Context, id int64) (task.Task, error) {
	return c.mutate(ctx, http.MethodDelete, taskPath(id, ""), nil)
}

func (c *Client) mutate(ctx context.Context, method, path string, body any) (task.Task, error) {
	var env envelope
	if err := c.do(ctx, method, c.endpoint(path, nil), body, &env); err != nil {
		return task.Task{}, err
	}
	if env.Task == nil {
		return task.Task{}, &TransportError{Status: http.StatusOK, Message: "response missing task"}
	}
	return *env.Task, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, r)
	if err != nil {
		return &TransportError{Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, 4<<20))
	if err != nil {
		return &TransportError{Status: res.StatusCode, Err: err}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var env envelope
		_ = json.Unmarshal(data, &env)
		return &TransportError{Status: res.StatusCode, Message: env.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &TransportError{Status: res.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
