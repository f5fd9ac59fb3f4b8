// Package client talks to the todo server's update endpoints.
//
// Every update is a single POST with an empty body and its parameters in the
// query string. A response counts as success when it is 2xx or the
// 303 See Other the endpoints answer with after a successful write; the
// redirect itself is not followed.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/idilsaglam/todo-inline/internal/date"
	"github.com/idilsaglam/todo-inline/internal/logging"
	"github.com/idilsaglam/todo-inline/internal/model"
)

// Endpoint paths.
const (
	PathUpdateName     = "/updateName"
	PathUpdateIsDone   = "/updateIsDoneStatus"
	PathUpdatePriority = "/updatePriority"
	PathUpdateDeadline = "/updateDeadline"
	PathCreateTodo     = "/createTodo"
	PathDeleteTodo     = "/deleteTodo"
	PathListTodos      = "/api/restController/todos/frontendDto"
)

// Query parameter names.
const (
	ParamTodoID   = "todoId"
	ParamNewName  = "newName"
	ParamPriority = "priority"
	ParamNewDate  = "newLocalDate"
)

// RequestIDHeader carries a per-request id the server logs.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody caps how much of an error response is kept as the message.
const maxErrorBody = 512

// StatusError is returned when the server answers with a non-OK status.
type StatusError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: server answered %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s: server answered %d: %s", e.Op, e.StatusCode, e.Message)
}

// IsStatus reports whether err is a *StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// Client is an HTTP client bound to one todo server.
type Client struct {
	base   *url.URL
	http   *http.Client
	token  string
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Its CheckRedirect is
// overridden so redirects are never followed.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		cp := *hc
		c.http = &cp
	}
}

// WithTimeout bounds each request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithToken sends token as a bearer token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

// WithLogger logs every request and failure.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("server url %q: missing host", baseURL)
	}
	c := &Client{
		base:   u,
		http:   &http.Client{},
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return c, nil
}

// BaseURL returns the server URL.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// UpdateName renames a todo.
func (c *Client) UpdateName(ctx context.Context, todoID int64, newName string) error {
	q := idQuery(todoID)
	q.Set(ParamNewName, newName)
	return c.post(ctx, "update name", PathUpdateName, q)
}

// UpdateIsDoneStatus asks the server to flip a todo's done flag.
func (c *Client) UpdateIsDoneStatus(ctx context.Context, todoID int64) error {
	return c.post(ctx, "update status", PathUpdateIsDone, idQuery(todoID))
}

// UpdatePriority sends a select option; "None" goes out as "null".
func (c *Client) UpdatePriority(ctx context.Context, todoID int64, selection string) error {
	q := idQuery(todoID)
	q.Set(ParamPriority, model.PriorityWireValue(selection))
	return c.post(ctx, "update priority", PathUpdatePriority, q)
}

// UpdateDeadline sets a todo's deadline.
func (c *Client) UpdateDeadline(ctx context.Context, todoID int64, d date.Date) error {
	q := idQuery(todoID)
	q.Set(ParamNewDate, d.String())
	return c.post(ctx, "update deadline", PathUpdateDeadline, q)
}

// ClearDeadline removes a todo's deadline. Omitting the date parameter is
// what tells the server to clear it.
func (c *Client) ClearDeadline(ctx context.Context, todoID int64) error {
	return c.post(ctx, "clear deadline", PathUpdateDeadline, idQuery(todoID))
}

// DeleteTodo removes a todo.
func (c *Client) DeleteTodo(ctx context.Context, todoID int64) error {
	return c.post(ctx, "delete todo", PathDeleteTodo, idQuery(todoID))
}

// CreateTodo submits the creation form.
func (c *Client) CreateTodo(ctx context.Context, t model.NewTodo) error {
	form := url.Values{}
	form.Set("name", t.Name)
	if t.Deadline != nil {
		form.Set("deadline", t.Deadline.String())
	}
	if t.Priority != model.PriorityNone {
		form.Set("priority", string(t.Priority))
	}
	req, err := c.newRequest(ctx, http.MethodPost, PathCreateTodo, nil, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.do("create todo", req)
	if err != nil {
		return err
	}
	return drain(resp)
}

// ListTodos fetches every todo in display form.
func (c *Client) ListTodos(ctx context.Context) ([]model.Row, error) {
	req, err := c.newRequest(ctx, http.MethodGet, PathListTodos, nil, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do("list todos", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var rows []model.Row
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("list todos: decode response: %w", err)
	}
	return rows, nil
}

func (c *Client) post(ctx context.Context, op, path string, q url.Values) error {
	req, err := c.newRequest(ctx, http.MethodPost, path, q, nil)
	if err != nil {
		return err
	}
	resp, err := c.do(op, req)
	if err != nil {
		return err
	}
	return drain(resp)
}

func (c *Client) newRequest(ctx context.Context, method, path string, q url.Values, body io.Reader) (*http.Request, error) {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if q != nil {
		u.RawQuery = q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set(RequestIDHeader, uuid.NewString())
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// do sends req and turns any non-OK answer into an error. On success the
// caller owns resp.Body.
func (c *Client) do(op string, req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("request failed", "op", op, "url", req.URL.Redacted(), "err", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.logger.Debug("request done", "op", op, "url", req.URL.Redacted(), "status", resp.StatusCode,
		"request_id", req.Header.Get(RequestIDHeader), "elapsed", time.Since(start))

	if ok(resp.StatusCode) {
		return resp, nil
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	se := &StatusError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(b)}
	c.logger.Warn("request rejected", "op", op, "status", resp.StatusCode, "msg", se.Message)
	return nil, se
}

func ok(status int) bool {
	return (status >= 200 && status < 300) || status == http.StatusSeeOther
}

func drain(resp *http.Response) error {
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

// errorMessage extracts a message from a JSON error envelope or plain text.
func errorMessage(b []byte) string {
	var env struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(b, &env) == nil && env.Error != "" {
		return env.Error
	}
	s := strings.TrimSpace(string(b))
	if strings.HasPrefix(s, "<") {
		return ""
	}
	return s
}

func idQuery(todoID int64) url.Values {
	q := url.Values{}
	q.Set(ParamTodoID, strconv.FormatInt(todoID, 10))
	return q
}
