// Package api is the single HTTP gateway to the CRM backend. Every
// component talks to the backend through it, so the cross-cutting
// contracts live here once: bearer auth, request ids, the 401 session
// kill switch, and error message extraction.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrUnreachable marks a transport-level failure: the backend did not
// answer at all.
var ErrUnreachable = errors.New("cannot reach the CRM backend")

// ErrUnauthorized marks an authentication-rejected response. By the
// time a caller sees it the unauthorized hook has already fired.
var ErrUnauthorized = errors.New("session expired")

// UnreachableHint is the operator-facing message for ErrUnreachable.
const UnreachableHint = "Cannot reach the server. Make sure the CRM backend is running (cmd/devserver for local development)."

// Error is a non-2xx backend response with its extracted message.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// TokenSource yields the current bearer token, or "" when logged out.
type TokenSource func() string

// Client issues JSON requests against the backend base URL.
type Client struct {
	base           string
	httpClient     *http.Client
	token          TokenSource
	onUnauthorized func()
	log            *logrus.Logger
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func WithTokenSource(source TokenSource) Option {
	return func(c *Client) { c.token = source }
}

// WithUnauthorizedHook registers the single side effect run on any
// 401: clear the session and force navigation back to login.
func WithUnauthorizedHook(hook func()) Option {
	return func(c *Client) { c.onUnauthorized = hook }
}

func WithLogger(log *logrus.Logger) Option {
	return func(c *Client) { c.log = log }
}

func New(base string, opts ...Option) *Client {
	c := &Client{
		base:       strings.TrimRight(base, "/"),
		httpClient: http.DefaultClient,
		token:      func() string { return "" },
		log:        logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("path", path).Debug("backend unreachable")
		return fmt.Errorf("%w: %s", ErrUnreachable, UnreachableHint)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.log.WithField("path", path).Info("authentication rejected, clearing session")
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return ErrUnauthorized
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Status: resp.StatusCode, Message: extractMessage(raw, resp.StatusCode)}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// extractMessage pulls a human-readable error out of a backend error
// body, trying the detail/message/error fields in order and falling
// back to the HTTP status text.
func extractMessage(raw []byte, status int) string {
	var body struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
		Err     string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		for _, candidate := range []string{body.Detail, body.Message, body.Err} {
			if strings.TrimSpace(candidate) != "" {
				return candidate
			}
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "Request failed"
}
