// Package apiclient talks to the remote authentication API over HTTP.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nfrund/authform/internal/form"
)

// Endpoint paths relative to the base URL.
const (
	LoginPath    = "login"
	RegisterPath = "register"
)

// Client implements form.APIClient.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: d}
	}
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ form.APIClient = (*Client)(nil)

// errorBody is the failure payload sent by the API.
type errorBody struct {
	Error string `json:"error"`
}

// Login posts credentials and decodes the session from the response.
func (c *Client) Login(ctx context.Context, creds form.Credentials) (form.Session, error) {
	body, err := c.post(ctx, LoginPath, creds)
	if err != nil {
		return form.Session{}, err
	}

	var sess form.Session
	if err := json.Unmarshal(body, &sess); err != nil {
		return form.Session{}, &form.ErrorDetail{Status: http.StatusOK, Err: fmt.Errorf("failed to decode login response: %w", err)}
	}
	if err := form.ValidateSession(sess); err != nil {
		return form.Session{}, &form.ErrorDetail{Status: http.StatusOK, Err: err}
	}
	return sess, nil
}

// Register posts a new account. Any non-empty success body counts as success.
func (c *Client) Register(ctx context.Context, reg form.Registration) error {
	_, err := c.post(ctx, RegisterPath, reg)
	return err
}

// post sends payload as JSON and returns the body of a 2xx response. Any
// other outcome is returned as a *form.ErrorDetail.
func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s request: %w", path, err)
	}

	url := c.baseURL + "/" + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &form.ErrorDetail{Err: fmt.Errorf("failed to make %s request: %w", path, err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &form.ErrorDetail{Status: resp.StatusCode, Err: fmt.Errorf("failed to read %s response: %w", path, err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := &form.ErrorDetail{Status: resp.StatusCode}
		var eb errorBody
		// The message is shown as sent; blank text counts as no message.
		if err := json.Unmarshal(body, &eb); err == nil && strings.TrimSpace(eb.Error) != "" {
			detail.Message = eb.Error
		}
		if detail.Message == "" {
			detail.Err = fmt.Errorf("%s request failed with status %d", path, resp.StatusCode)
		}
		slog.Debug("API request failed", "path", path, "status", resp.StatusCode)
		return nil, detail
	}

	trimmed := bytes.TrimSpace(body)
	if isEmptyBody(trimmed) {
		return nil, &form.ErrorDetail{Status: resp.StatusCode, Err: form.ErrEmptyResponse}
	}
	return trimmed, nil
}

// isEmptyBody reports whether a success body carries no data: nothing at
// all, or a JSON value that holds no information.
func isEmptyBody(b []byte) bool {
	switch string(b) {
	case "", "null", "false", `""`, "0":
		return true
	}
	return false
}
