package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/pilightctl/internal/logging"
	"github.com/muurk/pilightctl/internal/params"
	"github.com/muurk/pilightctl/internal/version"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for bootstrap
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the default delay between retry attempts
	DefaultRetryDelay = 500 * time.Millisecond

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 10 * time.Second

	// CSRFHeader carries the session's CSRF token on every POST
	CSRFHeader = "X-CSRFToken"
)

// API paths
const (
	PathBootstrap         = "/api/"
	PathConfigSave        = "/api/config/save/"
	PathConfigLoad        = "/api/config/load/"
	PathConfigDelete      = "/api/config/delete/"
	PathDriverStart       = "/api/driver/start/"
	PathDriverStop        = "/api/driver/stop/"
	PathDriverRestart     = "/api/driver/restart/"
	PathTransformAdd      = "/api/transform/add/"
	PathTransformUpdate   = "/api/transform/update/"
	PathTransformDelete   = "/api/transform/delete/"
	PathTransformReorder  = "/api/transform/reorder/"
	PathVariableUpdate    = "/api/variable/update/"
	PathVariableDelete    = "/api/variable/delete/"
	PathAuth              = "/auth/"
	contentTypeJSON       = "application/json"
	contentTypeForm       = "application/x-www-form-urlencoded"
	maxResponseBodyLength = 8 << 20
)

// Client talks to a pilight backend over its JSON HTTP API.
//
// Only the bootstrap GET is retried. POST commands are sent exactly once: a
// failed save or load is surfaced to the user instead of being replayed.
type Client struct {
	// BaseURL is the backend root (e.g., "http://pilight.local:8000")
	BaseURL string

	// HTTPClient is the underlying HTTP client; it carries the session cookie jar
	HTTPClient *http.Client

	// MaxRetries is the maximum number of retry attempts for bootstrap
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts
	RetryDelay time.Duration

	// MaxRetryDelay is the maximum delay for exponential backoff
	MaxRetryDelay time.Duration

	// UseExponentialBackoff enables exponential backoff for retries
	UseExponentialBackoff bool

	mu        sync.RWMutex
	csrfToken string
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		BaseURL:               strings.TrimRight(baseURL, "/"),
		HTTPClient:            &http.Client{Timeout: DefaultTimeout, Jar: jar},
		MaxRetries:            DefaultMaxRetries,
		RetryDelay:            DefaultRetryDelay,
		MaxRetryDelay:         DefaultMaxRetryDelay,
		UseExponentialBackoff: true,
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetRetry configures bootstrap retry behavior
func (c *Client) SetRetry(maxRetries int, retryDelay time.Duration) {
	c.MaxRetries = maxRetries
	c.RetryDelay = retryDelay
}

// CSRFToken returns the token learned from the last bootstrap.
func (c *Client) CSRFToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.csrfToken
}

// SetCSRFToken overrides the CSRF token.
func (c *Client) SetCSRFToken(token string) {
	c.mu.Lock()
	c.csrfToken = token
	c.mu.Unlock()
}

// Ping checks that the backend answers the bootstrap endpoint.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.bootstrapAttempt(ctx)
	return err
}

// Bootstrap fetches the full session state. Retryable failures are retried
// with exponential backoff; the CSRF token of a successful reply is kept for
// later POSTs.
func (c *Client) Bootstrap(ctx context.Context) (*BootstrapData, error) {
	var lastErr error
	currentDelay := c.RetryDelay

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			logging.Debug("Retrying bootstrap",
				zap.Int("attempt", attempt),
				zap.Duration("delay", currentDelay),
			)
			select {
			case <-ctx.Done():
				return nil, NewNetworkError("bootstrap cancelled", ctx.Err())
			case <-time.After(currentDelay):
			}

			if c.UseExponentialBackoff {
				currentDelay *= 2
				if currentDelay > c.MaxRetryDelay {
					currentDelay = c.MaxRetryDelay
				}
			}
		}

		data, err := c.bootstrapAttempt(ctx)
		if err == nil {
			if data.CSRFToken != "" {
				c.SetCSRFToken(data.CSRFToken)
			}
			return data, nil
		}

		lastErr = err
		if !IsRetryable(err) {
			return nil, err
		}
	}

	return nil, lastErr
}

func (c *Client) bootstrapAttempt(ctx context.Context) (*BootstrapData, error) {
	var data BootstrapData
	if err := c.Get(ctx, PathBootstrap, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Get fetches path and decodes the reply into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return NewNetworkError("failed to create GET request", err)
	}
	req.Header.Set("Accept", contentTypeJSON)
	return c.do(req, path, nil, out)
}

// Post sends body as JSON to path and decodes the reply into out. A nil body
// sends no request body; a nil out discards the reply. Replies with
// "success": false become an ErrTypeApplication error carrying the backend's
// message. An empty reply body counts as success.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return &Error{Type: ErrTypeParse, Message: "failed to encode request", Path: path, Err: err}
		}
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, reader)
	if err != nil {
		return NewNetworkError("failed to create POST request", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}
	req.Header.Set("Accept", contentTypeJSON)

	return c.do(req, path, payload, out)
}

// PostForm sends form url-encoded to path. logged is what the request log
// shows in place of the encoded form.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, logged []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return NewNetworkError("failed to create POST request", err)
	}
	req.Header.Set("Content-Type", contentTypeForm)
	req.Header.Set("Accept", contentTypeJSON)
	return c.do(req, path, logged, out)
}

func (c *Client) do(req *http.Request, path string, payload []byte, out any) error {
	req.Header.Set("User-Agent", version.UserAgent())
	if token := c.CSRFToken(); token != "" && req.Method == http.MethodPost {
		req.Header.Set(CSRFHeader, token)
	}

	logging.LogRequest(req.Method, path, payload)
	start := time.Now()

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		apiErr := NewNetworkError(fmt.Sprintf("%s %s failed", req.Method, path), err)
		apiErr.Path = path
		return apiErr
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyLength))
	logging.LogResponse(req.Method, path, resp.StatusCode, time.Since(start), respBody)
	if err != nil {
		apiErr := NewNetworkError("failed to read response body", err)
		apiErr.Path = path
		return apiErr
	}

	if err := checkStatus(resp.StatusCode, respBody); err != nil {
		err.Path = path
		return err
	}

	return decode(path, respBody, out)
}

func checkStatus(status int, body []byte) *Error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return NewAuthError(status, fmt.Sprintf("access denied (HTTP %d)", status))
	case status == http.StatusFound || status == http.StatusSeeOther:
		// login_required style redirect that the client did not follow
		return NewAuthError(status, "redirected to login")
	case status < 200 || status > 299:
		msg := strings.TrimSpace(string(body))
		if len(msg) > 200 {
			msg = msg[:200]
		}
		return NewHTTPError(status, fmt.Sprintf("unexpected status %d: %s", status, msg))
	}
	return nil
}

func decode(path string, body []byte, out any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}

	// Only object replies carry the success envelope.
	if trimmed[0] == '{' {
		var env envelope
		if err := json.Unmarshal(body, &env); err != nil {
			return &Error{Type: ErrTypeParse, Message: "failed to parse JSON response", Path: path, Err: err}
		}
		if env.Success != nil && !*env.Success {
			apiErr := NewApplicationError(env.Error)
			apiErr.Path = path
			return apiErr
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Type: ErrTypeParse, Message: "failed to parse JSON response", Path: path, Err: err}
	}
	return nil
}

// SaveConfig stores the current lights and transforms under name and returns
// the updated config list.
func (c *Client) SaveConfig(ctx context.Context, name string) ([]Config, error) {
	var reply configsReply
	if err := c.Post(ctx, PathConfigSave, map[string]any{"configName": name}, &reply); err != nil {
		return nil, err
	}
	return reply.Configs, nil
}

// LoadConfig makes config id the current setup. The reply carries nothing
// useful: callers bootstrap again afterwards.
func (c *Client) LoadConfig(ctx context.Context, id int) error {
	return c.Post(ctx, PathConfigLoad, map[string]any{"id": id}, nil)
}

// DeleteConfig removes config id and returns the updated config list.
func (c *Client) DeleteConfig(ctx context.Context, id int) ([]Config, error) {
	var reply configsReply
	if err := c.Post(ctx, PathConfigDelete, map[string]any{"id": id}, &reply); err != nil {
		return nil, err
	}
	return reply.Configs, nil
}

// StartDriver starts the light driver, on the given playlist if one is set.
func (c *Client) StartDriver(ctx context.Context, playlistID *int) error {
	body := map[string]any{}
	if playlistID != nil {
		body["id"] = *playlistID
	}
	return c.Post(ctx, PathDriverStart, body, nil)
}

// StopDriver stops the light driver.
func (c *Client) StopDriver(ctx context.Context) error {
	return c.Post(ctx, PathDriverStop, nil, nil)
}

// RestartDriver restarts the light driver so it picks up the current setup.
func (c *Client) RestartDriver(ctx context.Context) error {
	return c.Post(ctx, PathDriverRestart, nil, nil)
}

// AddTransform appends a transform of the given type with its default
// params and returns the new active list.
func (c *Client) AddTransform(ctx context.Context, typeID int) ([]params.Entity, error) {
	var reply transformsReply
	if err := c.Post(ctx, PathTransformAdd, map[string]any{"id": typeID}, &reply); err != nil {
		return nil, err
	}
	return reply.ActiveTransforms, nil
}

// UpdateTransform replaces the params and bindings of transform id and
// returns the confirmed transform.
func (c *Client) UpdateTransform(ctx context.Context, id int, p params.Params, vp params.VariableParams) (params.Entity, error) {
	body := map[string]any{
		"id":             id,
		"params":         nonNilParams(p),
		"variableParams": nonNilVariableParams(vp),
	}
	var reply transformReply
	if err := c.Post(ctx, PathTransformUpdate, body, &reply); err != nil {
		return params.Entity{}, err
	}
	return reply.Transform, nil
}

// DeleteTransform removes transform id and returns the new active list.
func (c *Client) DeleteTransform(ctx context.Context, id int) ([]params.Entity, error) {
	var reply transformsReply
	if err := c.Post(ctx, PathTransformDelete, map[string]any{"id": id}, &reply); err != nil {
		return nil, err
	}
	return reply.ActiveTransforms, nil
}

// ReorderTransforms persists the order of the active transforms.
func (c *Client) ReorderTransforms(ctx context.Context, ids []int) ([]params.Entity, error) {
	if ids == nil {
		ids = []int{}
	}
	var reply transformsReply
	if err := c.Post(ctx, PathTransformReorder, map[string]any{"order": ids}, &reply); err != nil {
		return nil, err
	}
	return reply.ActiveTransforms, nil
}

// UpdateVariable replaces the name and params of variable id and returns
// the confirmed variable.
func (c *Client) UpdateVariable(ctx context.Context, id int, name string, p params.Params) (params.Entity, error) {
	body := map[string]any{
		"id":     id,
		"name":   name,
		"params": nonNilParams(p),
	}
	var reply variableReply
	if err := c.Post(ctx, PathVariableUpdate, body, &reply); err != nil {
		return params.Entity{}, err
	}
	return reply.Variable, nil
}

// DeleteVariable removes variable id and returns the remaining variables.
func (c *Client) DeleteVariable(ctx context.Context, id int) ([]params.Entity, error) {
	var reply variablesReply
	if err := c.Post(ctx, PathVariableDelete, map[string]any{"id": id}, &reply); err != nil {
		return nil, err
	}
	return reply.Variables, nil
}

// Login authenticates the session. The session cookie is kept in the
// client's cookie jar.
func (c *Client) Login(ctx context.Context, username, password string) error {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var reply loginReply
	if err := c.PostForm(ctx, PathAuth, form, []byte("username="+url.QueryEscape(username)), &reply); err != nil {
		return err
	}
	if reply.Result != LoginAuthenticated {
		apiErr := NewAuthError(0, fmt.Sprintf("login rejected: %s", reply.Result))
		apiErr.Path = PathAuth
		return apiErr
	}
	return nil
}

func nonNilParams(p params.Params) params.Params {
	if p == nil {
		return params.Params{}
	}
	return p
}

func nonNilVariableParams(vp params.VariableParams) params.VariableParams {
	if vp == nil {
		return params.VariableParams{}
	}
	return vp
}
