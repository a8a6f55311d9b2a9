package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/kermes/kermes-panel/pkg/auth"
	pkgerrors "github.com/kermes/kermes-panel/pkg/errors"
	"github.com/kermes/kermes-panel/pkg/logger"
	"github.com/kermes/kermes-panel/pkg/metrics"
	"github.com/kermes/kermes-panel/pkg/multipart"
	"golang.org/x/time/rate"
)

const (
	// LoginPath is the only route sent without a bearer token.
	LoginPath = "login"

	defaultTimeout       = 15 * time.Second
	responseBodyMaxBytes = 10 << 20
)

// ErrLoginRequired marks requests aborted because the session holds no usable token.
var ErrLoginRequired = errors.New("login required")

var numericSegment = regexp.MustCompile(`/\d+(/|$)`)

// TokenSource yields the bearer token of the caller's session.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	ClearToken(ctx context.Context) error
}

// UnauthorizedHook runs whenever the caller must be sent back to the login screen.
type UnauthorizedHook func(ctx context.Context)

// Client talks to the Kermes REST API on behalf of one panel session per request context.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenSource
	onUnauthorized UnauthorizedHook
	limiter        *rate.Limiter
	metrics        *metrics.APIClientMetrics
	logg           *logger.Logger
	now            func() time.Time
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTokenSource injects the session token lookup.
func WithTokenSource(tokens TokenSource) Option {
	return func(c *Client) {
		c.tokens = tokens
	}
}

// WithUnauthorizedHook registers the callback fired on missing, expired or rejected tokens.
func WithUnauthorizedHook(hook UnauthorizedHook) Option {
	return func(c *Client) {
		c.onUnauthorized = hook
	}
}

// WithRateLimit throttles outbound requests. rps <= 0 disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithMetrics records request counts and latencies.
func WithMetrics(m *metrics.APIClientMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger sets the logger used for failed requests.
func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		if logg != nil {
			c.logg = logg
		}
	}
}

// WithClock overrides the clock used for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// New builds a client rooted at baseURL (e.g. http://kermes.test/api).
func New(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("api base url is required")
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("parsing api base url: %w", err)
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logg:       logger.Nop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Request describes one call. Body is JSON-encoded unless it is a *multipart.Body.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Get issues a GET and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// Post issues a POST with a JSON or multipart body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, out)
}

// Do sends req and decodes a successful response body into out (when non-nil).
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	path := strings.Trim(strings.TrimSpace(req.Path), "/")
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	ctx = c.logg.WithAPICall(ctx, method, path)

	var token string
	if path != LoginPath {
		var err error
		token, err = c.bearerToken(ctx)
		if err != nil {
			return err
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			c.metrics.IncRejected("rate_limited")
			return pkgerrors.Wrap(pkgerrors.CodeRateLimit, err, "api rate limit wait aborted")
		}
	}

	httpReq, err := c.buildRequest(ctx, method, path, req)
	if err != nil {
		return err
	}
	if token != "" {
		httpReq.Header.Set("Authorization", auth.BearerHeader(token))
	}

	started := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.Observe(resourceLabel(path), method, 0, time.Since(started))
		wrapped := pkgerrors.Wrap(pkgerrors.CodeDependency, err, "api request failed")
		c.logg.Error(ctx, "api.request.failed", wrapped)
		return wrapped
	}
	defer func() { _ = resp.Body.Close() }()
	c.metrics.Observe(resourceLabel(path), method, resp.StatusCode, time.Since(started))

	body, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyMaxBytes))
	if err != nil {
		wrapped := pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read api response")
		c.logg.Error(ctx, "api.response.read_failed", wrapped)
		return wrapped
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || len(bytes.TrimSpace(body)) == 0 {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			wrapped := pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decode api response").WithUpstreamStatus(resp.StatusCode)
			c.logg.Error(ctx, "api.response.decode_failed", wrapped)
			return wrapped
		}
		return nil
	}

	apiErr := errorFromResponse(resp.StatusCode, body)
	logCtx := c.logg.WithField(ctx, "api_status", resp.StatusCode)
	if resp.StatusCode == http.StatusUnauthorized {
		c.logg.Warn(logCtx, "api.request.unauthorized")
		if path != LoginPath {
			c.dropSession(ctx)
		}
		return apiErr
	}
	if resp.StatusCode == http.StatusUnprocessableEntity {
		c.logg.Warn(logCtx, "api.request.validation_failed")
		return apiErr
	}
	c.logg.Error(logCtx, "api.request.failed", apiErr)
	return apiErr
}

func (c *Client) bearerToken(ctx context.Context) (string, error) {
	if c.tokens == nil {
		c.metrics.IncRejected("missing_token")
		c.fireUnauthorized(ctx)
		return "", loginRequired()
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		wrapped := pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read session token")
		c.logg.Error(ctx, "api.session.token_failed", wrapped)
		return "", wrapped
	}
	token = strings.TrimSpace(token)
	if token == "" {
		c.metrics.IncRejected("missing_token")
		c.fireUnauthorized(ctx)
		return "", loginRequired()
	}
	if auth.Expired(token, c.now()) {
		c.metrics.IncRejected("expired_token")
		c.logg.Warn(ctx, "api.session.token_expired")
		c.dropSession(ctx)
		return "", loginRequired()
	}
	return token, nil
}

func (c *Client) dropSession(ctx context.Context) {
	if c.tokens != nil {
		if err := c.tokens.ClearToken(ctx); err != nil {
			c.logg.Error(ctx, "api.session.clear_failed", err)
		}
	}
	c.fireUnauthorized(ctx)
}

func (c *Client) fireUnauthorized(ctx context.Context) {
	if c.onUnauthorized != nil {
		c.onUnauthorized(ctx)
	}
}

func (c *Client) buildRequest(ctx context.Context, method, path string, req Request) (*http.Request, error) {
	target := c.baseURL + "/" + path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch b := req.Body.(type) {
	case nil:
	case *multipart.Body:
		if b != nil {
			body = b.Buf
			contentType = b.ContentType
		}
	default:
		payload, err := json.Marshal(b)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal api request")
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build api request")
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	return httpReq, nil
}

func loginRequired() error {
	return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, ErrLoginRequired, LoginRequiredMessage)
}

// resourceLabel collapses ids so metric labels stay bounded.
func resourceLabel(path string) string {
	label := "/" + path
	for numericSegment.MatchString(label) {
		label = numericSegment.ReplaceAllString(label, "/:id$1")
	}
	return strings.TrimPrefix(label, "/")
}
