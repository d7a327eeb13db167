// Package apiclient calls the cinema backend on behalf of one user. It attaches the bearer token,
// refreshes it at most once at a time when the backend answers 401, and replays the requests that
// were waiting for that refresh.
package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/cinebook/booking-gateway/internal/gwerrors"
	"github.com/cinebook/booking-gateway/internal/models"
	"github.com/cinebook/booking-gateway/internal/tokenstore"
)

const (
	defaultRefreshPath    = "/auth/refresh"
	defaultRefreshTimeout = 10 * time.Second
	requestIDHeader       = "X-Request-ID"
)

var defaultPublicPaths = []string{"/auth/login", "/users/register"}

// refreshResult is what a waiting request receives once the shared refresh settles
type refreshResult struct {
	access string
	err    error
}

type waiter struct {
	path string
	ch   chan refreshResult
}

// lookuper is implemented by stores backed by a database, where a read can fail
type lookuper interface {
	Lookup(ctx context.Context) (models.TokenPair, error)
}

type Client struct {
	baseURL        *url.URL
	httpClient     *http.Client
	store          tokenstore.Store
	refreshPath    string
	publicPaths    []string
	refreshTimeout time.Duration
	idGenerator    models.IDGenerator

	lock       sync.Mutex
	refreshing bool
	waiters    []waiter
	// settleHook is only set in tests
	settleHook func(path string, err error)
}

type ClientOption func(*Client) error

func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) error {
		parsed, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
		if err != nil {
			return err
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("the base url %q is not absolute", baseURL)
		}
		c.baseURL = parsed
		return nil
	}
}

func WithTokenStore(store tokenstore.Store) ClientOption {
	return func(c *Client) error {
		c.store = store
		return nil
	}
}

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) error {
		c.httpClient = httpClient
		return nil
	}
}

func WithRefreshPath(path string) ClientOption {
	return func(c *Client) error {
		c.refreshPath = "/" + strings.TrimPrefix(path, "/")
		return nil
	}
}

// WithPublicPaths lists the endpoints where a 401 means bad credentials rather than an expired session
func WithPublicPaths(paths ...string) ClientOption {
	return func(c *Client) error {
		c.publicPaths = []string{}
		for _, path := range paths {
			c.publicPaths = append(c.publicPaths, "/"+strings.TrimPrefix(path, "/"))
		}
		return nil
	}
}

func WithRefreshTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) error {
		if timeout <= 0 {
			return fmt.Errorf("the refresh timeout has to be positive")
		}
		c.refreshTimeout = timeout
		return nil
	}
}

func WithIDGenerator(generator models.IDGenerator) ClientOption {
	return func(c *Client) error {
		c.idGenerator = generator
		return nil
	}
}

func NewClient(options ...ClientOption) (*Client, error) {
	c := &Client{
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		refreshPath:    defaultRefreshPath,
		publicPaths:    defaultPublicPaths,
		refreshTimeout: defaultRefreshTimeout,
		idGenerator:    models.ULIDGenerator{},
	}
	for _, opt := range options {
		err := opt(c)
		if err != nil {
			return nil, err
		}
	}
	if c.baseURL == nil {
		return nil, fmt.Errorf("the base url is not initialized")
	}
	if c.store == nil {
		return nil, fmt.Errorf("the token store is not initialized")
	}
	return c, nil
}

// TokenStore returns the store the client reads and updates
func (c *Client) TokenStore() tokenstore.Store {
	return c.store
}

// Pending is the number of requests waiting for the refresh in flight
func (c *Client) Pending() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return len(c.waiters)
}

func (c *Client) Refreshing() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.refreshing
}

func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodGet, path, nil, opts...)
}

func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodPost, path, body, opts...)
}

func (c *Client) Put(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodPut, path, body, opts...)
}

func (c *Client) Patch(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodPatch, path, body, opts...)
}

func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodDelete, path, nil, opts...)
}

// Request sends a request to the backend. A 2xx or 3xx answer is returned as a Response, anything
// else as ErrAuthExpired, *APIError or *NetworkError.
func (c *Client) Request(ctx context.Context, method string, path string, body any, opts ...RequestOption) (*Response, error) {
	spec, err := newRequestSpec(method, path, body, opts...)
	if err != nil {
		return nil, err
	}
	access := ""
	if !spec.skipAuth {
		tokens, ok := c.store.Get(ctx)
		if ok {
			access = tokens.Access
		}
	}
	return c.attempt(ctx, spec, access, false)
}

func (c *Client) attempt(ctx context.Context, spec *requestSpec, access string, replayed bool) (*Response, error) {
	resp, err := c.send(ctx, spec, access)
	if err != nil {
		return nil, err
	}
	switch classify(resp) {
	case outcomeOK:
		return resp, nil
	case outcomeUnauthorized:
		return c.handleUnauthorized(ctx, spec, access, replayed, resp)
	default:
		return nil, newAPIError(resp)
	}
}

// handleUnauthorized decides what to do with a 401 answer
func (c *Client) handleUnauthorized(
	ctx context.Context,
	spec *requestSpec,
	access string,
	replayed bool,
	resp *Response,
) (*Response, error) {
	if spec.skipAuth || slices.Contains(c.publicPaths, spec.path) {
		return nil, newAPIError(resp)
	}
	if spec.path == c.refreshPath || replayed {
		c.expire(ctx, spec)
		return nil, ErrAuthExpired
	}

	c.lock.Lock()
	if c.refreshing {
		ch := make(chan refreshResult, 1)
		c.waiters = append(c.waiters, waiter{path: spec.path, ch: ch})
		c.lock.Unlock()
		slog.Debug("API CLIENT", "message", "waiting for the refresh in flight", "method", spec.method, "path", spec.path)
		select {
		case res := <-ch:
			if res.err != nil {
				return nil, res.err
			}
			return c.attempt(ctx, spec, res.access, true)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	tokens, err := c.lookup(ctx)
	if err != nil {
		c.lock.Unlock()
		slog.Error("API CLIENT", "message", "cannot read the stored tokens", "path", spec.path, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrTokenStoreUnavailable, err)
	}
	if tokens.Refresh == "" {
		c.lock.Unlock()
		c.expire(ctx, spec)
		return nil, ErrAuthExpired
	}
	if tokens.Access != access {
		// another caller refreshed after this request was sent
		c.lock.Unlock()
		return c.attempt(ctx, spec, tokens.Access, true)
	}
	c.refreshing = true
	c.lock.Unlock()

	res := c.refresh(ctx, tokens)

	c.lock.Lock()
	waiters := c.waiters
	c.waiters = nil
	c.refreshing = false
	c.lock.Unlock()
	for _, w := range waiters {
		w.ch <- res
		if c.settleHook != nil {
			c.settleHook(w.path, res.err)
		}
	}
	if res.err != nil {
		return nil, res.err
	}
	return c.attempt(ctx, spec, res.access, true)
}

// refresh exchanges the refresh token for a new access token. It is detached from the caller's
// cancellation because queued requests depend on its outcome.
func (c *Client) refresh(ctx context.Context, tokens models.TokenPair) refreshResult {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.refreshTimeout)
	defer cancel()
	spec, err := newRequestSpec(http.MethodPost, c.refreshPath, map[string]string{"refreshToken": tokens.Refresh})
	if err != nil {
		return refreshResult{err: err}
	}
	resp, err := c.send(rctx, spec, "")
	if err != nil {
		slog.Error("API CLIENT", "message", "the token refresh could not reach the backend", "error", err)
		return refreshResult{err: err}
	}
	if classify(resp) != outcomeOK {
		slog.Info("API CLIENT", "message", "the token refresh was refused", "status", resp.StatusCode)
		c.expire(rctx, spec)
		return refreshResult{err: ErrAuthExpired}
	}
	fresh, err := ParseTokenPair(resp.Body)
	if err != nil {
		slog.Error("API CLIENT", "message", "the token refresh response is malformed", "error", err)
		c.expire(rctx, spec)
		return refreshResult{err: ErrAuthExpired}
	}
	updated := tokens.WithAccess(fresh.Access, fresh.Refresh)
	err = c.store.Set(rctx, updated)
	if err != nil {
		slog.Error("API CLIENT", "message", "cannot save the refreshed tokens", "error", err)
		return refreshResult{err: fmt.Errorf("cannot save the refreshed tokens: %w", err)}
	}
	slog.Debug("API CLIENT", "message", "tokens refreshed", "tokens", updated)
	return refreshResult{access: updated.Access}
}

// lookup returns the stored tokens, an empty pair when there are none
func (c *Client) lookup(ctx context.Context) (models.TokenPair, error) {
	l, ok := c.store.(lookuper)
	if !ok {
		tokens, _ := c.store.Get(ctx)
		return tokens, nil
	}
	tokens, err := l.Lookup(ctx)
	if errors.Is(err, gwerrors.ErrTokenNotFound) {
		return models.TokenPair{}, nil
	}
	return tokens, err
}

func (c *Client) expire(ctx context.Context, spec *requestSpec) {
	err := c.store.Clear(context.WithoutCancel(ctx))
	if err != nil {
		slog.Error("API CLIENT", "message", "cannot clear the expired tokens", "path", spec.path, "error", err)
	}
}

func (c *Client) url(spec *requestSpec) string {
	output := c.baseURL.String() + spec.path
	if len(spec.query) > 0 {
		output += "?" + spec.query.Encode()
	}
	return output
}

func (c *Client) send(ctx context.Context, spec *requestSpec, access string) (*Response, error) {
	target := c.url(spec)
	var body io.Reader
	if spec.body != nil {
		body = bytes.NewReader(spec.body)
	}
	req, err := http.NewRequestWithContext(ctx, spec.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("cannot create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if spec.contentType != "" {
		req.Header.Set("Content-Type", spec.contentType)
	}
	for key, value := range spec.header {
		req.Header.Set(key, value)
	}
	requestID, err := c.idGenerator.ID()
	if err == nil {
		req.Header.Set(requestIDHeader, requestID)
	}
	if access != "" && !spec.skipAuth {
		req.Header.Set("Authorization", "Bearer "+access)
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: spec.method, URL: target, Err: err}
	}
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &NetworkError{Op: spec.method, URL: target, Err: err}
	}
	slog.Debug(
		"API CLIENT",
		"message",
		"backend responded",
		"method",
		spec.method,
		"path",
		spec.path,
		"status",
		res.StatusCode,
		"requestID",
		requestID,
	)
	return &Response{StatusCode: res.StatusCode, Header: res.Header, Body: raw}, nil
}
