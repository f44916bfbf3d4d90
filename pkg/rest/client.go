package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"megalodon/pkg/megalodon"

	"resty.dev/v3"
)

var errCanceledByClient = errors.New("rest: canceled by client")

// Client is a thin resty wrapper shared by the platform packages. Cancel aborts every
// non-streaming request in flight without affecting later ones.
type Client struct {
	client    *resty.Client
	baseURL   string
	token     string
	userAgent string
	logger    *slog.Logger

	mu          sync.Mutex
	scope       context.Context
	cancelScope context.CancelFunc
}

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, &megalodon.ArgumentError{Argument: "base url", Reason: "is required"}
	}
	if cfg.TransportSettings == nil {
		cfg.TransportSettings = DefaultTransportSettings
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	c, err := newResty(cfg)
	if err != nil {
		return nil, err
	}
	c.SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("User-Agent", cfg.UserAgent).
		AddResponseMiddleware(metricMiddleware)

	if cfg.AccessToken != "" {
		c.SetAuthToken(cfg.AccessToken)
	}

	scope, cancel := context.WithCancel(context.Background())

	return &Client{
		client:      c,
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		token:       cfg.AccessToken,
		userAgent:   cfg.UserAgent,
		logger:      cfg.Logger.With("component", "rest.Client"),
		scope:       scope,
		cancelScope: cancel,
	}, nil
}

// newResty routes traffic through the configured proxy. SOCKS4 proxies need their own dialer
// because the standard transport only speaks HTTP CONNECT and SOCKS5.
func newResty(cfg Config) (*resty.Client, error) {
	if cfg.Proxy == nil {
		return resty.NewWithTransportSettings(cfg.TransportSettings), nil
	}

	proxyURL, err := cfg.Proxy.URL()
	if err != nil {
		return nil, err
	}
	if !cfg.Proxy.SOCKS4() {
		return resty.NewWithTransportSettings(cfg.TransportSettings).SetProxy(proxyURL.String()), nil
	}

	dial, err := cfg.Proxy.DialContext()
	if err != nil {
		return nil, err
	}
	ts := cfg.TransportSettings
	return resty.NewWithClient(&http.Client{
		Transport: &http.Transport{
			DialContext:           dial,
			IdleConnTimeout:       ts.IdleConnTimeout,
			TLSHandshakeTimeout:   ts.TLSHandshakeTimeout,
			ExpectContinueTimeout: ts.ExpectContinueTimeout,
			ResponseHeaderTimeout: ts.ResponseHeaderTimeout,
		},
	}), nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) AccessToken() string {
	return c.token
}

// Cancel aborts in-flight requests; they fail with *megalodon.RequestCanceledError.
func (c *Client) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelScope()
	c.scope, c.cancelScope = context.WithCancel(context.Background())
}

func (c *Client) Close() error {
	c.mu.Lock()
	c.cancelScope()
	c.mu.Unlock()

	return c.client.Close()
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, result any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, result)
}

func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, result)
}

func (c *Client) Put(ctx context.Context, path string, body, result any) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, result)
}

func (c *Client) Patch(ctx context.Context, path string, body, result any) error {
	return c.Do(ctx, http.MethodPatch, path, nil, body, result)
}

func (c *Client) Delete(ctx context.Context, path string, body, result any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, body, result)
}

// Do sends a request and decodes a JSON response into result when it is not nil.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, result any) error {
	ctx, done := c.withScope(ctx)
	defer done()

	req := c.client.R().WithContext(ctx)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	res, err := req.Execute(method, path)
	if err != nil {
		// net/http reports the cancellation cause, not context.Canceled.
		if errors.Is(err, errCanceledByClient) || errors.Is(context.Cause(ctx), errCanceledByClient) {
			return &megalodon.RequestCanceledError{Method: method, Path: path, Err: err}
		}
		return fmt.Errorf("rest: %s %s: %w", method, path, err)
	}
	if res.IsError() {
		return responseError(res.StatusCode(), res.String())
	}

	c.logger.Debug("Request finished", "method", method, "path", path, "status", res.StatusCode())
	return nil
}

// Stream opens a long-lived GET request. It is not bound to Cancel: the caller owns the body.
func (c *Client) Stream(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("rest: stream url: %w", err)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	return c.client.Client().Do(req)
}

// withScope merges ctx with the client's cancellation scope.
func (c *Client) withScope(ctx context.Context) (context.Context, func()) {
	c.mu.Lock()
	scope := c.scope
	c.mu.Unlock()

	ctx, cancel := context.WithCancelCause(ctx)
	stop := context.AfterFunc(scope, func() {
		cancel(errCanceledByClient)
	})

	return ctx, func() {
		stop()
		cancel(nil)
	}
}

// responseError extracts the message of a Mastodon ({"error": "..."}) or Misskey
// ({"error": {"message": "..."}}) error body.
func responseError(status int, body string) *megalodon.ResponseError {
	var payload struct {
		Error json.RawMessage `json:"error"`
	}
	_ = json.Unmarshal([]byte(body), &payload)

	var message string
	if err := json.Unmarshal(payload.Error, &message); err != nil {
		var detail struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(payload.Error, &detail)
		message = detail.Message
	}

	return &megalodon.ResponseError{
		StatusCode: status,
		Message:    message,
		Body:       body,
	}
}
