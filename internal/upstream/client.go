// Package upstream performs the outbound HTTP calls to the search engines.
//
// Every call carries the engine's timeout and passes the engine's rate
// limiter. Nothing is retried: a failed call is reported once and the caller
// decides what the failure means for its request.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/MrSnakeDoc/libgate/internal/ratelimit"
	"github.com/MrSnakeDoc/libgate/internal/utils"
	"github.com/MrSnakeDoc/libgate/internal/version"
)

const (
	defaultMaxBodySize = 8 << 20
	errorBodyPreview   = 512
)

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// StatusError is returned when the engine answers with a non-2xx status.
type StatusError struct {
	Engine string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Engine, e.Status, e.Body)
}

// Client is an engine-scoped HTTP client.
type Client struct {
	name        string
	httpClient  HTTPDoer
	rateLimiter *ratelimit.Limiter
	timeout     time.Duration
	maxBodySize int64
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithRateLimiter sets the limiter shared by every call of this engine.
func WithRateLimiter(limiter *ratelimit.Limiter) Option {
	return func(client *Client) {
		client.rateLimiter = limiter
	}
}

// WithMaxBodySize caps how many bytes of a response body are read.
func WithMaxBodySize(n int64) Option {
	return func(client *Client) {
		if n > 0 {
			client.maxBodySize = n
		}
	}
}

// New creates a client for the named engine with a fixed per-call timeout.
func New(name string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		name:        name,
		httpClient:  &http.Client{Timeout: timeout},
		timeout:     timeout,
		maxBodySize: defaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the engine name.
func (c *Client) Name() string { return c.name }

// Timeout returns the per-call deadline applied by Do.
func (c *Client) Timeout() time.Duration { return c.timeout }

// Get issues a GET to rawURL with optional headers and returns the body.
func (c *Client) Get(ctx context.Context, rawURL string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", c.name, err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if host := header.Get("Host"); host != "" {
		req.Host = host
	}
	return c.Do(req)
}

// Do executes req under the engine timeout and returns the response body.
func (c *Client) Do(req *http.Request) ([]byte, error) {
	ctx := req.Context()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", version.UserAgent())
	}

	resp, err := c.httpClient.Do(req.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("%s: request failed: %w", c.name, err)
	}
	defer utils.DrainAndClose(resp.Body, c.maxBodySize)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyPreview))
		return nil, &StatusError{Engine: c.name, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read body: %w", c.name, err)
	}
	return body, nil
}

// IsTimeout reports whether err was caused by a deadline.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
