// Package upstream provides the pooled, retrying HTTP client every
// outbound call in the gateway goes through. One Client is bound to one
// base endpoint; connections are recycled across requests and discarded
// on transport-level failure.
package upstream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultMaxAttempts bounds the retry loop when a request does not
	// override it.
	DefaultMaxAttempts = 5

	defaultAttemptTimeout = 30 * time.Second
)

// ErrUnavailable is returned once every retry attempt against the
// endpoint has been exhausted.
var ErrUnavailable = errors.New("upstream unavailable")

// ErrClosed is returned for requests issued after Close.
var ErrClosed = errors.New("upstream client closed")

// Request describes one upstream call. MaxAttempts of zero uses the
// client default.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Header      http.Header
	Body        []byte
	MaxAttempts int
}

// Client issues requests against a single base endpoint, reusing pooled
// connections. Safe for concurrent use; the pool lock is held only for
// the pop/push, never across network I/O.
type Client struct {
	baseURL        string
	maxAttempts    int
	attemptTimeout time.Duration
	logger         zerolog.Logger

	mu     sync.Mutex
	idle   []*conn
	closed bool
}

// conn owns one transport to the endpoint. Each pooled conn carries its
// own http.Transport so discarding it really tears the socket down
// instead of returning it to a shared keep-alive pool.
type conn struct {
	transport *http.Transport
	hc        *http.Client
}

func newConn(timeout time.Duration) *conn {
	t := &http.Transport{
		MaxIdleConns:    1,
		MaxConnsPerHost: 1,
		IdleConnTimeout: 90 * time.Second,
	}
	return &conn{
		transport: t,
		hc:        &http.Client{Transport: t, Timeout: timeout},
	}
}

func (c *conn) close() {
	c.transport.CloseIdleConnections()
}

// Option configures a Client.
type Option func(*Client)

// WithMaxAttempts sets the default retry budget.
func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithAttemptTimeout bounds each individual attempt.
func WithAttemptTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.attemptTimeout = d
		}
	}
}

// WithLogger overrides the package logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a client for one base endpoint, e.g.
// "https://www.googleapis.com/customsearch/v1".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:        baseURL,
		maxAttempts:    DefaultMaxAttempts,
		attemptTimeout: defaultAttemptTimeout,
		logger:         log.With().Str("component", "upstream").Str("endpoint", baseURL).Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// acquire pops an idle connection or opens a new one. The pool has no
// fixed cap; it grows on demand and shrinks on discard or Close.
func (c *Client) acquire() (*conn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}
	if n := len(c.idle); n > 0 {
		cn := c.idle[n-1]
		c.idle = c.idle[:n-1]
		return cn, nil
	}
	return newConn(c.attemptTimeout), nil
}

// release returns a healthy connection to the pool.
func (c *Client) release(cn *conn) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		cn.close()
		return
	}
	c.idle = append(c.idle, cn)
	c.mu.Unlock()
}

// Do issues the request, retrying up to the attempt budget. A 2xx
// response returns the full body and recycles the connection. A non-2xx
// status is retried on the same (still healthy) connection; a
// transport-level error discards the connection before retrying. Once
// attempts are exhausted it returns ErrUnavailable.
func (c *Client) Do(ctx context.Context, req Request) ([]byte, error) {
	attempts := req.MaxAttempts
	if attempts <= 0 {
		attempts = c.maxAttempts
	}

	u, err := c.buildURL(req)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cn, err := c.acquire()
		if err != nil {
			return nil, err
		}

		body, err := c.attempt(ctx, cn, req, u)
		if err == nil {
			c.release(cn)
			return body, nil
		}
		lastErr = err

		var se statusError
		if errors.As(err, &se) {
			// HTTP-level failure, the connection itself is fine.
			c.release(cn)
			c.logger.Warn().Int("attempt", attempt).Int("status", se.code).Str("path", req.Path).Msg("upstream returned non-success status")
			continue
		}

		cn.close()
		c.logger.Warn().Int("attempt", attempt).Err(err).Str("path", req.Path).Msg("upstream connection failed, discarding")
	}

	return nil, fmt.Errorf("%w: %s %s after %d attempts: %v", ErrUnavailable, req.Method, req.Path, attempts, lastErr)
}

// statusError marks a retryable non-2xx response.
type statusError struct {
	code int
}

func (e statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}

func (c *Client) buildURL(req Request) (string, error) {
	u, err := url.Parse(c.baseURL + req.Path)
	if err != nil {
		return "", fmt.Errorf("invalid upstream url: %w", err)
	}
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}
	return u.String(), nil
}

func (c *Client) attempt(ctx context.Context, cn *conn, req Request, u string) ([]byte, error) {
	actx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	hreq, err := http.NewRequestWithContext(actx, req.Method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			hreq.Header.Add(k, v)
		}
	}

	resp, err := cn.hc.Do(hreq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError{code: resp.StatusCode}
	}
	return data, nil
}

// Close drains the pool and tears down every idle connection. Requests
// issued after Close fail with ErrClosed.
func (c *Client) Close() {
	c.mu.Lock()
	idle := c.idle
	c.idle = nil
	c.closed = true
	c.mu.Unlock()

	for _, cn := range idle {
		cn.close()
	}
}
