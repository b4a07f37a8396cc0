// Package api implements the rate-limited platform API client. Every call is
// preceded by a fixed spacing delay, and 429 responses are retried after a
// longer backoff. All other error statuses fail immediately with the raw
// response body attached for diagnosis.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const (
	// DefaultCallDelay spaces consecutive calls to stay inside the platform's
	// 3-requests-per-10-seconds budget.
	DefaultCallDelay = 4 * time.Second

	// DefaultBackoffDelay is how long to wait after a 429 before retrying.
	DefaultBackoffDelay = 10 * time.Second
)

// Error is a non-429 HTTP failure. The body is kept verbatim so callers can
// surface the upstream payload to the user.
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api request failed with status %d: %s", e.StatusCode, e.Body)
}

// Client issues authenticated requests against the platform API.
type Client struct {
	http          *resty.Client
	callDelay     time.Duration
	backoffDelay  time.Duration
	max429Retries int
	sleep         func(time.Duration)
}

// Option configures a Client.
type Option func(*Client)

// WithCallDelay overrides the fixed pre-call spacing delay.
func WithCallDelay(d time.Duration) Option {
	return func(c *Client) { c.callDelay = d }
}

// WithBackoffDelay overrides the wait applied after a 429 response.
func WithBackoffDelay(d time.Duration) Option {
	return func(c *Client) { c.backoffDelay = d }
}

// WithMax429Retries bounds the number of 429 retries per request.
// Zero keeps the default best-effort behavior of retrying indefinitely.
func WithMax429Retries(n int) Option {
	return func(c *Client) { c.max429Retries = n }
}

// WithSleep substitutes the sleep function, used by tests to record pauses
// instead of waiting them out.
func WithSleep(fn func(time.Duration)) Option {
	return func(c *Client) { c.sleep = fn }
}

// New creates a client for the given API base URL and key. The key is sent on
// every request via the X-API-Key header.
func New(baseURL, apiKey string, opts ...Option) *Client {
	client := &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Accept", "application/json").
			SetHeader("X-API-Key", apiKey),
		callDelay:    DefaultCallDelay,
		backoffDelay: DefaultBackoffDelay,
		sleep:        time.Sleep,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Do issues a single API request and returns the raw response body. The body
// argument may be nil for GET requests. 429 responses are retried after the
// backoff delay; any other status >= 400 fails immediately.
func (c *Client) Do(ctx context.Context, method, path string, body any) ([]byte, error) {
	resp, err := c.execute(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, &Error{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
	}
	return resp.Body(), nil
}

// Exists probes path and reports whether the resource is present. A 404 means
// absent, any 2xx means present, and anything else is a hard error. This is
// the only endpoint-specific deviation from Do's error contract.
func (c *Client) Exists(ctx context.Context, path string) (bool, error) {
	resp, err := c.execute(ctx, http.MethodGet, path, nil)
	if err != nil {
		return false, err
	}
	if resp.StatusCode() == http.StatusNotFound {
		return false, nil
	}
	if resp.IsError() {
		return false, &Error{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
	}
	return true, nil
}

// execute runs the spacing-then-request loop, re-sending the identical
// request after each 429 until a non-429 response arrives or the optional
// retry ceiling is hit.
func (c *Client) execute(ctx context.Context, method, path string, body any) (*resty.Response, error) {
	logger := zerolog.Ctx(ctx)

	for attempt := 0; ; attempt++ {
		c.sleep(c.callDelay)

		request := c.http.R().SetContext(ctx)
		if body != nil {
			request.SetHeader("Content-Type", "application/json").SetBody(body)
		}
		resp, err := request.Execute(method, path)
		if err != nil {
			return nil, fmt.Errorf("%s %s failed: %w", method, path, err)
		}
		if resp.StatusCode() != http.StatusTooManyRequests {
			return resp, nil
		}
		if c.max429Retries > 0 && attempt >= c.max429Retries {
			return nil, fmt.Errorf("%s %s: rate limited after %d retries", method, path, c.max429Retries)
		}

		logger.Warn().
			Str("method", method).
			Str("path", path).
			Dur("backoff", c.backoffDelay).
			Msg("Rate limited, backing off before retry")
		c.sleep(c.backoffDelay)
	}
}
