// Package aihttp holds the JSON-over-HTTP plumbing shared by the provider
// adapters and maps provider failures onto domain errors.
package aihttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// maxErrorBody bounds how much of an error response ends up in messages.
const maxErrorBody = 300

// Client sends JSON requests to one provider.
type Client struct {
	// HTTP is the underlying client. Its Timeout bounds each request.
	HTTP *http.Client

	// Provider names the backend in error messages.
	Provider string

	// Headers are added to every request.
	Headers map[string]string

	// Limiter paces requests when set.
	Limiter *ratelimit.Limiter
}

// New creates a client with the given request timeout.
func New(provider string, timeout time.Duration) *Client {
	return &Client{
		HTTP:     &http.Client{Timeout: timeout},
		Provider: provider,
		Headers:  map[string]string{},
	}
}

// Do sends in as JSON (nil for no body) and decodes a 2xx response into out
// (nil to discard it).
func (c *Client) Do(ctx context.Context, method, url string, in, out any) error {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return TransportError(c.Provider, err)
		}
	}

	body := io.Reader(http.NoBody)
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", c.Provider, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", c.Provider, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return TransportError(c.Provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if resp.StatusCode == http.StatusTooManyRequests && c.Limiter != nil {
			c.Limiter.Backoff(RetryAfter(resp.Header))
		}
		return StatusError(c.Provider, resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: decode response: %w", domain.ErrProviderUnavailable, c.Provider, err)
	}
	return nil
}

// StatusError classifies a non-2xx provider response.
func StatusError(provider string, status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody] + "..."
	}

	var kind error
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = domain.ErrInvalidCredentials
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		kind = domain.ErrInvalidInput
	default:
		kind = domain.ErrProviderUnavailable
	}

	if msg == "" {
		return fmt.Errorf("%w: %s returned status %d", kind, provider, status)
	}
	return fmt.Errorf("%w: %s returned status %d: %s", kind, provider, status, msg)
}

// TransportError classifies a request that produced no response.
func TransportError(provider string, err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, context.DeadlineExceeded) || isTimeout(err):
		return fmt.Errorf("%w: %s: %w", domain.ErrTimeout, provider, err)
	default:
		return fmt.Errorf("%w: %s: %w", domain.ErrProviderUnavailable, provider, err)
	}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

// RetryAfter parses a Retry-After header given in seconds.
func RetryAfter(h http.Header) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(h.Get("Retry-After")))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// TrimBaseURL strips trailing slashes so paths can be appended.
func TrimBaseURL(u string) string {
	return strings.TrimRight(u, "/")
}
