// Package openaicompat builds go-openai clients for the OpenAI API and
// OpenAI-compatible servers, and maps their errors onto domain errors.
package openaicompat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/aihttp"
	"github.com/custodia-labs/ragdesk/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// DefaultBaseURL is the public OpenAI endpoint.
const DefaultBaseURL = "https://api.openai.com/v1"

// provider names OpenAI in error messages.
const provider = "openai"

// NewClient creates a go-openai client. An empty baseURL selects the public
// API.
func NewClient(apiKey, baseURL string, timeout time.Duration) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = aihttp.TrimBaseURL(baseURL)
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return openai.NewClientWithConfig(cfg)
}

// Limiter returns the request pacer shared by OpenAI adapters.
func Limiter() *ratelimit.Limiter {
	return ratelimit.For(ratelimit.ProviderOpenAI)
}

// Classify wraps a go-openai error with the matching domain error. A 429
// also pushes the limiter into backoff.
func Classify(err error, limiter *ratelimit.Limiter) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests && limiter != nil {
			limiter.Backoff(0)
		}
		return aihttp.StatusError(provider, apiErr.HTTPStatusCode, []byte(apiErr.Message))
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		if reqErr.HTTPStatusCode == http.StatusTooManyRequests && limiter != nil {
			limiter.Backoff(0)
		}
		msg := ""
		if reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return aihttp.StatusError(provider, reqErr.HTTPStatusCode, []byte(msg))
	}

	return aihttp.TransportError(provider, err)
}

// Wait paces one request, classifying a cancelled wait like any other
// transport failure.
func Wait(ctx context.Context, limiter *ratelimit.Limiter) error {
	if limiter == nil {
		return nil
	}
	if err := limiter.Wait(ctx); err != nil {
		return aihttp.TransportError(provider, err)
	}
	return nil
}

// Options configures a Conn. A nil Limiter uses the OpenAI defaults.
type Options struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Limiter *ratelimit.Limiter
}

// Conn is a paced go-openai client. Every call waits on the limiter and
// comes back with a classified error.
type Conn struct {
	client  *openai.Client
	limiter *ratelimit.Limiter
}

// Dial builds a Conn without contacting the server.
func Dial(o Options) (*Conn, error) {
	if o.APIKey == "" {
		return nil, fmt.Errorf("%w: %s: API key is required", domain.ErrInvalidCredentials, provider)
	}
	if o.Limiter == nil {
		o.Limiter = Limiter()
	}
	return &Conn{client: NewClient(o.APIKey, o.BaseURL, o.Timeout), limiter: o.Limiter}, nil
}

// Call runs fn once the limiter allows it.
func (c *Conn) Call(ctx context.Context, fn func(context.Context, *openai.Client) error) error {
	if err := Wait(ctx, c.limiter); err != nil {
		return err
	}
	return Classify(fn(ctx, c.client), c.limiter)
}

// Ping lists models, which checks both reachability and the API key.
func (c *Conn) Ping(ctx context.Context) error {
	return c.Call(ctx, func(ctx context.Context, client *openai.Client) error {
		_, err := client.ListModels(ctx)
		return err
	})
}
