// Package anthropic answers questions with Claude through the Messages API.
// It has no embedding counterpart.
package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/aihttp"
	"github.com/custodia-labs/ragdesk/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

var _ driven.LLMService = (*LLMService)(nil)

const (
	DefaultBaseURL   = "https://api.anthropic.com"
	DefaultModel     = "claude-3-5-sonnet-latest"
	DefaultTimeout   = 120 * time.Second
	DefaultMaxTokens = 1024

	apiVersion = "2023-06-01"
)

// Config configures the adapter. Only APIKey is required.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration

	// Limiter defaults to ratelimit.For(ratelimit.ProviderAnthropic).
	Limiter *ratelimit.Limiter
}

// LLMService calls /v1/messages.
type LLMService struct {
	client   *aihttp.Client
	endpoint string
	model    string
}

// NewLLMService validates cfg and fills defaults. No request is sent.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: anthropic: API key is required", domain.ErrInvalidCredentials)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Limiter == nil {
		cfg.Limiter = ratelimit.For(ratelimit.ProviderAnthropic)
	}
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	client := aihttp.New("anthropic", cfg.Timeout)
	client.Limiter = cfg.Limiter
	client.Headers["x-api-key"] = cfg.APIKey
	client.Headers["anthropic-version"] = apiVersion

	return &LLMService{
		client:   client,
		endpoint: aihttp.TrimBaseURL(base),
		model:    cfg.Model,
	}, nil
}

// Chat sends the conversation. System messages become the system field.
func (s *LLMService) Chat(ctx context.Context, msgs []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	system, turns := split(msgs)
	return s.send(ctx, s.newRequest(system, turns, opts.MaxTokens, opts.Temperature, nil))
}

// Generate sends prompt as a single user turn.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	turns := []message{{Role: driven.RoleUser, Content: prompt}}
	return s.send(ctx, s.newRequest("", turns, opts.MaxTokens, opts.Temperature, opts.StopWords))
}

// newRequest fills the fields the API requires: max_tokens is mandatory and
// temperature must lie in [0, 1].
func (s *LLMService) newRequest(system string, turns []message, maxTokens int, temp float64, stop []string) request {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return request{
		Model:         s.model,
		System:        system,
		Messages:      turns,
		MaxTokens:     maxTokens,
		Temperature:   min(max(temp, 0), 1),
		StopSequences: stop,
	}
}

func (s *LLMService) send(ctx context.Context, req request) (string, error) {
	if len(req.Messages) == 0 {
		return "", fmt.Errorf("%w: anthropic: no user message", domain.ErrInvalidInput)
	}

	var resp response
	if err := s.client.Do(ctx, http.MethodPost, s.endpoint+"/v1/messages", req, &resp); err != nil {
		return "", err
	}
	if resp.StopReason == "max_tokens" {
		logger.Debug("anthropic: reply truncated at %d tokens", req.MaxTokens)
	}
	return resp.text(), nil
}

// ModelName returns the configured model.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping lists models, which checks the key without running inference.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.client.Do(ctx, http.MethodGet, s.endpoint+"/v1/models", nil, nil)
}

// Close is a no-op.
func (s *LLMService) Close() error {
	return nil
}
