// Package ollama answers questions with a model served by a local Ollama.
package ollama

import (
	"context"
	"time"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/ollamaapi"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

var (
	_ driven.LLMService  = (*LLMService)(nil)
	_ driven.ModelLister = (*LLMService)(nil)
)

const (
	DefaultLLMModel   = "llama3"
	DefaultLLMTimeout = 120 * time.Second
)

// LLMConfig configures the adapter; zero fields take the defaults above
// and domain.DefaultOllamaURL.
type LLMConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMService is an Ollama chat model. It also lists installed models for
// `settings ollama-models`.
type LLMService struct {
	api   *ollamaapi.Client
	model string
}

// NewLLMService creates the adapter. No request is sent.
func NewLLMService(cfg LLMConfig) *LLMService {
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultLLMTimeout
	}
	return &LLMService{api: ollamaapi.New(cfg.BaseURL, cfg.Timeout), model: cfg.Model}
}

// Chat sends the conversation to /api/chat.
func (s *LLMService) Chat(ctx context.Context, msgs []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	turns := make([]ollamaapi.Message, len(msgs))
	for i, m := range msgs {
		turns[i] = ollamaapi.Message{Role: m.Role, Content: m.Content}
	}
	return s.api.Chat(ctx, ollamaapi.ChatRequest{
		Model:    s.model,
		Messages: turns,
		Options:  &ollamaapi.Options{NumPredict: opts.MaxTokens, Temperature: opts.Temperature},
	})
}

// Generate sends prompt to /api/generate. Options are omitted entirely when
// all of them are zero, leaving the model's own defaults.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	req := ollamaapi.GenerateRequest{Model: s.model, Prompt: prompt}
	if opts.MaxTokens > 0 || opts.Temperature > 0 || len(opts.StopWords) > 0 {
		req.Options = &ollamaapi.Options{
			NumPredict:  opts.MaxTokens,
			Temperature: opts.Temperature,
			Stop:        opts.StopWords,
		}
	}
	return s.api.Generate(ctx, req)
}

// ListModels returns the installed model tags, sorted.
func (s *LLMService) ListModels(ctx context.Context) ([]string, error) {
	return s.api.Models(ctx)
}

// ModelName returns the configured model.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping checks that the server answers and the model has been pulled.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.api.RequireModel(ctx, s.model)
}

// Close is a no-op.
func (s *LLMService) Close() error {
	return nil
}
