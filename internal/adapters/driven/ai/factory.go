// Package ai builds the embedding and answer-generation adapters selected
// in settings, and checks that they are reachable.
//
// Builders are looked up by provider. A provider missing from a table
// cannot serve that role.
package ai

import (
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/embedding/hashing"
	ollamaembed "github.com/custodia-labs/ragdesk/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/ragdesk/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/ragdesk/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/ragdesk/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/ragdesk/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

type (
	embeddingBuilder func(s *domain.EmbeddingSettings) (driven.EmbeddingService, error)
	llmBuilder       func(s *domain.LLMSettings) (driven.LLMService, error)
)

var embeddingBuilders = map[domain.AIProvider]embeddingBuilder{
	domain.AIProviderHashing: func(s *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
		return hashing.NewEmbeddingService(s.Dimensions), nil
	},
	domain.AIProviderOllama: func(s *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    s.BaseURL,
			Model:      s.Model,
			Timeout:    seconds(s.TimeoutSeconds),
			Dimensions: domain.EmbeddingDimensions()[s.Model],
		}), nil
	},
	domain.AIProviderOpenAI: func(s *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     s.APIKey,
			BaseURL:    s.BaseURL,
			Model:      s.Model,
			Timeout:    seconds(s.TimeoutSeconds),
			Dimensions: domain.EmbeddingDimensions()[s.Model],
		})
		if err != nil {
			return nil, err
		}
		return svc, nil
	},
}

var llmBuilders = map[domain.AIProvider]llmBuilder{
	domain.AIProviderOllama: func(s *domain.LLMSettings) (driven.LLMService, error) {
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: s.BaseURL,
			Model:   s.Model,
			Timeout: seconds(s.TimeoutSeconds),
		}), nil
	},
	domain.AIProviderOpenAI: func(s *domain.LLMSettings) (driven.LLMService, error) {
		svc, err := openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  s.APIKey,
			BaseURL: s.BaseURL,
			Model:   s.Model,
			Timeout: seconds(s.TimeoutSeconds),
		})
		if err != nil {
			return nil, err
		}
		return svc, nil
	},
	domain.AIProviderAnthropic: func(s *domain.LLMSettings) (driven.LLMService, error) {
		svc, err := anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  s.APIKey,
			BaseURL: s.BaseURL,
			Model:   s.Model,
			Timeout: seconds(s.TimeoutSeconds),
		})
		if err != nil {
			return nil, err
		}
		return svc, nil
	},
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// errNotConfigured marks settings that name no usable provider. It is
// reported by Init but is not an error for the Create functions.
var errNotConfigured = errors.New("not configured")

// CreateEmbeddingService builds the adapter named by settings. It returns
// nil, nil when settings are nil or incomplete (for example a missing API
// key), and ErrConfiguration for a provider that cannot embed.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := buildEmbedding(settings)
	if errors.Is(err, errNotConfigured) {
		return nil, nil
	}
	return svc, err
}

func buildEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, errNotConfigured
	}
	if settings.Provider == domain.AIProviderAnthropic {
		return nil, fmt.Errorf("%w: anthropic does not support embeddings, use ollama, openai or hashing",
			domain.ErrConfiguration)
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("provider %q is %w", settings.Provider, errNotConfigured)
	}
	build, ok := embeddingBuilders[settings.Provider]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported embedding provider: %s", domain.ErrConfiguration, settings.Provider)
	}
	return build(settings)
}

// CreateLLMService builds the answer generator named by settings, or
// returns nil, nil when settings are nil or incomplete.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := buildLLM(settings)
	if errors.Is(err, errNotConfigured) {
		return nil, nil
	}
	return svc, err
}

func buildLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil {
		return nil, errNotConfigured
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("provider %q is %w", settings.Provider, errNotConfigured)
	}
	build, ok := llmBuilders[settings.Provider]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported LLM provider: %s", domain.ErrConfiguration, settings.Provider)
	}
	return build(settings)
}

// InitResult holds the adapters built at startup. Either may be nil; the
// reason is in Warnings.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
	Warnings         []string
}

// Close closes whichever adapters were built.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Init builds both adapters without contacting them. A missing embedder
// makes ingest and ask fail with ErrEmbeddingUnavailable; a missing LLM
// makes answers fall back to the retrieved passages.
func Init(settings domain.Settings) *InitResult {
	result := &InitResult{}

	embedder, err := buildEmbedding(&settings.Embedding)
	if err != nil {
		result.Warnings = append(result.Warnings, "embedding: "+err.Error())
	}
	result.EmbeddingService = embedder

	llm, err := buildLLM(&settings.LLM)
	if err != nil {
		result.Warnings = append(result.Warnings, "llm: "+err.Error())
	}
	result.LLMService = llm

	for _, w := range result.Warnings {
		logger.Warn("AI init: %s", w)
	}
	return result
}
