package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

func TestNewConfigValidator(t *testing.T) {
	assert.Equal(t, DefaultPingTimeout, NewConfigValidator().timeout)
	assert.Equal(t, time.Second, NewConfigValidator(WithPingTimeout(time.Second)).timeout)
	assert.Equal(t, DefaultPingTimeout, NewConfigValidator(WithPingTimeout(0)).timeout)
}

func TestConfigValidator_NilConfigs(t *testing.T) {
	validator := NewConfigValidator()

	assert.NoError(t, validator.ValidateEmbedding(context.Background(), nil))
	assert.NoError(t, validator.ValidateLLM(context.Background(), nil))
}

func TestConfigValidator_ValidateEmbedding_Hashing(t *testing.T) {
	validator := NewConfigValidator()

	err := validator.ValidateEmbedding(context.Background(),
		&domain.EmbeddingSettings{Provider: domain.AIProviderHashing})

	assert.NoError(t, err)
}

func TestConfigValidator_ValidateEmbedding_Anthropic(t *testing.T) {
	validator := NewConfigValidator()

	err := validator.ValidateEmbedding(context.Background(),
		&domain.EmbeddingSettings{Provider: domain.AIProviderAnthropic, APIKey: "k"})

	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestConfigValidator_ValidateLLM_RejectedKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer server.Close()

	validator := NewConfigValidator()
	err := validator.ValidateLLM(context.Background(), &domain.LLMSettings{
		Provider: domain.AIProviderAnthropic,
		APIKey:   "bad",
		BaseURL:  server.URL,
	})

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestConfigValidator_ValidateLLM_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"models":[]}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewConfigValidator().ValidateLLM(ctx,
		&domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: server.URL})

	assert.Error(t, err)
}

func TestConfigValidator_ValidateLLM_Ollama(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.Write([]byte(`{"models":[{"name":"llama3:latest"}]}`))
	}))
	defer server.Close()

	err := NewConfigValidator().ValidateLLM(context.Background(),
		&domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: server.URL})

	assert.NoError(t, err)
}

func TestConfigValidator_ValidateEmbedding_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	err := NewConfigValidator().ValidateEmbedding(context.Background(),
		&domain.EmbeddingSettings{Provider: domain.AIProviderOllama, BaseURL: server.URL})

	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
	assert.Contains(t, err.Error(), "ollama unreachable")
}

func TestConfigValidator_PingTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	err := NewConfigValidator(WithPingTimeout(50*time.Millisecond)).ValidateLLM(context.Background(),
		&domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: server.URL})

	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}
