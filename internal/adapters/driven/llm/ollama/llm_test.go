package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/ollamaapi"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

func newService(t *testing.T, handler http.HandlerFunc) *LLMService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewLLMService(LLMConfig{BaseURL: server.URL, Model: "mistral"})
}

func TestNewLLMService_Defaults(t *testing.T) {
	s := NewLLMService(LLMConfig{})

	assert.Equal(t, domain.DefaultOllamaURL, s.api.BaseURL())
	assert.Equal(t, DefaultLLMModel, s.ModelName())
}

func TestChat(t *testing.T) {
	s := newService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		var req ollamaapi.ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "mistral", req.Model)
		assert.False(t, req.Stream)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "Question?", req.Messages[1].Content)
		require.NotNil(t, req.Options)
		assert.Equal(t, 500, req.Options.NumPredict)
		assert.InDelta(t, 0.7, req.Options.Temperature, 1e-9)
		w.Write([]byte(`{"message":{"role":"assistant","content":"Answer."},"done":true}`))
	})

	out, err := s.Chat(context.Background(), []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: "Be helpful."},
		{Role: driven.RoleUser, Content: "Question?"},
	}, driven.ChatOptions{MaxTokens: 500, Temperature: 0.7})

	require.NoError(t, err)
	assert.Equal(t, "Answer.", out)
}

func TestChat_ZeroTemperatureIsSent(t *testing.T) {
	s := newService(t, func(w http.ResponseWriter, r *http.Request) {
		var raw struct {
			Options map[string]any `json:"options"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Contains(t, raw.Options, "temperature")
		w.Write([]byte(`{"message":{"content":"ok"}}`))
	})

	_, err := s.Chat(context.Background(), []driven.ChatMessage{{Role: "user", Content: "x"}}, driven.ChatOptions{})

	require.NoError(t, err)
}

func TestGenerate(t *testing.T) {
	s := newService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		var req ollamaapi.GenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Hello", req.Prompt)
		assert.Nil(t, req.Options)
		w.Write([]byte(`{"response":"World","done":true}`))
	})

	out, err := s.Generate(context.Background(), "Hello", driven.GenerateOptions{})

	require.NoError(t, err)
	assert.Equal(t, "World", out)
}

func TestGenerate_WithOptions(t *testing.T) {
	s := newService(t, func(w http.ResponseWriter, r *http.Request) {
		var req ollamaapi.GenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.Options)
		assert.Equal(t, []string{"\n"}, req.Options.Stop)
		w.Write([]byte(`{"response":"x"}`))
	})

	_, err := s.Generate(context.Background(), "p", driven.GenerateOptions{StopWords: []string{"\n"}})

	require.NoError(t, err)
}

func TestChat_ServerError(t *testing.T) {
	s := newService(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"model requires more system memory"}`, http.StatusInternalServerError)
	})

	_, err := s.Chat(context.Background(), nil, driven.ChatOptions{})

	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
	assert.Contains(t, err.Error(), "system memory")
}

func TestListModels(t *testing.T) {
	s := newService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.Write([]byte(`{"models":[{"name":"nomic-embed-text:latest"},{"name":"llama3:latest"}]}`))
	})

	models, err := s.ListModels(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"llama3:latest", "nomic-embed-text:latest"}, models)
}

func TestPing(t *testing.T) {
	s := newService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"models":[{"name":"mistral:latest"}]}`))
	})
	assert.NoError(t, s.Ping(context.Background()))

	missing := newService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"models":[]}`))
	})
	assert.ErrorIs(t, missing.Ping(context.Background()), domain.ErrConfiguration)

	down := NewLLMService(LLMConfig{BaseURL: "http://127.0.0.1:1"})
	assert.ErrorIs(t, down.Ping(context.Background()), domain.ErrProviderUnavailable)
}
