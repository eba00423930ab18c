package ollamaapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

func newClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL+"/", 0)
}

func tags(names ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			http.NotFound(w, r)
			return
		}
		models := make([]map[string]string, len(names))
		for i, n := range names {
			models[i] = map[string]string{"name": n}
		}
		json.NewEncoder(w).Encode(map[string]any{"models": models})
	}
}

func TestNew_DefaultURL(t *testing.T) {
	assert.Equal(t, domain.DefaultOllamaURL, New("", 0).BaseURL())
}

func TestModels_Sorted(t *testing.T) {
	c := newClient(t, tags("nomic-embed-text:latest", "llama3:latest"))

	names, err := c.Models(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"llama3:latest", "nomic-embed-text:latest"}, names)
}

func TestRequireModel(t *testing.T) {
	c := newClient(t, tags("llama3:latest", "mistral:7b"))

	assert.NoError(t, c.RequireModel(context.Background(), "llama3"))
	assert.NoError(t, c.RequireModel(context.Background(), "mistral:7b"))

	err := c.RequireModel(context.Background(), "mistral")
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Contains(t, err.Error(), "ollama pull mistral")
}

func TestRequireModel_ServerDown(t *testing.T) {
	err := New("http://127.0.0.1:1", 0).RequireModel(context.Background(), "llama3")

	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestInstalled(t *testing.T) {
	tests := []struct {
		model string
		want  bool
	}{
		{"llama3", true},
		{"llama3:latest", true},
		{"llama3:8b", false},
		{"phi3", false},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.Equal(t, tt.want, Installed([]string{"llama3:latest"}, tt.model))
		})
	}
}

func TestChat_DisablesStreaming(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		w.Write([]byte(`{"message":{"role":"assistant","content":"hi"}}`))
	})

	out, err := c.Chat(context.Background(), ChatRequest{Model: "m", Stream: true})

	require.NoError(t, err)
	assert.Equal(t, "hi", out)
}

func TestEmbed_CountMismatch(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"embeddings":[[1,2]]}`))
	})

	_, err := c.Embed(context.Background(), "m", []string{"a", "b"})

	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}
