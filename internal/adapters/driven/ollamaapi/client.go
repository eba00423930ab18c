// Package ollamaapi is the HTTP surface of a local Ollama server, shared by
// the ollama embedding and LLM adapters.
package ollamaapi

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/aihttp"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// Client talks to one Ollama server. It holds no connection state.
type Client struct {
	http *aihttp.Client
	base string
}

// New creates a client. An empty baseURL selects domain.DefaultOllamaURL.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = domain.DefaultOllamaURL
	}
	return &Client{
		http: aihttp.New("ollama", timeout),
		base: aihttp.TrimBaseURL(baseURL),
	}
}

// BaseURL returns the server address without a trailing slash.
func (c *Client) BaseURL() string {
	return c.base
}

// Embed calls /api/embed and checks that one vector came back per input.
func (c *Client) Embed(ctx context.Context, model string, input []string) ([][]float32, error) {
	var resp struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := c.http.Do(ctx, http.MethodPost, c.base+"/api/embed", EmbedRequest{Model: model, Input: input}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embeddings) != len(input) {
		return nil, fmt.Errorf("%w: ollama returned %d embeddings for %d texts",
			domain.ErrProviderUnavailable, len(resp.Embeddings), len(input))
	}
	return resp.Embeddings, nil
}

// Chat calls /api/chat without streaming and returns the reply text.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (string, error) {
	req.Stream = false
	var resp struct {
		Message Message `json:"message"`
	}
	if err := c.http.Do(ctx, http.MethodPost, c.base+"/api/chat", req, &resp); err != nil {
		return "", err
	}
	return resp.Message.Content, nil
}

// Generate calls /api/generate without streaming and returns the completion.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	req.Stream = false
	var resp struct {
		Response string `json:"response"`
	}
	if err := c.http.Do(ctx, http.MethodPost, c.base+"/api/generate", req, &resp); err != nil {
		return "", err
	}
	return resp.Response, nil
}

// Models lists installed model tags, sorted.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	var resp struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := c.http.Do(ctx, http.MethodGet, c.base+"/api/tags", nil, &resp); err != nil {
		return nil, err
	}
	names := make([]string, len(resp.Models))
	for i, m := range resp.Models {
		names[i] = m.Name
	}
	slices.Sort(names)
	return names, nil
}

// RequireModel fails with domain.ErrConfiguration when the server is up
// but model has not been pulled.
func (c *Client) RequireModel(ctx context.Context, model string) error {
	names, err := c.Models(ctx)
	if err != nil {
		return err
	}
	if !Installed(names, model) {
		return fmt.Errorf("%w: ollama model %q is not installed, run 'ollama pull %s'",
			domain.ErrConfiguration, model, model)
	}
	return nil
}

// Installed reports whether model is among names. A model given without a
// tag also matches its ":latest" tag.
func Installed(names []string, model string) bool {
	if slices.Contains(names, model) {
		return true
	}
	return !strings.Contains(model, ":") && slices.Contains(names, model+":latest")
}
