// Package openai embeds text through the embeddings API of OpenAI or any
// compatible server.
package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/openaicompat"
	"github.com/custodia-labs/ragdesk/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

const (
	DefaultModel   = "text-embedding-3-small"
	DefaultTimeout = 60 * time.Second
)

// maxBatch is the most inputs sent in one request.
const maxBatch = 256

// shortenable models accept a dimensions parameter.
var shortenable = map[string]bool{
	"text-embedding-3-small": true,
	"text-embedding-3-large": true,
}

// Config configures the adapter. Dimensions, when set for a
// text-embedding-3 model, asks the server for shortened vectors.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	Dimensions int
	Limiter    *ratelimit.Limiter
}

// EmbeddingService embeds batches of text.
type EmbeddingService struct {
	conn  *openaicompat.Conn
	model string
	dims  int
	// shorten sends dims with every request.
	shorten bool
}

// NewEmbeddingService creates the adapter. No request is sent. Dimensions
// stays 0 for a model that is neither known nor configured.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	conn, err := openaicompat.Dial(openaicompat.Options{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Limiter: cfg.Limiter,
	})
	if err != nil {
		return nil, err
	}

	s := &EmbeddingService{conn: conn, model: cfg.Model}
	if s.model == "" {
		s.model = DefaultModel
	}
	native := domain.EmbeddingDimensions()[s.model]
	s.dims = native
	if cfg.Dimensions > 0 {
		s.dims = cfg.Dimensions
		s.shorten = shortenable[s.model] && cfg.Dimensions != native
	}
	return s, nil
}

// Embed embeds one text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds texts in order, maxBatch per request.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for len(texts) > 0 {
		n := min(len(texts), maxBatch)
		vectors, err := s.request(ctx, texts[:n])
		if err != nil {
			return nil, err
		}
		out = append(out, vectors...)
		texts = texts[n:]
	}
	return out, nil
}

// request sends one batch. The server may list embeddings in any order;
// each carries the index of its input.
func (s *EmbeddingService) request(ctx context.Context, texts []string) ([][]float32, error) {
	req := openai.EmbeddingRequest{Input: texts, Model: openai.EmbeddingModel(s.model)}
	if s.shorten {
		req.Dimensions = s.dims
	}

	var resp openai.EmbeddingResponse
	err := s.conn.Call(ctx, func(ctx context.Context, client *openai.Client) error {
		var err error
		resp, err = client.CreateEmbeddings(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: openai returned %d embeddings for %d texts",
			domain.ErrProviderUnavailable, len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(texts) || vectors[d.Index] != nil {
			return nil, fmt.Errorf("%w: openai returned a bad embedding index %d",
				domain.ErrProviderUnavailable, d.Index)
		}
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}

// Dimensions returns the vector size, or 0 if not yet known.
func (s *EmbeddingService) Dimensions() int {
	return s.dims
}

func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping lists models with the configured key.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

func (s *EmbeddingService) Close() error {
	return nil
}
