// Package ollama embeds text with a model served by a local Ollama.
package ollama

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/ollamaapi"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

const (
	DefaultModel   = "nomic-embed-text"
	DefaultTimeout = 60 * time.Second
)

// Config configures the adapter. Dimensions may be left 0 for models not
// in domain.EmbeddingDimensions; it is then learned from the first reply.
type Config struct {
	BaseURL    string
	Model      string
	Timeout    time.Duration
	Dimensions int
}

// EmbeddingService embeds through /api/embed, one request per batch.
type EmbeddingService struct {
	api   *ollamaapi.Client
	model string
	dims  atomic.Int64
}

// NewEmbeddingService creates the adapter. No request is sent.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	s := &EmbeddingService{api: ollamaapi.New(cfg.BaseURL, cfg.Timeout), model: cfg.Model}
	s.dims.Store(int64(cfg.Dimensions))
	return s
}

// Embed embeds a single text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds texts in one request. An empty batch sends nothing.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	vectors, err := s.api.Embed(ctx, s.model, texts)
	if err != nil {
		return nil, err
	}
	s.dims.CompareAndSwap(0, int64(len(vectors[0])))
	return vectors, nil
}

// Dimensions returns the vector length, or 0 before it is known.
func (s *EmbeddingService) Dimensions() int {
	return int(s.dims.Load())
}

// ModelName returns the configured model.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping checks that the server answers and the model has been pulled.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.api.RequireModel(ctx, s.model)
}

// Close is a no-op.
func (s *EmbeddingService) Close() error {
	return nil
}
