package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

// Retriever embeds query text and searches the vector index.
type Retriever struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	timeout  time.Duration
}

// NewRetriever creates a retriever. timeout bounds each embedding call;
// zero means no limit.
func NewRetriever(embedder driven.EmbeddingService, index driven.VectorIndex, timeout time.Duration) *Retriever {
	return &Retriever{embedder: embedder, index: index, timeout: timeout}
}

// Search returns the topK chunks nearest to text. A non-nil filter limits
// candidates to the named documents.
func (r *Retriever) Search(ctx context.Context, text string, topK int, filter []string) ([]domain.SearchResult, error) {
	if r.index == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}
	if r.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	vector, err := r.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	logger.Debug("Query embedding: %d dimensions", len(vector))

	results, err := r.index.Search(ctx, vector, topK, filter)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	return results, nil
}

// Embed embeds a single text under the configured timeout.
func (r *Retriever) Embed(ctx context.Context, text string) ([]float32, error) {
	if r.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	callCtx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	vector, err := r.embedder.Embed(callCtx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", classifyTimeout(err))
	}
	return vector, nil
}

// EmbedBatch embeds texts in order under the configured timeout.
func (r *Retriever) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if r.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	callCtx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	vectors, err := r.embedder.EmbedBatch(callCtx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", classifyTimeout(err))
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: embedder returned %d vectors for %d texts",
			domain.ErrProviderUnavailable, len(vectors), len(texts))
	}
	return vectors, nil
}
