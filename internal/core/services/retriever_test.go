package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

func TestRetriever_Search(t *testing.T) {
	ctx := context.Background()
	embedder := newKeywordEmbedder("apple", "banana")
	index := memory.NewVectorIndex()
	require.NoError(t, index.Insert(ctx, domain.Document{ID: "d1", Name: "fruit.txt"},
		[]string{"apple apple", "banana"}, [][]float32{{2, 0}, {0, 1}}))

	results, err := NewRetriever(embedder, index, time.Second).Search(ctx, "apple", 1, nil)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "apple apple", results[0].Text)
	assert.Equal(t, 1, embedder.Calls())
}

func TestRetriever_Unavailable(t *testing.T) {
	ctx := context.Background()

	_, err := NewRetriever(nil, memory.NewVectorIndex(), 0).Search(ctx, "q", 1, nil)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)

	_, err = NewRetriever(newKeywordEmbedder("a"), nil, 0).Search(ctx, "q", 1, nil)
	assert.ErrorIs(t, err, domain.ErrVectorIndexUnavailable)

	_, err = NewRetriever(nil, nil, 0).EmbedBatch(ctx, []string{"q"})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestRetriever_ProviderErrorPropagates(t *testing.T) {
	embedder := newKeywordEmbedder("a")
	embedder.err = domain.ErrInvalidCredentials

	_, err := NewRetriever(embedder, memory.NewVectorIndex(), 0).Search(context.Background(), "q", 1, nil)

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRetriever_Timeout(t *testing.T) {
	embedder := newKeywordEmbedder("a")
	embedder.block = true
	r := NewRetriever(embedder, memory.NewVectorIndex(), 10*time.Millisecond)

	_, err := r.Search(context.Background(), "q", 1, nil)
	assert.ErrorIs(t, err, domain.ErrTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = r.EmbedBatch(context.Background(), []string{"a", "b"})
	assert.ErrorIs(t, err, domain.ErrTimeout)
}

func TestRetriever_EmbedBatchCountMismatch(t *testing.T) {
	r := NewRetriever(&shortBatchEmbedder{}, memory.NewVectorIndex(), 0)

	_, err := r.EmbedBatch(context.Background(), []string{"a", "b"})

	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestClassifyTimeout(t *testing.T) {
	assert.NoError(t, classifyTimeout(nil))

	plain := errors.New("boom")
	assert.Same(t, plain, classifyTimeout(plain))

	already := classifyTimeout(context.DeadlineExceeded)
	assert.ErrorIs(t, already, domain.ErrTimeout)
	assert.Equal(t, already, classifyTimeout(already))
}
