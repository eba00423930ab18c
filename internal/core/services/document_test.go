package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

func seedIndex(t *testing.T, docs ...domain.Document) *memory.VectorIndex {
	t.Helper()
	index := memory.NewVectorIndex()
	for _, d := range docs {
		require.NoError(t, index.Insert(context.Background(), d,
			[]string{"one", "two"}, [][]float32{{1, 0}, {0, 1}}))
	}
	return index
}

func TestDocumentService_ListAndNames(t *testing.T) {
	index := seedIndex(t,
		domain.Document{ID: "d1", Name: "b.txt"},
		domain.Document{ID: "d2", Name: "a.txt"},
		domain.Document{ID: "d3", Name: "a.txt"},
	)
	service := NewDocumentService(index)
	ctx := context.Background()

	docs, err := service.List(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 3)
	assert.Equal(t, 2, docs[0].ChunkCount)

	names, err := service.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt"}, names)
}

func TestDocumentService_Delete(t *testing.T) {
	index := seedIndex(t, domain.Document{ID: "d1", Name: "a.txt"})
	service := NewDocumentService(index)
	ctx := context.Background()

	removed, err := service.Delete(ctx, " d1 ")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	removed, err = service.Delete(ctx, "d1")
	require.NoError(t, err)
	assert.Zero(t, removed)

	_, err = service.Delete(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDocumentService_DeleteByName(t *testing.T) {
	index := seedIndex(t,
		domain.Document{ID: "d1", Name: "a.txt"},
		domain.Document{ID: "d2", Name: "a.txt"},
		domain.Document{ID: "d3", Name: "b.txt"},
	)
	service := NewDocumentService(index)
	ctx := context.Background()

	removed, err := service.DeleteByName(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, 4, removed)

	names, _ := service.Names(ctx)
	assert.Equal(t, []string{"b.txt"}, names)

	_, err = service.DeleteByName(ctx, "a.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = service.DeleteByName(ctx, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDocumentService_StatsAndReset(t *testing.T) {
	index := seedIndex(t, domain.Document{ID: "d1", Name: "a.txt"})
	service := NewDocumentService(index)
	ctx := context.Background()

	stats, err := service.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalChunks)
	assert.Equal(t, 1, stats.TotalDocuments)
	assert.Equal(t, 2, stats.Dimensions)

	require.NoError(t, service.Reset(ctx))

	stats, err = service.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalChunks)
	assert.Zero(t, stats.Dimensions)
}

func TestDocumentService_NilIndex(t *testing.T) {
	service := NewDocumentService(nil)
	ctx := context.Background()

	_, err := service.List(ctx)
	assert.ErrorIs(t, err, domain.ErrVectorIndexUnavailable)
	_, err = service.Names(ctx)
	assert.ErrorIs(t, err, domain.ErrVectorIndexUnavailable)
	_, err = service.Delete(ctx, "x")
	assert.ErrorIs(t, err, domain.ErrVectorIndexUnavailable)
	_, err = service.DeleteByName(ctx, "x")
	assert.ErrorIs(t, err, domain.ErrVectorIndexUnavailable)
	_, err = service.Stats(ctx)
	assert.ErrorIs(t, err, domain.ErrVectorIndexUnavailable)
	assert.ErrorIs(t, service.Reset(ctx), domain.ErrVectorIndexUnavailable)
}
