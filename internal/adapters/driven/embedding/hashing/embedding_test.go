package hashing

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func distance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

func TestNewEmbeddingService_Dimensions(t *testing.T) {
	assert.Equal(t, DefaultDimensions, NewEmbeddingService(0).Dimensions())
	assert.Equal(t, 64, NewEmbeddingService(64).Dimensions())
	assert.Equal(t, ModelName, NewEmbeddingService(0).ModelName())
}

func TestEmbed_NormalisedAndDeterministic(t *testing.T) {
	s := NewEmbeddingService(0)
	ctx := context.Background()

	a, err := s.Embed(ctx, "The quick brown fox")
	require.NoError(t, err)
	b, err := s.Embed(ctx, "the QUICK, brown... fox!")
	require.NoError(t, err)

	assert.Len(t, a, DefaultDimensions)
	assert.InDelta(t, 1.0, norm(a), 1e-6)
	assert.Equal(t, a, b)
}

func TestEmbed_SharedWordsAreCloser(t *testing.T) {
	s := NewEmbeddingService(0)
	ctx := context.Background()

	query, _ := s.Embed(ctx, "quarterly sales revenue")
	near, _ := s.Embed(ctx, "sales revenue grew this quarter")
	far, _ := s.Embed(ctx, "holiday photos from the beach")

	assert.Less(t, distance(query, near), distance(query, far))
}

func TestEmbed_NoWords(t *testing.T) {
	v, err := NewEmbeddingService(8).Embed(context.Background(), " ... ")

	require.NoError(t, err)
	assert.Equal(t, make([]float32, 8), v)
}

func TestEmbedBatch(t *testing.T) {
	s := NewEmbeddingService(16)
	ctx := context.Background()

	vectors, err := s.EmbedBatch(ctx, []string{"alpha", "beta"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)

	alpha, _ := s.Embed(ctx, "alpha")
	assert.Equal(t, alpha, vectors[0])
}

func TestEmbed_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewEmbeddingService(0)

	_, err := s.Embed(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = s.EmbedBatch(ctx, []string{"x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"héllo", "world", "42"}, tokenize("Héllo, WORLD-42"))
}
