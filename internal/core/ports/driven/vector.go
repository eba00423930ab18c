package driven

import (
	"context"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// VectorIndex persists chunks with their embeddings and metadata, and runs
// nearest-neighbour search by Euclidean distance.
type VectorIndex interface {
	// Insert stores all chunks of one document in a single transaction.
	// chunks and embeddings must have equal length. Chunk i gets the id
	// "{doc.ID}_chunk_{i}". The first insert into an empty index fixes the
	// dimension; a later mismatch fails with ErrIndexCorruption and
	// ErrDimensionMismatch and stores nothing.
	Insert(ctx context.Context, doc domain.Document, chunks []string, embeddings [][]float32) error

	// Search returns up to topK chunks nearest to query, ordered by
	// increasing distance with ties broken by chunk id. A non-nil filter
	// restricts candidates to chunks whose doc_name is in filter before the
	// top-k cut. An empty index or subset yields an empty slice.
	Search(ctx context.Context, query []float32, topK int, filter []string) ([]domain.SearchResult, error)

	// DeleteDocument removes every chunk of docID and returns how many were
	// removed. Unknown ids are a no-op.
	DeleteDocument(ctx context.Context, docID string) (int, error)

	// ListDocumentNames returns the distinct doc_name values, sorted.
	ListDocumentNames(ctx context.Context) ([]string, error)

	// ListDocuments returns one summary per doc_id.
	ListDocuments(ctx context.Context) ([]domain.DocumentSummary, error)

	// Stats returns counts and the storage location.
	Stats(ctx context.Context) (domain.IndexStats, error)

	// Reset removes all chunks and forgets the dimension.
	Reset(ctx context.Context) error

	// Close releases resources.
	Close() error
}
