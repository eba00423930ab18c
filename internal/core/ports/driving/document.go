package driving

import (
	"context"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// DocumentService manages the indexed documents.
type DocumentService interface {
	// List returns one summary per indexed document.
	List(ctx context.Context) ([]domain.DocumentSummary, error)

	// Names returns the distinct document names, sorted.
	Names(ctx context.Context) ([]string, error)

	// Delete removes a document by id and returns the number of chunks
	// removed. Unknown ids remove nothing.
	Delete(ctx context.Context, docID string) (int, error)

	// DeleteByName removes every document with the given name.
	// Returns ErrNotFound when no document has that name.
	DeleteByName(ctx context.Context, name string) (int, error)

	// Stats returns index statistics.
	Stats(ctx context.Context) (domain.IndexStats, error)

	// Reset empties the index.
	Reset(ctx context.Context) error
}
