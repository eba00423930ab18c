package driven

import (
	"context"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// PostProcessor is one stage of turning extracted text into indexable chunks.
// The first stage receives nil and splits doc.Content; later stages receive
// the previous stage's output and may rewrite, merge or drop chunks.
type PostProcessor interface {
	Name() string
	Process(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline produces the final chunk list for a document.
// Returned chunks are numbered from 0 with IDs built by domain.ChunkID.
type PostProcessorPipeline interface {
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
