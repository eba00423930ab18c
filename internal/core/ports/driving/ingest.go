package driving

import (
	"context"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// IngestService adds files to the index.
type IngestService interface {
	// IngestFile extracts, chunks, embeds and stores one file.
	IngestFile(ctx context.Context, path string, opts domain.IngestOptions) (*domain.IngestResult, error)

	// IngestContent indexes already-read bytes under name. The extension of
	// name selects the extractor.
	IngestContent(ctx context.Context, name, path string, content []byte, opts domain.IngestOptions) (*domain.IngestResult, error)

	// IngestPaths ingests files and directories (recursively). Unsupported
	// or unreadable files are reported and skipped; provider and index
	// failures abort the batch.
	IngestPaths(ctx context.Context, paths []string, opts domain.IngestOptions) (*domain.IngestReport, error)

	// Supports reports whether a file name can be ingested.
	Supports(name string) bool
}
