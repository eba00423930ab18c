package postprocessors

import (
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/postprocessors/chunker"
)

// ChunkerName is the registry name of the word window chunker.
const ChunkerName = "chunker"

// RegisterDefaults registers the built-in processors.
func RegisterDefaults(r *Registry) {
	r.Register(ChunkerName, buildChunker)
}

func buildChunker(s domain.ChunkerSettings) (driven.PostProcessor, error) {
	return chunker.New(chunker.WithChunkSize(s.Size), chunker.WithOverlap(s.Overlap))
}
