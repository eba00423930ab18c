// Package postprocessors turns extracted document text into chunks.
package postprocessors

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

var _ driven.PostProcessorPipeline = (*Pipeline)(nil)

// Pipeline runs processors in order and hands the ingest service a
// contiguous, numbered chunk list for one document.
type Pipeline struct {
	stages []driven.PostProcessor
}

// NewPipeline creates a pipeline that runs stages in the given order.
func NewPipeline(stages ...driven.PostProcessor) *Pipeline {
	return &Pipeline{stages: stages}
}

// BuildPipeline builds every registered processor from settings. Invalid
// chunk settings fail here, before any file is read.
func BuildPipeline(r *Registry, s domain.ChunkerSettings) (*Pipeline, error) {
	stages, err := r.BuildAll(s)
	if err != nil {
		return nil, err
	}
	if len(stages) == 0 {
		return nil, fmt.Errorf("%w: no processors registered", domain.ErrConfiguration)
	}
	return NewPipeline(stages...), nil
}

// Process chunks doc. The first stage receives nil and creates chunks;
// later stages may rewrite or drop them. Blank chunks are removed and the
// survivors renumbered so IDs run from {doc_id}_chunk_0 without gaps.
func (p *Pipeline) Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: document is nil", domain.ErrInvalidInput)
	}

	var chunks []domain.Chunk
	for _, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var err error
		chunks, err = stage.Process(ctx, doc, chunks)
		if err != nil {
			return nil, fmt.Errorf("processor %s: %w", stage.Name(), err)
		}
		logger.Debug("%s produced %d chunks for %s", stage.Name(), len(chunks), doc.Name)
	}

	return renumber(doc.ID, chunks), nil
}

// Stages returns the processor names in execution order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

func renumber(docID string, chunks []domain.Chunk) []domain.Chunk {
	if len(chunks) == 0 {
		return nil
	}
	out := make([]domain.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if strings.TrimSpace(c.Content) == "" {
			continue
		}
		c.Index = len(out)
		c.DocumentID = docID
		c.ID = domain.ChunkID(docID, c.Index)
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
