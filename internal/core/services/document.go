package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages indexed documents. Deletion is keyed on doc_id;
// names are resolved to ids first because a name may be indexed more than
// once.
type DocumentService struct {
	index driven.VectorIndex
}

// NewDocumentService creates a new document service.
func NewDocumentService(index driven.VectorIndex) *DocumentService {
	return &DocumentService{index: index}
}

// List returns one summary per indexed document.
func (s *DocumentService) List(ctx context.Context) ([]domain.DocumentSummary, error) {
	if s.index == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}
	return s.index.ListDocuments(ctx)
}

// Names returns the distinct document names, sorted.
func (s *DocumentService) Names(ctx context.Context) ([]string, error) {
	if s.index == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}
	return s.index.ListDocumentNames(ctx)
}

// Delete removes a document by id.
func (s *DocumentService) Delete(ctx context.Context, docID string) (int, error) {
	if s.index == nil {
		return 0, domain.ErrVectorIndexUnavailable
	}
	docID = strings.TrimSpace(docID)
	if docID == "" {
		return 0, fmt.Errorf("%w: document id is required", domain.ErrInvalidInput)
	}

	removed, err := s.index.DeleteDocument(ctx, docID)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", docID, err)
	}
	logger.Info("Deleted %d chunks of %s", removed, docID)
	return removed, nil
}

// DeleteByName removes every document called name.
func (s *DocumentService) DeleteByName(ctx context.Context, name string) (int, error) {
	if s.index == nil {
		return 0, domain.ErrVectorIndexUnavailable
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: document name is required", domain.ErrInvalidInput)
	}

	docs, err := s.index.ListDocuments(ctx)
	if err != nil {
		return 0, fmt.Errorf("list documents: %w", err)
	}

	total, matched := 0, false
	for _, d := range docs {
		if d.Name != name {
			continue
		}
		matched = true
		removed, err := s.Delete(ctx, d.ID)
		if err != nil {
			return total, err
		}
		total += removed
	}
	if !matched {
		return 0, fmt.Errorf("%w: no document named %q", domain.ErrNotFound, name)
	}
	return total, nil
}

// Stats returns index statistics.
func (s *DocumentService) Stats(ctx context.Context) (domain.IndexStats, error) {
	if s.index == nil {
		return domain.IndexStats{}, domain.ErrVectorIndexUnavailable
	}
	return s.index.Stats(ctx)
}

// Reset empties the index.
func (s *DocumentService) Reset(ctx context.Context) error {
	if s.index == nil {
		return domain.ErrVectorIndexUnavailable
	}
	if err := s.index.Reset(ctx); err != nil {
		return fmt.Errorf("reset index: %w", err)
	}
	logger.Info("Index reset")
	return nil
}
