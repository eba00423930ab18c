package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

type storedChunk struct {
	id        string
	doc       domain.Document
	index     int
	text      string
	embedding []float32
	addedAt   time.Time
}

// VectorIndex is an in-memory implementation of driven.VectorIndex.
// It scans every chunk on search and is meant for tests and small,
// throwaway sessions.
type VectorIndex struct {
	mu        sync.RWMutex
	chunks    []storedChunk
	dimension int
	now       func() time.Time
}

// NewVectorIndex creates an empty in-memory vector index.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{now: time.Now}
}

// Insert stores all chunks of one document.
func (v *VectorIndex) Insert(_ context.Context, doc domain.Document, chunks []string, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("%w: %d chunks but %d embeddings", domain.ErrInvalidInput, len(chunks), len(embeddings))
	}
	if doc.ID == "" || doc.Name == "" {
		return fmt.Errorf("%w: document id and name are required", domain.ErrInvalidInput)
	}
	if len(chunks) == 0 {
		return nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	dim := v.dimension
	if dim == 0 {
		dim = len(embeddings[0])
	}
	for _, e := range embeddings {
		if len(e) != dim {
			return fmt.Errorf("%w: %w: got %d, index has %d",
				domain.ErrIndexCorruption, domain.ErrDimensionMismatch, len(e), dim)
		}
	}
	v.dimension = dim

	addedAt := doc.IngestedAt
	if addedAt.IsZero() {
		addedAt = v.now()
	}
	for i, text := range chunks {
		v.chunks = append(v.chunks, storedChunk{
			id:        domain.ChunkID(doc.ID, i),
			doc:       doc,
			index:     i,
			text:      text,
			embedding: append([]float32(nil), embeddings[i]...),
			addedAt:   addedAt,
		})
	}
	return nil
}

// Search returns the topK nearest chunks by Euclidean distance.
func (v *VectorIndex) Search(_ context.Context, query []float32, topK int, filter []string) ([]domain.SearchResult, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top_k must be positive", domain.ErrInvalidInput)
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.dimension == 0 || (filter != nil && len(filter) == 0) {
		return []domain.SearchResult{}, nil
	}
	if len(query) != v.dimension {
		return nil, fmt.Errorf("%w: %w: query has %d, index has %d",
			domain.ErrIndexCorruption, domain.ErrDimensionMismatch, len(query), v.dimension)
	}

	allowed := make(map[string]bool, len(filter))
	for _, name := range filter {
		allowed[name] = true
	}

	type scored struct {
		chunk    *storedChunk
		distance float64
	}
	candidates := make([]scored, 0, len(v.chunks))
	for i := range v.chunks {
		c := &v.chunks[i]
		if filter != nil && !allowed[c.doc.Name] {
			continue
		}
		candidates = append(candidates, scored{chunk: c, distance: l2(query, c.embedding)})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].chunk.id < candidates[j].chunk.id
	})
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	results := make([]domain.SearchResult, len(candidates))
	for i, c := range candidates {
		results[i] = domain.SearchResult{
			ChunkID:   c.chunk.id,
			Text:      c.chunk.text,
			Relevance: -c.distance,
			Document:  c.chunk.doc.Name,
		}
	}
	return results, nil
}

// DeleteDocument removes every chunk of docID.
func (v *VectorIndex) DeleteDocument(_ context.Context, docID string) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	kept := v.chunks[:0]
	removed := 0
	for _, c := range v.chunks {
		if c.doc.ID == docID {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	v.chunks = kept
	return removed, nil
}

// ListDocumentNames returns the distinct document names, sorted.
func (v *VectorIndex) ListDocumentNames(_ context.Context) ([]string, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	seen := make(map[string]bool)
	names := []string{}
	for _, c := range v.chunks {
		if !seen[c.doc.Name] {
			seen[c.doc.Name] = true
			names = append(names, c.doc.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// ListDocuments returns one summary per document id.
func (v *VectorIndex) ListDocuments(_ context.Context) ([]domain.DocumentSummary, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	byID := make(map[string]*domain.DocumentSummary)
	for _, c := range v.chunks {
		s, ok := byID[c.doc.ID]
		if !ok {
			s = &domain.DocumentSummary{
				ID:          c.doc.ID,
				Name:        c.doc.Name,
				Path:        c.doc.Path,
				AddedAt:     c.addedAt,
				ContentHash: c.doc.ContentHash,
			}
			byID[c.doc.ID] = s
		}
		s.ChunkCount++
	}

	docs := make([]domain.DocumentSummary, 0, len(byID))
	for _, s := range byID {
		docs = append(docs, *s)
	}
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].Name != docs[j].Name {
			return docs[i].Name < docs[j].Name
		}
		if !docs[i].AddedAt.Equal(docs[j].AddedAt) {
			return docs[i].AddedAt.Before(docs[j].AddedAt)
		}
		return docs[i].ID < docs[j].ID
	})
	return docs, nil
}

// Stats returns chunk and document counts.
func (v *VectorIndex) Stats(_ context.Context) (domain.IndexStats, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	ids := make(map[string]bool)
	for _, c := range v.chunks {
		ids[c.doc.ID] = true
	}
	return domain.IndexStats{
		TotalChunks:     len(v.chunks),
		TotalDocuments:  len(ids),
		StorageLocation: ":memory:",
		Dimensions:      v.dimension,
		Backend:         "memory",
	}, nil
}

// Reset removes all chunks and forgets the dimension.
func (v *VectorIndex) Reset(_ context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.chunks = nil
	v.dimension = 0
	return nil
}

// Close is a no-op.
func (v *VectorIndex) Close() error {
	return nil
}

func l2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
