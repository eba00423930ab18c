package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.HistoryStore = (*HistoryStore)(nil)

// HistoryStore is an in-memory implementation of driven.HistoryStore.
type HistoryStore struct {
	mu      sync.Mutex
	entries []domain.HistoryEntry
}

// NewHistoryStore creates an empty in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

// Append adds an entry, keeping the most recent domain.MaxHistoryEntries.
func (s *HistoryStore) Append(_ context.Context, entry domain.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(entry.Sources) > domain.MaxHistorySources {
		entry.Sources = entry.Sources[:domain.MaxHistorySources]
	}
	s.entries = append(s.entries, entry)
	if over := len(s.entries) - domain.MaxHistoryEntries; over > 0 {
		s.entries = append([]domain.HistoryEntry(nil), s.entries[over:]...)
	}
	return nil
}

// Read returns the last limit entries in chronological order.
func (s *HistoryStore) Read(_ context.Context, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		limit = domain.DefaultHistoryLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := max(len(s.entries)-limit, 0)
	out := make([]domain.HistoryEntry, len(s.entries)-start)
	copy(out, s.entries[start:])
	return out, nil
}

// Clear removes all entries.
func (s *HistoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return nil
}
