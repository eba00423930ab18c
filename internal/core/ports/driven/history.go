package driven

import (
	"context"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// HistoryStore persists the interaction log.
// Implementations keep only the most recent domain.MaxHistoryEntries
// entries and serialise writers.
type HistoryStore interface {
	// Append adds an entry and truncates the log.
	Append(ctx context.Context, entry domain.HistoryEntry) error

	// Read returns the last limit entries in chronological order.
	// A limit of zero or less means domain.DefaultHistoryLimit.
	Read(ctx context.Context, limit int) ([]domain.HistoryEntry, error)

	// Clear removes all entries.
	Clear(ctx context.Context) error
}
