package driving

import (
	"context"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// HistoryService exposes the interaction log.
type HistoryService interface {
	// Recent returns the last limit entries, oldest first.
	Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error)

	// Clear empties the log.
	Clear(ctx context.Context) error
}
