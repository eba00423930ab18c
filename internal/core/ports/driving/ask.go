package driving

import (
	"context"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// AskService answers questions from the indexed documents.
type AskService interface {
	// Ask routes, retrieves and generates an answer. It fails only when
	// retrieval fails; generation problems degrade to the raw context.
	Ask(ctx context.Context, question string, opts domain.AskOptions) (*domain.Answer, error)
}
