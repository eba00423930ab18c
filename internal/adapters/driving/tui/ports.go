// Package tui is the interactive terminal front end: a menu, a question
// and answer view, the document list and the interaction history.
package tui

import (
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
)

// Ports are the services the TUI drives. History may be nil, in which
// case the history view shows an empty log.
type Ports struct {
	Ask       driving.AskService
	Documents driving.DocumentService
	History   driving.HistoryService
}

// NewPorts bundles the services.
func NewPorts(ask driving.AskService, documents driving.DocumentService, history driving.HistoryService) *Ports {
	return &Ports{Ask: ask, Documents: documents, History: history}
}

// Validate reports the first required service that is missing.
func (p *Ports) Validate() error {
	switch {
	case p == nil:
		return ErrInvalidPorts
	case p.Ask == nil:
		return ErrMissingAskService
	case p.Documents == nil:
		return ErrMissingDocumentService
	}
	return nil
}
