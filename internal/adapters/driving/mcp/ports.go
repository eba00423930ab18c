package mcp

import (
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
)

// Ports are the services exposed over MCP. Ingest and History are
// optional; their tools report the service as unavailable when unset.
type Ports struct {
	Ask      driving.AskService
	Document driving.DocumentService
	Ingest   driving.IngestService
	History  driving.HistoryService
}

// Validate reports the first required service that is missing.
func (p *Ports) Validate() error {
	switch {
	case p.Ask == nil:
		return ErrMissingAskService
	case p.Document == nil:
		return ErrMissingDocumentService
	}
	return nil
}
