// Package mcp provides an MCP (Model Context Protocol) server adapter for ragdesk.
// It lets AI assistants ingest documents and ask questions about them.
package mcp

import "errors"

var (
	// ErrMissingAskService is returned when the ask service is not provided.
	ErrMissingAskService = errors.New("mcp: ask service is required")

	// ErrMissingDocumentService is returned when the document service is not provided.
	ErrMissingDocumentService = errors.New("mcp: document service is required")

	// errServiceUnavailable is returned by tools whose optional port is unset.
	errServiceUnavailable = errors.New("service not available")
)
