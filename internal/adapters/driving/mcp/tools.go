package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// maxTopK bounds the number of passages a tool call may request.
const maxTopK = 50

// IngestInput is the input schema for the ingest_document tool.
type IngestInput struct {
	Path          string `json:"path,omitempty" jsonschema:"path of a file or directory to ingest"`
	Name          string `json:"name,omitempty" jsonschema:"document name when content is given inline; its extension selects the format"`
	Content       string `json:"content,omitempty" jsonschema:"inline text content to ingest instead of a path"`
	Replace       bool   `json:"replace,omitempty" jsonschema:"replace documents with the same name"`
	SkipUnchanged bool   `json:"skip_unchanged,omitempty" jsonschema:"skip documents whose content is already indexed"`
}

// IngestOutput is the output schema for the ingest_document tool.
type IngestOutput struct {
	Results []domain.IngestResult `json:"results"`
	Added   int                   `json:"added"`
	Failed  int                   `json:"failed"`
}

// AskInput is the input schema for the ask_question tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the indexed documents"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"number of passages to retrieve (default from settings, max 50)"`
	Document string `json:"document,omitempty" jsonschema:"only search documents whose name matches"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct{}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []domain.DocumentSummary `json:"documents"`
	Count     int                      `json:"count"`
}

// DeleteInput is the input schema for the delete_document tool.
type DeleteInput struct {
	DocumentID string `json:"doc_id,omitempty" jsonschema:"id of the document to delete"`
	Name       string `json:"name,omitempty" jsonschema:"delete every document with this name"`
}

// DeleteOutput is the output schema for the delete_document tool.
type DeleteOutput struct {
	RemovedChunks int `json:"removed_chunks"`
}

// StatsInput is the input schema for the get_stats tool.
type StatsInput struct{}

// HistoryInput is the input schema for the get_history tool.
type HistoryInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"number of most recent entries (default 50)"`
}

// HistoryOutput is the output schema for the get_history tool.
type HistoryOutput struct {
	Entries []domain.HistoryEntry `json:"entries"`
}

// ClearHistoryInput is the input schema for the clear_history tool.
type ClearHistoryInput struct{}

// ClearHistoryOutput is the output schema for the clear_history tool.
type ClearHistoryOutput struct {
	Cleared bool `json:"cleared"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_document",
		Description: "Add a file, a directory or inline text to the document index",
	}, s.handleIngest)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_question",
		Description: "Answer a question from the indexed documents and cite the passages used",
	}, s.handleAsk)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List indexed documents with their chunk counts",
	}, s.handleListDocuments)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_document",
		Description: "Remove a document from the index by id or by name",
	}, s.handleDelete)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_stats",
		Description: "Report vector index statistics",
	}, s.handleStats)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_history",
		Description: "Return recent questions and answers",
	}, s.handleHistory)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "clear_history",
		Description: "Delete the question and answer log",
	}, s.handleClearHistory)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// handleIngest handles the ingest_document tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	if s.ports.Ingest == nil {
		return nil, IngestOutput{}, errServiceUnavailable
	}

	path := strings.TrimSpace(input.Path)
	hasContent := input.Content != ""
	switch {
	case path == "" && !hasContent:
		return nil, IngestOutput{}, invalid("either path or content is required")
	case path != "" && hasContent:
		return nil, IngestOutput{}, invalid("path and content are mutually exclusive")
	case hasContent && strings.TrimSpace(input.Name) == "":
		return nil, IngestOutput{}, invalid("name is required with content")
	}

	opts := domain.IngestOptions{Replace: input.Replace, SkipUnchanged: input.SkipUnchanged}

	var report *domain.IngestReport
	if hasContent {
		res, err := s.ports.Ingest.IngestContent(ctx, input.Name, "", []byte(input.Content), opts)
		if err != nil {
			return nil, IngestOutput{}, err
		}
		report = &domain.IngestReport{Results: []domain.IngestResult{*res}}
	} else {
		var err error
		report, err = s.ports.Ingest.IngestPaths(ctx, []string{path}, opts)
		if err != nil {
			return nil, IngestOutput{}, err
		}
	}

	return nil, IngestOutput{
		Results: report.Results,
		Added:   len(report.Results) - report.Count(domain.IngestStatusFailed),
		Failed:  report.Count(domain.IngestStatusFailed),
	}, nil
}

// handleAsk handles the ask_question tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, domain.Answer, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, domain.Answer{}, invalid("question is required")
	}
	if input.TopK < 0 || input.TopK > maxTopK {
		return nil, domain.Answer{}, invalid("top_k must be between 1 and %d", maxTopK)
	}

	answer, err := s.ports.Ask.Ask(ctx, input.Question, domain.AskOptions{
		TopK:     input.TopK,
		Document: input.Document,
	})
	if err != nil {
		return nil, domain.Answer{}, err
	}
	return nil, *answer, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	docs, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}
	if docs == nil {
		docs = []domain.DocumentSummary{}
	}
	return nil, ListDocumentsOutput{Documents: docs, Count: len(docs)}, nil
}

// handleDelete handles the delete_document tool invocation.
func (s *Server) handleDelete(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteInput,
) (*mcp.CallToolResult, DeleteOutput, error) {
	id := strings.TrimSpace(input.DocumentID)
	name := strings.TrimSpace(input.Name)
	if (id == "") == (name == "") {
		return nil, DeleteOutput{}, invalid("exactly one of doc_id or name is required")
	}

	var (
		n   int
		err error
	)
	if id != "" {
		n, err = s.ports.Document.Delete(ctx, id)
	} else {
		n, err = s.ports.Document.DeleteByName(ctx, name)
	}
	if err != nil {
		return nil, DeleteOutput{}, err
	}
	return nil, DeleteOutput{RemovedChunks: n}, nil
}

// handleStats handles the get_stats tool invocation.
func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, domain.IndexStats, error) {
	stats, err := s.ports.Document.Stats(ctx)
	if err != nil {
		return nil, domain.IndexStats{}, err
	}
	return nil, stats, nil
}

// handleHistory handles the get_history tool invocation.
func (s *Server) handleHistory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input HistoryInput,
) (*mcp.CallToolResult, HistoryOutput, error) {
	if s.ports.History == nil {
		return nil, HistoryOutput{}, errServiceUnavailable
	}
	if input.Limit < 0 || input.Limit > domain.MaxHistoryEntries {
		return nil, HistoryOutput{}, invalid("limit must be between 1 and %d", domain.MaxHistoryEntries)
	}
	limit := input.Limit
	if limit == 0 {
		limit = domain.DefaultHistoryLimit
	}

	entries, err := s.ports.History.Recent(ctx, limit)
	if err != nil {
		return nil, HistoryOutput{}, err
	}
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	return nil, HistoryOutput{Entries: entries}, nil
}

// handleClearHistory handles the clear_history tool invocation.
func (s *Server) handleClearHistory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ClearHistoryInput,
) (*mcp.CallToolResult, ClearHistoryOutput, error) {
	if s.ports.History == nil {
		return nil, ClearHistoryOutput{}, errServiceUnavailable
	}
	if err := s.ports.History.Clear(ctx); err != nil {
		return nil, ClearHistoryOutput{}, fmt.Errorf("clearing history: %w", err)
	}
	return nil, ClearHistoryOutput{Cleared: true}, nil
}
