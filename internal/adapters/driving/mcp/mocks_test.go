package mcp

import (
	"context"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// mockAskService is a mock implementation of driving.AskService.
type mockAskService struct {
	answer   *domain.Answer
	err      error
	question string
	opts     domain.AskOptions
}

func (m *mockAskService) Ask(_ context.Context, question string, opts domain.AskOptions) (*domain.Answer, error) {
	m.question = question
	m.opts = opts
	if m.err != nil {
		return nil, m.err
	}
	if m.answer == nil {
		return &domain.Answer{Answer: "ok"}, nil
	}
	return m.answer, nil
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents   []domain.DocumentSummary
	stats       domain.IndexStats
	removed     int
	err         error
	deletedID   string
	deletedName string
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.DocumentSummary, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Names(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(m.documents))
	for _, d := range m.documents {
		names = append(names, d.Name)
	}
	return names, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, docID string) (int, error) {
	m.deletedID = docID
	return m.removed, m.err
}

func (m *mockDocumentService) DeleteByName(_ context.Context, name string) (int, error) {
	m.deletedName = name
	return m.removed, m.err
}

func (m *mockDocumentService) Stats(_ context.Context) (domain.IndexStats, error) {
	return m.stats, m.err
}

func (m *mockDocumentService) Reset(_ context.Context) error {
	return m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	report  *domain.IngestReport
	err     error
	paths   []string
	content string
	opts    domain.IngestOptions
}

func (m *mockIngestService) IngestFile(
	_ context.Context, path string, opts domain.IngestOptions,
) (*domain.IngestResult, error) {
	m.paths = append(m.paths, path)
	m.opts = opts
	return &domain.IngestResult{Path: path, Status: domain.IngestStatusAdded}, m.err
}

func (m *mockIngestService) IngestContent(
	_ context.Context, name, _ string, content []byte, opts domain.IngestOptions,
) (*domain.IngestResult, error) {
	m.content = string(content)
	m.opts = opts
	if m.err != nil {
		return nil, m.err
	}
	return &domain.IngestResult{Name: name, Chunks: 1, Status: domain.IngestStatusAdded}, nil
}

func (m *mockIngestService) IngestPaths(
	_ context.Context, paths []string, opts domain.IngestOptions,
) (*domain.IngestReport, error) {
	m.paths = paths
	m.opts = opts
	return m.report, m.err
}

func (m *mockIngestService) Supports(string) bool { return true }

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	entries []domain.HistoryEntry
	err     error
	limit   int
	cleared bool
}

func (m *mockHistoryService) Recent(_ context.Context, limit int) ([]domain.HistoryEntry, error) {
	m.limit = limit
	return m.entries, m.err
}

func (m *mockHistoryService) Clear(_ context.Context) error {
	m.cleared = m.err == nil
	return m.err
}
