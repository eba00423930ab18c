package cli

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

type mockIngestService struct {
	report *domain.IngestReport
	err    error
	paths  []string
	opts   domain.IngestOptions
}

func (m *mockIngestService) IngestFile(
	_ context.Context, path string, opts domain.IngestOptions,
) (*domain.IngestResult, error) {
	m.paths = append(m.paths, path)
	m.opts = opts
	return &domain.IngestResult{Path: path, Status: domain.IngestStatusAdded}, m.err
}

func (m *mockIngestService) IngestContent(
	_ context.Context, name, path string, _ []byte, opts domain.IngestOptions,
) (*domain.IngestResult, error) {
	m.opts = opts
	return &domain.IngestResult{Name: name, Path: path, Status: domain.IngestStatusAdded}, m.err
}

func (m *mockIngestService) IngestPaths(
	_ context.Context, paths []string, opts domain.IngestOptions,
) (*domain.IngestReport, error) {
	m.paths = paths
	m.opts = opts
	if m.report == nil {
		return &domain.IngestReport{}, m.err
	}
	return m.report, m.err
}

func (m *mockIngestService) Supports(name string) bool { return name != "" }

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
	return m.answer, nil
}

type mockDocumentService struct {
	docs       []domain.DocumentSummary
	stats      domain.IndexStats
	removed    int
	err        error
	deleted    string
	resetCalls int
}

func (m *mockDocumentService) List(context.Context) ([]domain.DocumentSummary, error) {
	return m.docs, m.err
}

func (m *mockDocumentService) Names(context.Context) ([]string, error) {
	names := make([]string, 0, len(m.docs))
	for _, d := range m.docs {
		names = append(names, d.Name)
	}
	sort.Strings(names)
	return names, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, id string) (int, error) {
	m.deleted = id
	return m.removed, m.err
}

func (m *mockDocumentService) DeleteByName(_ context.Context, name string) (int, error) {
	m.deleted = name
	return m.removed, m.err
}

func (m *mockDocumentService) Stats(context.Context) (domain.IndexStats, error) {
	return m.stats, m.err
}

func (m *mockDocumentService) Reset(context.Context) error {
	m.resetCalls++
	return m.err
}

type mockHistoryService struct {
	entries []domain.HistoryEntry
	limit   int
	cleared bool
	err     error
}

func (m *mockHistoryService) Recent(_ context.Context, limit int) ([]domain.HistoryEntry, error) {
	m.limit = limit
	return m.entries, m.err
}

func (m *mockHistoryService) Clear(context.Context) error {
	m.cleared = m.err == nil
	return m.err
}

type mockSettingsService struct {
	settings     domain.Settings
	values       map[string]string
	saved        int
	setErr       error
	validateErr  error
	embeddingErr error
	llmErr       error
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultSettings(), values: map[string]string{}}
}

func (m *mockSettingsService) Get() domain.Settings { return m.settings }

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockSettingsService) Unset(key string) error {
	if m.setErr != nil {
		return m.setErr
	}
	delete(m.values, key)
	return nil
}

func (m *mockSettingsService) Save() error {
	m.saved++
	return nil
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) Keys() []string {
	return []string{"chunker.overlap", "chunker.size", "llm.model"}
}

func (m *mockSettingsService) GetDefaults() domain.Settings { return domain.DefaultSettings() }

func (m *mockSettingsService) ValidateEmbeddingConfig(context.Context) error { return m.embeddingErr }

func (m *mockSettingsService) ValidateLLMConfig(context.Context) error { return m.llmErr }

type mockModelLister struct {
	models []string
	err    error
}

func (m *mockModelLister) ListModels(context.Context) ([]string, error) {
	return m.models, m.err
}

// testServices holds the mocks wired by setupTestServices.
type testServices struct {
	ingest   *mockIngestService
	ask      *mockAskService
	docs     *mockDocumentService
	history  *mockHistoryService
	settings *mockSettingsService
	models   *mockModelLister
}

// setupTestServices wires fresh mocks into the commands and returns them
// with a cleanup that unwires them.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		ingest: &mockIngestService{},
		ask: &mockAskService{answer: &domain.Answer{
			Answer: "The launch moved to March.",
			Sources: []domain.SearchResult{
				{ChunkID: "d1_chunk_0", Document: "notes.md", Text: "launch in March", Relevance: -0.42},
			},
			Generated: true,
		}},
		docs: &mockDocumentService{
			docs: []domain.DocumentSummary{{
				ID: "d1", Name: "notes.md", Path: "/docs/notes.md", ChunkCount: 3,
				AddedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			}},
			stats: domain.IndexStats{
				TotalChunks: 3, TotalDocuments: 1, StorageLocation: "/tmp/index.db", Dimensions: 384, Backend: "sqlite",
			},
			removed: 3,
		},
		history:  &mockHistoryService{},
		settings: newMockSettingsService(),
		models:   &mockModelLister{models: []string{"llama3:latest", "nomic-embed-text:latest"}},
	}

	SetServices(&Services{
		Ingest:    ts.ingest,
		Ask:       ts.ask,
		Documents: ts.docs,
		History:   ts.history,
		Settings:  ts.settings,
		Models:    ts.models,
	})

	return ts, func() { SetServices(nil) }
}

// executeCommand runs rootCmd with args and returns the combined output.
// Flags are reset to their defaults first since cobra keeps parsed values
// between executions.
func executeCommand(args ...string) (string, error) {
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(new(bytes.Buffer))
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

// executeWithInput is executeCommand with stdin content.
func executeWithInput(input string, args ...string) (string, error) {
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(bytes.NewBufferString(input))
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

var errBoom = errors.New("boom")
