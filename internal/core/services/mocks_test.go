package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// --- Mock implementations ---

// keywordEmbedder embeds text as the count of each keyword it contains.
type keywordEmbedder struct {
	mu       sync.Mutex
	keywords []string
	calls    int
	err      error
	block    bool
}

func newKeywordEmbedder(keywords ...string) *keywordEmbedder {
	return &keywordEmbedder{keywords: keywords}
}

func (m *keywordEmbedder) vector(text string) []float32 {
	lower := strings.ToLower(text)
	v := make([]float32, len(m.keywords))
	for i, k := range m.keywords {
		v[i] = float32(strings.Count(lower, k))
	}
	return v
}

func (m *keywordEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.vector(text), nil
}

func (m *keywordEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.vector(t)
	}
	return out, nil
}

func (m *keywordEmbedder) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *keywordEmbedder) Dimensions() int              { return len(m.keywords) }
func (m *keywordEmbedder) ModelName() string            { return "keywords" }
func (m *keywordEmbedder) Ping(_ context.Context) error { return nil }
func (m *keywordEmbedder) Close() error                 { return nil }

// shortBatchEmbedder returns one vector fewer than asked for.
type shortBatchEmbedder struct{ keywordEmbedder }

func (m *shortBatchEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	return make([][]float32, len(texts)-1), nil
}

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	mu       sync.Mutex
	reply    string
	err      error
	block    bool
	calls    int
	messages []driven.ChatMessage
	opts     driven.ChatOptions
}

func (m *mockLLMService) Generate(ctx context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	return m.Chat(ctx, []driven.ChatMessage{{Role: driven.RoleUser, Content: prompt}}, driven.ChatOptions{})
}

func (m *mockLLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.mu.Lock()
	m.calls++
	m.messages = messages
	m.opts = opts
	m.mu.Unlock()
	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockLLMService) userPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.messages {
		if msg.Role == driven.RoleUser {
			return msg.Content
		}
	}
	return ""
}

func (m *mockLLMService) ModelName() string            { return "mock-llm" }
func (m *mockLLMService) Ping(_ context.Context) error { return nil }
func (m *mockLLMService) Close() error                 { return nil }

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	p, ok := m.prompts[name]
	if !ok {
		return "", errors.New("no prompt")
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// failingHistory rejects every write.
type failingHistory struct{}

func (failingHistory) Append(_ context.Context, _ domain.HistoryEntry) error {
	return errors.New("disk full")
}

func (failingHistory) Read(_ context.Context, _ int) ([]domain.HistoryEntry, error) {
	return nil, errors.New("disk full")
}

func (failingHistory) Clear(_ context.Context) error { return errors.New("disk full") }

// stubIndex records search arguments and returns canned results.
type stubIndex struct {
	names      []string
	results    []domain.SearchResult
	searchErr  error
	listErr    error
	searches   int
	lastTopK   int
	lastFilter []string
}

func (s *stubIndex) Insert(_ context.Context, _ domain.Document, _ []string, _ [][]float32) error {
	return nil
}

func (s *stubIndex) Search(_ context.Context, _ []float32, topK int, filter []string) ([]domain.SearchResult, error) {
	s.searches++
	s.lastTopK = topK
	s.lastFilter = filter
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	if s.results == nil {
		return []domain.SearchResult{}, nil
	}
	return s.results, nil
}

func (s *stubIndex) DeleteDocument(_ context.Context, _ string) (int, error) { return 0, nil }

func (s *stubIndex) ListDocumentNames(_ context.Context) ([]string, error) {
	return s.names, s.listErr
}

func (s *stubIndex) ListDocuments(_ context.Context) ([]domain.DocumentSummary, error) {
	return nil, s.listErr
}

func (s *stubIndex) Stats(_ context.Context) (domain.IndexStats, error) { return domain.IndexStats{}, nil }
func (s *stubIndex) Reset(_ context.Context) error                      { return nil }
func (s *stubIndex) Close() error                                       { return nil }

// mockValidator records the settings it was asked to validate.
type mockValidator struct {
	embedding *domain.EmbeddingSettings
	llm       *domain.LLMSettings
	err       error
}

func (m *mockValidator) ValidateEmbedding(_ context.Context, cfg *domain.EmbeddingSettings) error {
	m.embedding = cfg
	return m.err
}

func (m *mockValidator) ValidateLLM(_ context.Context, cfg *domain.LLMSettings) error {
	m.llm = cfg
	return m.err
}
