package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

// Ensure AskService implements the interface.
var _ driving.AskService = (*AskService)(nil)

// Fixed answers.
const (
	// NoDocumentsAnswer is returned when the index is empty.
	NoDocumentsAnswer = "No documents have been uploaded yet. " +
		"Please upload some documents first to ask questions about them."

	notFoundLead   = "I couldn't find any relevant information. I have these documents:\n\n"
	notFoundTail   = "\n\nTry asking more specific questions about the content of these documents."
	fallbackLead   = "I found this information but couldn't generate a summary:\n\n"
	fallbackRunes  = 500
	promptDocLimit = 5
	noteDocLimit   = 3
	defaultAskTopK = 5

	relevanceNoteFmt = "\n\nNote: I searched in %s but the match wasn't perfect. " +
		"Try asking more specific questions about the content."
)

// AskConfig holds the answering parameters taken from settings.
type AskConfig struct {
	TopK                   int
	RelevanceNoteThreshold float64
	Temperature            float64
	MaxTokens              int
	LLMTimeout             time.Duration
}

// AskConfigFrom extracts the answering parameters from settings.
func AskConfigFrom(s domain.Settings) AskConfig {
	return AskConfig{
		TopK:                   s.Retrieval.TopK,
		RelevanceNoteThreshold: s.Retrieval.RelevanceNoteThreshold,
		Temperature:            s.LLM.Temperature,
		MaxTokens:              s.LLM.MaxTokens,
		LLMTimeout:             time.Duration(s.LLM.TimeoutSeconds) * time.Second,
	}
}

// AskService answers questions: it routes the question to documents,
// retrieves the nearest chunks and asks the LLM for a grounded answer.
type AskService struct {
	index     driven.VectorIndex
	retriever *Retriever
	router    *Router
	llm       driven.LLMService
	prompts   driven.PromptStore
	history   driven.HistoryStore
	cfg       AskConfig
	now       func() time.Time
}

// NewAskService creates a new ask service.
// llm, prompts and history are optional (can be nil).
func NewAskService(
	index driven.VectorIndex,
	retriever *Retriever,
	router *Router,
	llm driven.LLMService,
	prompts driven.PromptStore,
	history driven.HistoryStore,
	cfg AskConfig,
) *AskService {
	if router == nil {
		router = NewRouter(nil)
	}
	return &AskService{
		index:     index,
		retriever: retriever,
		router:    router,
		llm:       llm,
		prompts:   prompts,
		history:   history,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Ask answers question from the indexed documents.
func (s *AskService) Ask(ctx context.Context, question string, opts domain.AskOptions) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}
	if s.index == nil || s.retriever == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}

	logger.Section("Ask")
	logger.Debug("Question: %q", question)

	names, err := s.index.ListDocumentNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	if len(names) == 0 {
		logger.Info("Index is empty")
		return &domain.Answer{Answer: NoDocumentsAnswer, Sources: []domain.SearchResult{}}, nil
	}

	// A directive in the question wins over the document option.
	target, clean, hasDirective := ParseDirective(question)
	if !hasDirective {
		target = strings.TrimSpace(opts.Document)
	}
	decision := s.router.RouteTo(target, clean, names)
	var filter []string
	if !decision.IsAll() {
		filter = decision.Documents
		logger.Info("Searching %d/%d documents (%s): %s",
			len(filter), len(names), decision.Mode, strings.Join(filter, ", "))
	}

	rewritten := RewriteQuestion(decision.Question)
	if rewritten != decision.Question {
		logger.Debug("Rewritten question: %q", rewritten)
	}

	results, err := s.retriever.Search(ctx, rewritten, s.topK(opts), filter)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	answer := &domain.Answer{
		Sources:   results,
		Documents: filter,
		Rewritten: rewritten,
	}
	if len(results) == 0 {
		logger.Info("No chunks matched")
		answer.Answer = notFoundAnswer(names)
		return answer, nil
	}
	logger.Debug("Best relevance %.3f over %d chunks", results[0].Relevance, len(results))

	contextBlock := BuildContext(results)
	text, err := s.generate(ctx, decision.Question, contextBlock, results)
	if err != nil {
		logger.Warn("Answer generation failed: %v", err)
		answer.Answer = fallbackAnswer(contextBlock)
	} else {
		answer.Answer = text
		answer.Generated = true
	}

	s.record(ctx, question, answer)
	return answer, nil
}

func (s *AskService) topK(opts domain.AskOptions) int {
	switch {
	case opts.TopK > 0:
		return opts.TopK
	case s.cfg.TopK > 0:
		return s.cfg.TopK
	default:
		return defaultAskTopK
	}
}

// generate asks the LLM for an answer and appends the low-relevance note.
func (s *AskService) generate(
	ctx context.Context, question, contextBlock string, results []domain.SearchResult,
) (string, error) {
	if s.llm == nil {
		return "", domain.ErrLLMUnavailable
	}

	prompt := s.renderPrompt(domain.AnswerPromptData{
		Documents: strings.Join(uniqueDocuments(results, promptDocLimit), ", "),
		Context:   contextBlock,
		Question:  question,
	})

	callCtx, cancel := withTimeout(ctx, s.cfg.LLMTimeout)
	defer cancel()

	text, err := s.llm.Chat(callCtx, []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: s.loadPrompt(driven.PromptAnswerSystem, domain.DefaultAnswerSystemPrompt)},
		{Role: driven.RoleUser, Content: prompt},
	}, driven.ChatOptions{
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", classifyTimeout(err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("empty completion")
	}

	if results[0].Relevance < s.cfg.RelevanceNoteThreshold {
		text += fmt.Sprintf(relevanceNoteFmt, strings.Join(uniqueDocuments(results, noteDocLimit), ", "))
	}
	return text, nil
}

// renderPrompt fills the answer template. A user template that fails to
// parse or execute is replaced by the built-in one.
func (s *AskService) renderPrompt(data domain.AnswerPromptData) string {
	text := s.loadPrompt(driven.PromptAnswer, domain.DefaultAnswerPrompt)
	out, err := execute(text, data)
	if err != nil {
		logger.Warn("Answer prompt template invalid, using default: %v", err)
		out, _ = execute(domain.DefaultAnswerPrompt, data)
	}
	return out
}

func (s *AskService) loadPrompt(name, fallback string) string {
	if s.prompts == nil {
		return fallback
	}
	p, err := s.prompts.Load(name)
	if err != nil || strings.TrimSpace(p) == "" {
		return fallback
	}
	return p
}

func execute(text string, data domain.AnswerPromptData) (string, error) {
	tmpl, err := template.New("answer").Option("missingkey=error").Parse(text)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// record appends the exchange to the interaction log. Failures are logged
// and never reach the caller.
func (s *AskService) record(ctx context.Context, question string, answer *domain.Answer) {
	if s.history == nil {
		return
	}
	entry := domain.NewHistoryEntry(question, *answer, s.now().UTC())
	if err := s.history.Append(ctx, entry); err != nil {
		logger.Error("Failed to save history: %v", err)
	}
}

// BuildContext joins results as "From <doc>:\n<text>" blocks separated by
// blank lines.
func BuildContext(results []domain.SearchResult) string {
	blocks := make([]string, len(results))
	for i, r := range results {
		blocks[i] = "From " + r.Document + ":\n" + r.Text
	}
	return strings.Join(blocks, "\n\n")
}

// uniqueDocuments returns the distinct document names among the first
// limit results, in order of appearance.
func uniqueDocuments(results []domain.SearchResult, limit int) []string {
	var names []string
	seen := make(map[string]bool)
	for i, r := range results {
		if i >= limit {
			break
		}
		if !seen[r.Document] {
			seen[r.Document] = true
			names = append(names, r.Document)
		}
	}
	return names
}

func notFoundAnswer(names []string) string {
	lines := make([]string, len(names))
	for i, n := range names {
		lines[i] = "• " + n
	}
	return notFoundLead + strings.Join(lines, "\n") + notFoundTail
}

func fallbackAnswer(contextBlock string) string {
	runes := []rune(contextBlock)
	if len(runes) > fallbackRunes {
		runes = runes[:fallbackRunes]
	}
	return fallbackLead + string(runes) + "..."
}
