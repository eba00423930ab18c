package domain

// SearchResult represents a single retrieved chunk.
type SearchResult struct {
	// ChunkID identifies the matched chunk.
	ChunkID string `json:"chunk_id"`

	// Text is the chunk content.
	Text string `json:"text"`

	// Relevance is the negated L2 distance to the query. Higher is more
	// relevant and the value is never positive.
	Relevance float64 `json:"relevance"`

	// Document is the doc_name of the source document.
	Document string `json:"document"`
}

// IndexStats summarises the contents of a vector index.
type IndexStats struct {
	TotalChunks     int    `json:"total_chunks"`
	TotalDocuments  int    `json:"total_documents"`
	StorageLocation string `json:"storage_location"`
	Dimensions      int    `json:"dimensions"`
	Backend         string `json:"backend"`
}

// RouteMode records how the router arrived at a document selection.
type RouteMode string

// Routing outcomes.
const (
	// RouteModeDirective means an explicit "[Search only in X]" prefix matched.
	RouteModeDirective RouteMode = "directive"

	// RouteModeHeuristic means category or filename keywords matched.
	RouteModeHeuristic RouteMode = "heuristic"

	// RouteModeAll means no narrowing applied.
	RouteModeAll RouteMode = "all"
)

// RouteDecision is the router output for one question.
type RouteDecision struct {
	// Question is the question with any directive stripped.
	Question string

	// Documents is the selected subset of document names.
	Documents []string

	// Mode records which rule produced the selection.
	Mode RouteMode
}

// IsAll reports whether the decision covers every indexed document.
func (d RouteDecision) IsAll() bool {
	return d.Mode == RouteModeAll
}

// AskOptions tunes a single question.
type AskOptions struct {
	// TopK overrides the configured number of chunks to retrieve.
	TopK int

	// Document restricts the question to documents matching this name.
	// It is shorthand for the "[Search only in X]" directive.
	Document string
}

// Answer is the orchestrator output.
type Answer struct {
	// Answer is the text shown to the user.
	Answer string `json:"answer"`

	// Sources are the retrieved chunks the answer was grounded on.
	Sources []SearchResult `json:"sources"`

	// Documents is the routed document subset, nil when all were searched.
	Documents []string `json:"documents,omitempty"`

	// Rewritten is the question sent to retrieval after rewriting.
	Rewritten string `json:"rewritten_question,omitempty"`

	// Generated is false when the answer fell back to raw context.
	Generated bool `json:"generated"`
}
