package domain

import "time"

// Interaction log limits.
const (
	// MaxHistoryEntries is the number of entries kept after every append.
	MaxHistoryEntries = 100

	// MaxHistorySources is the number of sources recorded per entry.
	MaxHistorySources = 5

	// DefaultHistoryLimit is the read limit when none is given.
	DefaultHistoryLimit = 50
)

// SourceRef is a compact reference to a retrieved chunk.
type SourceRef struct {
	Document  string  `json:"document"`
	Relevance float64 `json:"relevance"`
}

// HistoryEntry records one question/answer exchange.
type HistoryEntry struct {
	Timestamp time.Time   `json:"timestamp"`
	Question  string      `json:"question"`
	Answer    string      `json:"answer"`
	Sources   []SourceRef `json:"sources"`
}

// NewHistoryEntry builds an entry from an answer, keeping at most
// MaxHistorySources sources.
func NewHistoryEntry(question string, answer Answer, at time.Time) HistoryEntry {
	sources := make([]SourceRef, 0, min(len(answer.Sources), MaxHistorySources))
	for i, s := range answer.Sources {
		if i >= MaxHistorySources {
			break
		}
		sources = append(sources, SourceRef{Document: s.Document, Relevance: s.Relevance})
	}
	return HistoryEntry{
		Timestamp: at,
		Question:  question,
		Answer:    answer.Answer,
		Sources:   sources,
	}
}
