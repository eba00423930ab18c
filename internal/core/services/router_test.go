package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

func TestRouter_Directive(t *testing.T) {
	docs := []string{"memo.txt", "report.pdf", "report_v2.pdf"}
	router := NewRouter(nil)

	tests := []struct {
		name     string
		question string
		want     []string
		mode     domain.RouteMode
		clean    string
	}{
		{
			name:     "restricts to substring matches",
			question: "[Search only in report] what are the totals?",
			want:     []string{"report.pdf", "report_v2.pdf"},
			mode:     domain.RouteModeDirective,
			clean:    "what are the totals?",
		},
		{
			name:     "exact name",
			question: "[Search only in memo.txt]   who signed it?",
			want:     []string{"memo.txt"},
			mode:     domain.RouteModeDirective,
			clean:    "who signed it?",
		},
		{
			name:     "unknown name widens to all",
			question: "[Search only in missing.doc] anything?",
			want:     docs,
			mode:     domain.RouteModeAll,
			clean:    "anything?",
		},
		{
			name:     "match is case sensitive",
			question: "[Search only in MEMO] hello",
			want:     docs,
			mode:     domain.RouteModeAll,
			clean:    "hello",
		},
		{
			name:     "matching every document is all",
			question: "[Search only in .] hello",
			want:     docs,
			mode:     domain.RouteModeAll,
			clean:    "hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := router.Route(tt.question, docs)

			assert.Equal(t, tt.want, got.Documents)
			assert.Equal(t, tt.mode, got.Mode)
			assert.Equal(t, tt.clean, got.Question)
		})
	}
}

func TestRouter_EmptyDirectiveFallsBackToHeuristic(t *testing.T) {
	docs := []string{"sales.xlsx", "memo.txt"}

	got := NewRouter(nil).Route("[Search only in ] show the spreadsheet", docs)

	assert.Equal(t, []string{"sales.xlsx"}, got.Documents)
	assert.Equal(t, domain.RouteModeHeuristic, got.Mode)
	assert.Equal(t, "show the spreadsheet", got.Question)
}

func TestRouter_Heuristic(t *testing.T) {
	docs := []string{"sales.xlsx", "data.csv", "memo.txt", "quarterly_report.pdf", "q1.txt"}
	router := NewRouter(nil)

	tests := []struct {
		name     string
		question string
		want     []string
		mode     domain.RouteMode
	}{
		{
			name:     "category name",
			question: "What's in the spreadsheet?",
			want:     []string{"sales.xlsx", "data.csv"},
			mode:     domain.RouteModeHeuristic,
		},
		{
			name:     "extension token",
			question: "Summarise the csv numbers",
			want:     []string{"sales.xlsx", "data.csv"},
			mode:     domain.RouteModeHeuristic,
		},
		{
			name:     "name fragment with underscores as spaces",
			question: "Summarise the quarterly report",
			want:     []string{"quarterly_report.pdf"},
			mode:     domain.RouteModeHeuristic,
		},
		{
			name:     "short fragments ignored",
			question: "Numbers for q1",
			want:     docs,
			mode:     domain.RouteModeAll,
		},
		{
			name:     "nothing matched searches everything",
			question: "Who won the match?",
			want:     docs,
			mode:     domain.RouteModeAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := router.Route(tt.question, docs)

			assert.Equal(t, tt.want, got.Documents)
			assert.Equal(t, tt.mode, got.Mode)
			assert.Equal(t, tt.question, got.Question)
		})
	}
}

func TestRouter_ExtensionIsNotAFragment(t *testing.T) {
	docs := []string{"notes.markdown", "other.txt"}

	got := NewRouter(nil).Route("markdown please", docs)

	assert.True(t, got.IsAll())
}

func TestRouter_CategoryAndFragmentUnion(t *testing.T) {
	docs := []string{"budget.xlsx", "meeting-notes.txt", "slides.pptx"}

	got := NewRouter(nil).Route("compare the spreadsheet with the meeting notes", docs)

	assert.Equal(t, []string{"budget.xlsx", "meeting-notes.txt"}, got.Documents)
}

func TestRouter_EmptyCorpus(t *testing.T) {
	got := NewRouter(nil).Route("anything in the spreadsheet?", nil)

	assert.True(t, got.IsAll())
	assert.Empty(t, got.Documents)
}

func TestRouter_CustomTable(t *testing.T) {
	table := domain.CategoryTable{{Name: "slides", Extensions: []string{".pptx", ".key"}}}
	docs := []string{"deck.pptx", "sales.xlsx"}

	got := NewRouter(table).Route("show the slides", docs)
	assert.Equal(t, []string{"deck.pptx"}, got.Documents)

	// The built-in spreadsheet category is gone.
	got = NewRouter(table).Route("show the spreadsheet", docs)
	assert.True(t, got.IsAll())
}

func TestParseDirective(t *testing.T) {
	target, rest, ok := ParseDirective("[Search only in a.txt] q")
	assert.True(t, ok)
	assert.Equal(t, "a.txt", target)
	assert.Equal(t, "q", rest)

	_, rest, ok = ParseDirective("[Search only in a.txt q")
	assert.False(t, ok)
	assert.Equal(t, "[Search only in a.txt q", rest)

	_, _, ok = ParseDirective("  [Search only in a.txt] q")
	assert.False(t, ok)
}

func TestRouter_RouteTo(t *testing.T) {
	docs := []string{"notes [draft].txt", "sales.csv"}
	router := NewRouter(nil)

	got := router.RouteTo("notes [draft]", "what changed?", docs)
	assert.Equal(t, domain.RouteModeDirective, got.Mode)
	assert.Equal(t, []string{"notes [draft].txt"}, got.Documents)
	assert.Equal(t, "what changed?", got.Question)

	got = router.RouteTo("", "show the spreadsheet", docs)
	assert.Equal(t, []string{"sales.csv"}, got.Documents)

	got = router.RouteTo("missing", "what changed?", docs)
	assert.True(t, got.IsAll())
}

func TestNameFragments(t *testing.T) {
	assert.Equal(t, []string{"quarterly report"}, nameFragments("Quarterly_Report.pdf"))
	assert.Equal(t, []string{"sales 2024", "final"}, nameFragments("sales-2024.final.xlsx"))
	assert.Empty(t, nameFragments("q1.txt"))
	assert.Empty(t, nameFragments("README"))
}
