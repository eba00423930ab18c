// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// SourceList displays the passages an answer was grounded on.
type SourceList struct {
	sources  []domain.SearchResult
	selected int
	expanded bool
	styles   *styles.Styles
	width    int
	height   int
}

// NewSourceList creates a new source list component.
func NewSourceList(s *styles.Styles) *SourceList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &SourceList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the source list.
func (l *SourceList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *SourceList) Update(msg tea.Msg) (*SourceList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the source list.
func (l *SourceList) View() string {
	if len(l.sources) == 0 {
		return l.styles.Muted.Render("No sources")
	}

	lines := make([]string, 0, len(l.sources)+2)
	lines = append(lines, l.styles.Subtitle.Render(fmt.Sprintf("Sources (%d)", len(l.sources))), "")

	// Each entry takes two lines.
	visibleCount := (l.height - 2) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if l.selected >= visibleCount {
		start = l.selected - visibleCount + 1
	}
	end := min(start+visibleCount, len(l.sources))

	for i := start; i < end; i++ {
		lines = append(lines, l.renderSource(i, &l.sources[i]))
	}

	if l.expanded {
		if src := l.SelectedSource(); src != nil {
			lines = append(lines, "", l.styles.Passage.Width(max(l.width-4, 20)).Render(src.Text))
		}
	}

	return strings.Join(lines, "\n")
}

func (l *SourceList) renderSource(index int, src *domain.SearchResult) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	name := src.Document
	if name == "" {
		name = "(unknown)"
	}
	maxNameLen := max(l.width-20, 10)
	if len(name) > maxNameLen {
		name = name[:maxNameLen-3] + "..."
	}

	label := fmt.Sprintf("%s[%d] %-*s", indicator, index+1, maxNameLen, name)
	relevance := fmt.Sprintf("%.3f", src.Relevance)

	var title string
	if index == l.selected {
		title = l.styles.Selected.Render(label + "  " + relevance)
	} else {
		title = l.styles.Normal.Render(label+"  ") + l.styles.Relevance(src.Relevance).Render(relevance)
	}

	preview := strings.Join(strings.Fields(src.Text), " ")
	maxPreviewLen := max(l.width-8, 20)
	if len(preview) > maxPreviewLen {
		preview = preview[:maxPreviewLen-3] + "..."
	}

	return title + "\n" + l.styles.Muted.Render("      "+preview)
}

// SetSources replaces the listed sources and resets the selection.
func (l *SourceList) SetSources(sources []domain.SearchResult) {
	l.sources = sources
	l.selected = 0
	l.expanded = false
}

// Sources returns the current sources.
func (l *SourceList) Sources() []domain.SearchResult {
	return l.sources
}

// Selected returns the index of the selected source.
func (l *SourceList) Selected() int {
	return l.selected
}

// SelectedSource returns the currently selected source, or nil if none.
func (l *SourceList) SelectedSource() *domain.SearchResult {
	if l.selected < 0 || l.selected >= len(l.sources) {
		return nil
	}
	return &l.sources[l.selected]
}

// ToggleExpanded shows or hides the full passage of the selected source.
func (l *SourceList) ToggleExpanded() {
	if len(l.sources) > 0 {
		l.expanded = !l.expanded
	}
}

// Expanded reports whether the full passage is shown.
func (l *SourceList) Expanded() bool {
	return l.expanded
}

// MoveUp moves selection up.
func (l *SourceList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *SourceList) MoveDown() {
	if l.selected < len(l.sources)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *SourceList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of sources.
func (l *SourceList) Count() int {
	return len(l.sources)
}
