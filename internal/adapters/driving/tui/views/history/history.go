// Package history provides the interaction log view for the TUI.
package history

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
)

var errNoHistoryService = errors.New("history is not available")

// View lists recent questions, newest first, with the selected answer below.
type View struct {
	styles         *styles.Styles
	historyService driving.HistoryService
	ctx            context.Context

	entries  []domain.HistoryEntry
	selected int
	width    int
	height   int
	err      error
	loading  bool
}

// NewView creates a new history view.
func NewView(s *styles.Styles, historyService driving.HistoryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:         s,
		historyService: historyService,
		ctx:            context.Background(),
		width:          80,
		height:         24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the most recent entries.
func (v *View) Init() tea.Cmd {
	v.selected = 0
	v.err = nil
	v.loading = true
	svc := v.historyService
	ctx := v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.HistoryLoaded{Err: errNoHistoryService}
		}
		entries, err := svc.Recent(ctx, domain.DefaultHistoryLimit)
		return messages.HistoryLoaded{Entries: entries, Err: err}
	}
}

// Update handles messages for the history view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.HistoryLoaded:
		v.loading = false
		v.err = msg.Err
		// Recent returns oldest first.
		v.entries = make([]domain.HistoryEntry, 0, len(msg.Entries))
		for i := len(msg.Entries) - 1; i >= 0; i-- {
			v.entries = append(v.entries, msg.Entries[i])
		}
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}
		case "down", "j":
			if v.selected < len(v.entries)-1 {
				v.selected++
			}
		case "r":
			return v, v.Init()
		case "esc":
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		}
	}
	return v, nil
}

// View renders the history view.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render(fmt.Sprintf("History (%d)", len(v.entries))))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading history..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case len(v.entries) == 0:
		b.WriteString(v.styles.Muted.Render("No history yet."))
	default:
		b.WriteString(v.renderEntries())
		b.WriteString("\n\n")
		b.WriteString(v.renderSelected())
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [r] reload  [esc] back"))
	return b.String()
}

func (v *View) renderEntries() string {
	// The lower half of the screen shows the selected answer.
	visible := max(v.height/2-4, 1)
	start := 0
	if v.selected >= visible {
		start = v.selected - visible + 1
	}
	end := min(start+visible, len(v.entries))

	maxLen := max(v.width-24, 10)
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		e := v.entries[i]
		question := e.Question
		if len(question) > maxLen {
			question = question[:maxLen-3] + "..."
		}
		stamp := e.Timestamp.Local().Format("01-02 15:04")
		if i == v.selected {
			lines = append(lines, v.styles.Selected.Render(fmt.Sprintf("> %s  %s", stamp, question)))
		} else {
			lines = append(lines, v.styles.Muted.Render("  "+stamp+"  ")+v.styles.Normal.Render(question))
		}
	}
	return strings.Join(lines, "\n")
}

func (v *View) renderSelected() string {
	e := v.SelectedEntry()
	if e == nil {
		return ""
	}
	width := max(v.width-4, 20)
	parts := []string{
		v.styles.Question.Render("Q: " + e.Question),
		v.styles.Answer.Width(width).Render(e.Answer),
	}
	if len(e.Sources) > 0 {
		refs := make([]string, 0, len(e.Sources))
		for _, s := range e.Sources {
			refs = append(refs, fmt.Sprintf("%s (%.3f)", s.Document, s.Relevance))
		}
		parts = append(parts, v.styles.Muted.Render("Sources: "+strings.Join(refs, ", ")))
	}
	return strings.Join(parts, "\n")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Entries returns the loaded entries, newest first.
func (v *View) Entries() []domain.HistoryEntry {
	return v.entries
}

// SelectedEntry returns the highlighted entry, or nil.
func (v *View) SelectedEntry() *domain.HistoryEntry {
	if v.selected < 0 || v.selected >= len(v.entries) {
		return nil
	}
	return &v.entries[v.selected]
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
