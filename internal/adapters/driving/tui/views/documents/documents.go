// Package documents lists indexed documents and deletes them from the index.
package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
)

var errNoDocumentService = errors.New("document service not available")

// chrome is the number of lines used by the title, notice and footer.
const chrome = 8

// View lists documents with a cursor. Delete asks for confirmation first.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	svc    driving.DocumentService
	ctx    context.Context

	docs       []domain.DocumentSummary
	cursor     int
	offset     int
	loading    bool
	confirming bool
	notice     string
	err        error

	width  int
	height int
}

// NewView creates a documents view. Nil styles or keymap use the defaults.
func NewView(s *styles.Styles, km *keymap.KeyMap, svc driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{styles: s, keymap: km, svc: svc, ctx: context.Background()}
}

// WithContext sets the context passed to the document service.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init clears transient state and starts loading the list.
func (v *View) Init() tea.Cmd {
	v.cursor, v.offset = 0, 0
	v.err, v.notice = nil, ""
	v.confirming = false
	return v.reload()
}

func (v *View) reload() tea.Cmd {
	v.loading = true
	svc, ctx := v.svc, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentsLoaded{Err: errNoDocumentService}
		}
		docs, err := svc.List(ctx)
		return messages.DocumentsLoaded{Documents: docs, Err: err}
	}
}

func (v *View) remove(docID string) tea.Cmd {
	svc, ctx := v.svc, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentDeleted{DocumentID: docID, Err: errNoDocumentService}
		}
		n, err := svc.Delete(ctx, docID)
		return messages.DocumentDeleted{DocumentID: docID, Removed: n, Err: err}
	}
}

// Update handles keys and service results.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case tea.KeyMsg:
		if v.confirming {
			return v, v.answerConfirm(msg)
		}
		return v, v.handleKey(msg)

	case messages.DocumentsLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.docs = msg.Documents
			v.cursor = min(v.cursor, max(len(v.docs)-1, 0))
			v.scroll()
		}

	case messages.DocumentDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.notice = fmt.Sprintf("Deleted %d chunks", msg.Removed)
		return v, v.reload()

	case messages.ErrorOccurred:
		v.err = msg.Err
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) tea.Cmd {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Up):
		v.move(-1)
	case keymap.Matches(k, v.keymap.Down):
		v.move(1)
	case keymap.Matches(k, v.keymap.Delete), k == "enter":
		v.confirming = len(v.docs) > 0
	case keymap.Matches(k, v.keymap.Reload):
		v.notice = ""
		return v.reload()
	case keymap.Matches(k, v.keymap.Back):
		return func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
	}
	return nil
}

// answerConfirm deletes on Confirm; any other key cancels.
func (v *View) answerConfirm(msg tea.KeyMsg) tea.Cmd {
	v.confirming = false
	if !keymap.Matches(msg.String(), v.keymap.Confirm) || v.cursor >= len(v.docs) {
		return nil
	}
	return v.remove(v.docs[v.cursor].ID)
}

func (v *View) move(delta int) {
	next := v.cursor + delta
	if next < 0 || next >= len(v.docs) {
		return
	}
	v.cursor = next
	v.scroll()
}

// scroll keeps the cursor inside the visible window.
func (v *View) scroll() {
	rows := v.rows()
	switch {
	case v.cursor < v.offset:
		v.offset = v.cursor
	case v.cursor >= v.offset+rows:
		v.offset = v.cursor - rows + 1
	}
}

func (v *View) rows() int {
	return max(v.height-chrome, 1)
}

// View renders the list, or the confirmation prompt.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render(v.title()))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case len(v.docs) == 0:
		b.WriteString(v.styles.Muted.Render("No documents indexed. Run 'ragdesk ingest PATH' to add some."))
	case v.confirming:
		return b.String() + v.confirmPrompt()
	default:
		b.WriteString(v.list())
	}

	b.WriteString("\n\n")
	b.WriteString(v.footer(v.keymap.DocumentsHelp()))
	return b.String()
}

func (v *View) title() string {
	chunks := 0
	for _, d := range v.docs {
		chunks += d.ChunkCount
	}
	if chunks == 0 {
		return fmt.Sprintf("Documents (%d)", len(v.docs))
	}
	return fmt.Sprintf("Documents (%d) · %d chunks", len(v.docs), chunks)
}

func (v *View) list() string {
	var b strings.Builder
	if v.notice != "" {
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n\n")
	}

	rows := v.rows()
	end := min(v.offset+rows, len(v.docs))
	for i := v.offset; i < end; i++ {
		b.WriteString(v.row(i))
		b.WriteString("\n")
	}
	if len(v.docs) > rows {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("\n  [%d-%d of %d]", v.offset+1, end, len(v.docs))))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (v *View) row(i int) string {
	doc := v.docs[i]
	nameWidth := max(v.width/2-4, 10)
	name := doc.Name
	if len(name) > nameWidth {
		name = name[:nameWidth-3] + "..."
	}
	detail := fmt.Sprintf("%d chunks  %s", doc.ChunkCount, doc.AddedAt.Format("2006-01-02 15:04"))

	if i == v.cursor {
		return v.styles.Selected.Render(fmt.Sprintf("> %-*s  %s", nameWidth, name, detail))
	}
	return v.styles.Normal.Render(fmt.Sprintf("  %-*s  ", nameWidth, name)) + v.styles.Muted.Render(detail)
}

func (v *View) confirmPrompt() string {
	doc := v.docs[v.cursor]
	var b strings.Builder
	b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Delete %s (%d chunks) from the index?", doc.Name, doc.ChunkCount)))
	b.WriteString("\n")
	if doc.Path != "" {
		b.WriteString(v.styles.Muted.Render(doc.Path))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(v.footer([]key.Binding{v.keymap.Confirm, v.keymap.Back}))
	return b.String()
}

func (v *View) footer(bindings []key.Binding) string {
	parts := make([]string, len(bindings))
	for i, kb := range bindings {
		h := kb.Help()
		parts[i] = fmt.Sprintf("[%s] %s", h.Key, h.Desc)
	}
	return v.styles.Help.Render(strings.Join(parts, "  "))
}

// SetDimensions sets the view size.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.scroll()
}

// Documents returns the loaded list.
func (v *View) Documents() []domain.DocumentSummary {
	return v.docs
}

// SelectedIndex returns the cursor position.
func (v *View) SelectedIndex() int {
	return v.cursor
}

// SelectedDocument returns the document under the cursor, or nil.
func (v *View) SelectedDocument() *domain.DocumentSummary {
	if v.cursor < len(v.docs) {
		return &v.docs[v.cursor]
	}
	return nil
}

// Confirming reports whether the delete prompt is open.
func (v *View) Confirming() bool {
	return v.confirming
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
