// Package menu is the TUI start screen.
package menu

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/styles"
)

// minDescribedWidth is the narrowest terminal that still shows item
// descriptions.
const minDescribedWidth = 60

// Item is one menu entry. Choosing it opens View, or quits the app when
// Quit is set.
type Item struct {
	Label       string
	Description string
	Shortcut    string
	View        messages.ViewType
	Quit        bool
}

// DefaultItems returns the entries in display order.
func DefaultItems() []Item {
	return []Item{
		{"Ask", "Ask a question about your documents", "a", messages.ViewChat, false},
		{"Documents", "Browse and remove indexed documents", "d", messages.ViewDocuments, false},
		{"History", "Review earlier questions and answers", "h", messages.ViewHistory, false},
		{"Help", "Key bindings", "?", messages.ViewHelp, false},
		{"Quit", "", "q", 0, true},
	}
}

// View is the start menu. Items are chosen with the cursor or their
// shortcut key.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	items  []Item
	cursor int

	width, height int
	ready         bool
}

// NewView creates the menu. Nil styles or keymap use the defaults.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{styles: s, keymap: km, items: DefaultItems(), width: 80, height: 24}
}

func (v *View) Init() tea.Cmd {
	return nil
}

// Update moves the cursor or chooses an item.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case tea.KeyMsg:
		return v, v.handleKey(msg.String())
	}
	return v, nil
}

func (v *View) handleKey(k string) tea.Cmd {
	switch {
	case keymap.Matches(k, v.keymap.Up):
		v.cursor = max(v.cursor-1, 0)
		return nil
	case keymap.Matches(k, v.keymap.Down):
		v.cursor = min(v.cursor+1, len(v.items)-1)
		return nil
	case k == "enter":
		return v.choose()
	}
	for i := range v.items {
		if v.items[i].Shortcut == k {
			v.cursor = i
			return v.choose()
		}
	}
	return nil
}

func (v *View) choose() tea.Cmd {
	item := v.items[v.cursor]
	if item.Quit {
		return tea.Quit
	}
	return func() tea.Msg { return messages.ViewChanged{View: item.View} }
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	labelWidth := 0
	for _, item := range v.items {
		labelWidth = max(labelWidth, len(item.Label))
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("ragdesk"))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("Questions about your local documents"))
	b.WriteString("\n\n")
	for i, item := range v.items {
		b.WriteString(v.renderItem(item, i == v.cursor, labelWidth))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(v.footer())
	return b.String()
}

func (v *View) renderItem(item Item, selected bool, labelWidth int) string {
	label := fmt.Sprintf("[%s] %-*s", item.Shortcut, labelWidth, item.Label)
	var line string
	if selected {
		line = v.styles.Selected.Render("> " + label)
	} else {
		line = v.styles.Normal.Render("  " + label)
	}
	if item.Description != "" && v.width >= minDescribedWidth {
		line += v.styles.Muted.Render("  " + item.Description)
	}
	return line
}

func (v *View) footer() string {
	bindings := []key.Binding{v.keymap.Up, v.keymap.Down, v.keymap.Quit}
	parts := []string{}
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, fmt.Sprintf("[%s] %s", h.Key, h.Desc))
	}
	parts = append(parts, "[enter] select")
	return v.styles.Help.Render(strings.Join(parts, "  "))
}

// SetDimensions records the terminal size.
func (v *View) SetDimensions(width, height int) {
	v.width, v.height = width, height
	v.ready = true
}

// Selected returns the cursor position.
func (v *View) Selected() int {
	return v.cursor
}

// Items returns the entries.
func (v *View) Items() []Item {
	return v.items
}
