// Package keymap holds the key bindings shared by the TUI views and the
// help screen.
package keymap

import (
	"slices"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap lists every binding the TUI reacts to. Several bindings share
// "enter"; which one applies depends on the focused view.
type KeyMap struct {
	Quit key.Binding
	Help key.Binding
	Back key.Binding

	Up   key.Binding
	Down key.Binding

	// Ask submits the typed question.
	Ask key.Binding
	// Expand toggles the full text of the selected source passage.
	Expand      key.Binding
	NewQuestion key.Binding

	// Delete asks to remove the selected document; Confirm accepts.
	Delete  key.Binding
	Confirm key.Binding
	Reload  key.Binding
}

// Section is a titled group of bindings on the help screen.
type Section struct {
	Title    string
	Bindings []key.Binding
}

func binding(help, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

// DefaultKeyMap returns the stock bindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: binding("q", "quit", "q", "ctrl+c"),
		Help: binding("?", "help", "?"),
		Back: binding("esc", "back", "esc"),

		Up:   binding("↑/k", "up", "up", "k"),
		Down: binding("↓/j", "down", "down", "j"),

		Ask:         binding("enter", "ask", "enter"),
		Expand:      binding("enter", "passage", "enter"),
		NewQuestion: binding("n", "new question", "n"),

		Delete:  binding("d", "delete", "d"),
		Confirm: binding("y", "confirm", "y", "enter"),
		Reload:  binding("r", "reload", "r"),
	}
}

// ShortHelp is shown in the status bar while typing a question.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Ask, k.Back}
}

// AnswerHelp is shown in the status bar once an answer is on screen.
func (k *KeyMap) AnswerHelp() []key.Binding {
	return []key.Binding{k.NewQuestion, k.Up, k.Expand, k.Back}
}

// DocumentsHelp is the footer of the documents view.
func (k *KeyMap) DocumentsHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Delete, k.Reload, k.Back}
}

// Sections returns the help screen, one section per view.
func (k *KeyMap) Sections() []Section {
	return []Section{
		{Title: "Ask", Bindings: []key.Binding{k.Ask, k.Up, k.Down, k.Expand, k.NewQuestion}},
		{Title: "Documents", Bindings: []key.Binding{k.Delete, k.Confirm, k.Reload}},
		{Title: "History", Bindings: []key.Binding{k.Up, k.Down, k.Reload}},
		{Title: "Anywhere", Bindings: []key.Binding{k.Back, k.Help, k.Quit}},
	}
}

// Matches reports whether keyStr, as produced by tea.KeyMsg.String, is one
// of binding's keys.
func Matches(keyStr string, b key.Binding) bool {
	return slices.Contains(b.Keys(), keyStr)
}
