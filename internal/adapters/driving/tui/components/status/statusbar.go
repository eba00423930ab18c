// Package status renders the one-line footer of the chat view.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/styles"
)

// State is the phase of the current question.
type State string

const (
	StateReady    State = "ready"
	StateThinking State = "thinking"
	StateError    State = "error"
	StateHelp     State = "help"
	StateAnswered State = "answered"
)

// Bar shows what the chat view is doing on the left and key hints on the right.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	spinner spinner.Model

	state       State
	message     string
	sourceCount int
	searched    []string
	width       int
}

// NewBar creates a status bar. Nil arguments fall back to the defaults.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot))
	sp.Style = s.Muted

	return &Bar{
		styles:  s,
		keymap:  km,
		spinner: sp,
		state:   StateReady,
		width:   80,
	}
}

// Init implements tea.Model.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Tick starts the thinking spinner. It returns nil outside StateThinking.
func (s *Bar) Tick() tea.Cmd {
	if s.state != StateThinking {
		return nil
	}
	return s.spinner.Tick
}

// Update advances the spinner while a question is in flight.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	tick, ok := msg.(spinner.TickMsg)
	if !ok || s.state != StateThinking {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(tick)
	return s, cmd
}

// View renders the bar padded to the configured width.
func (s *Bar) View() string {
	left := s.status()
	right := s.hints()

	gap := max(s.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return s.styles.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (s *Bar) status() string {
	switch s.state {
	case StateThinking:
		return s.spinner.View() + " " + s.styles.Muted.Render("Thinking...")
	case StateError:
		if s.message == "" {
			return s.styles.Error.Render("Error")
		}
		return s.styles.Error.Render("Error: " + s.message)
	case StateHelp:
		return s.styles.Normal.Render("Help")
	case StateAnswered:
		parts := []string{fmt.Sprintf("%d sources", s.sourceCount)}
		if len(s.searched) > 0 {
			parts = append(parts, "searched "+strings.Join(s.searched, ", "))
		}
		if s.message != "" {
			return s.styles.Warning.Render(strings.Join(append(parts, s.message), " | "))
		}
		return s.styles.Normal.Render(strings.Join(parts, " | "))
	}

	if s.message != "" {
		return s.styles.Muted.Render(s.message)
	}
	return s.styles.Muted.Render("Ready")
}

func (s *Bar) hints() string {
	bindings := s.keymap.ShortHelp()
	if s.state == StateAnswered {
		bindings = s.keymap.AnswerHelp()
	}

	hints := make([]string, len(bindings))
	for i, b := range bindings {
		h := b.Help()
		hints[i] = h.Key + ": " + h.Desc
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) { s.state = state }

// State returns the current state.
func (s *Bar) State() State { return s.state }

// SetMessage sets the note shown beside the state.
func (s *Bar) SetMessage(message string) { s.message = message }

// Message returns the current note.
func (s *Bar) Message() string { return s.message }

// SetSourceCount sets the number of sources behind the current answer.
func (s *Bar) SetSourceCount(count int) { s.sourceCount = count }

// SourceCount returns the current source count.
func (s *Bar) SourceCount() int { return s.sourceCount }

// SetSearched sets the document names the last question was answered from.
func (s *Bar) SetSearched(names []string) { s.searched = names }

// Searched returns the document names set by SetSearched.
func (s *Bar) Searched() []string { return s.searched }

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) { s.width = width }

// Width returns the current width.
func (s *Bar) Width() int { return s.width }

// Clear returns the bar to StateReady with no note, sources or searched names.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.sourceCount = 0
	s.searched = nil
}
