package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/views/history"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/views/menu"
)

var _ tea.Model = (*App)(nil)

// App is the root bubbletea model. It owns one instance of each view and
// routes messages to the active one; service results go to the view that
// requested them regardless of which view is showing.
type App struct {
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	menu      *menu.View
	chat      *chat.View
	documents *documents.View
	history   *history.View

	active messages.ViewType
	err    error

	width, height int
	ready         bool
}

// NewApp builds the app. Ask and Documents are required; History is optional.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	return &App{
		ctx:       context.Background(),
		styles:    s,
		keymap:    km,
		menu:      menu.NewView(s, km),
		chat:      chat.NewView(s, km, ports.Ask),
		documents: documents.NewView(s, km, ports.Documents),
		history:   history.NewView(s, ports.History),
		active:    messages.ViewMenu,
	}, nil
}

// WithContext sets the context every view passes to its service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chat.WithContext(ctx)
	a.documents.WithContext(ctx)
	a.history.WithContext(ctx)
	return a
}

// WithStartView opens the app on view instead of the menu.
func (a *App) WithStartView(view messages.ViewType) *App {
	a.active = view
	return a
}

// Init implements tea.Model. A start view other than the menu gets its own
// Init, as if the user had navigated there.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnterAltScreen, tea.SetWindowTitle("ragdesk")}
	if a.active != messages.ViewMenu {
		cmds = append(cmds, a.switchTo(a.active))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		if a.active == messages.ViewHelp {
			if keymap.Matches(msg.String(), a.keymap.Back) {
				a.active = messages.ViewMenu
			}
			return a, nil
		}

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.AnswerReceived:
		a.err = msg.Err
		a.chat, cmd = a.chat.Update(msg)
		return a, cmd

	case messages.DocumentsLoaded, messages.DocumentDeleted:
		a.documents, cmd = a.documents.Update(msg)
		return a, cmd

	case messages.HistoryLoaded:
		a.history, cmd = a.history.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.forward(msg)
}

// switchTo activates a view and runs its Init.
func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	a.active = view
	switch view {
	case messages.ViewChat:
		a.chat.Reset()
		return a.chat.Init()
	case messages.ViewDocuments:
		return a.documents.Init()
	case messages.ViewHistory:
		return a.history.Init()
	case messages.ViewMenu, messages.ViewHelp:
	}
	return nil
}

func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.active {
	case messages.ViewMenu:
		a.menu, cmd = a.menu.Update(msg)
	case messages.ViewChat:
		a.chat, cmd = a.chat.Update(msg)
	case messages.ViewDocuments:
		a.documents, cmd = a.documents.Update(msg)
	case messages.ViewHistory:
		a.history, cmd = a.history.Update(msg)
	case messages.ViewHelp:
	}
	return cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.active {
	case messages.ViewChat:
		return a.chat.View()
	case messages.ViewDocuments:
		return a.documents.View()
	case messages.ViewHistory:
		return a.history.View()
	case messages.ViewHelp:
		return a.helpView()
	default:
		return a.menu.View()
	}
}

// helpView lists every key binding, grouped by the view it applies to.
func (a *App) helpView() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n")

	for _, section := range a.keymap.Sections() {
		b.WriteString("\n")
		b.WriteString(a.styles.Subtitle.Render(section.Title))
		b.WriteString("\n")
		for _, kb := range section.Bindings {
			h := kb.Help()
			fmt.Fprintf(&b, "  %-10s %s\n", h.Key, h.Desc)
		}
	}

	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render("[esc] back to menu"))
	return b.String()
}

// Run starts the program and blocks until the user quits or ctx ends.
func (a *App) Run() error {
	_, err := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx)).Run()
	return err
}

// CurrentView returns the active view.
func (a *App) CurrentView() messages.ViewType {
	return a.active
}

// Err returns the last error reported by a view.
func (a *App) Err() error {
	return a.err
}

// Ready reports whether the terminal size is known.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions resizes the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width, a.height = width, height
	a.ready = true
	a.menu.SetDimensions(width, height)
	a.chat.SetDimensions(width, height)
	a.documents.SetDimensions(width, height)
	a.history.SetDimensions(width, height)
}
