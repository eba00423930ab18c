package history

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

type mockHistoryService struct {
	entries []domain.HistoryEntry
	err     error
	limit   int
}

func (m *mockHistoryService) Recent(_ context.Context, limit int) ([]domain.HistoryEntry, error) {
	m.limit = limit
	return m.entries, m.err
}

func (m *mockHistoryService) Clear(context.Context) error { return nil }

func testEntries() []domain.HistoryEntry {
	base := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	return []domain.HistoryEntry{
		{Timestamp: base, Question: "first question", Answer: "first answer"},
		{
			Timestamp: base.Add(time.Hour),
			Question:  "second question",
			Answer:    "second answer",
			Sources:   []domain.SourceRef{{Document: "notes.md", Relevance: -0.25}},
		},
	}
}

func load(t *testing.T, v *View) {
	t.Helper()
	cmd := v.Init()
	require.NotNil(t, cmd)
	v.Update(cmd())
}

func TestView_LoadsNewestFirst(t *testing.T) {
	svc := &mockHistoryService{entries: testEntries()}
	v := NewView(nil, svc)
	v.SetDimensions(100, 30)

	load(t, v)

	assert.Equal(t, domain.DefaultHistoryLimit, svc.limit)
	require.Len(t, v.Entries(), 2)
	assert.Equal(t, "second question", v.Entries()[0].Question)

	view := v.View()
	assert.Contains(t, view, "History (2)")
	assert.Contains(t, view, "Q: second question")
	assert.Contains(t, view, "second answer")
	assert.Contains(t, view, "notes.md (-0.250)")
}

func TestView_Navigation(t *testing.T) {
	v := NewView(nil, &mockHistoryService{entries: testEntries()})
	load(t, v)

	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "first question", v.SelectedEntry().Question)

	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "first question", v.SelectedEntry().Question)

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, "second question", v.SelectedEntry().Question)
}

func TestView_Empty(t *testing.T) {
	v := NewView(nil, &mockHistoryService{})
	load(t, v)

	assert.Nil(t, v.SelectedEntry())
	assert.Contains(t, v.View(), "No history yet.")
}

func TestView_Error(t *testing.T) {
	v := NewView(nil, &mockHistoryService{err: domain.ErrNotFound})
	load(t, v)

	assert.ErrorIs(t, v.Err(), domain.ErrNotFound)
	assert.Contains(t, v.View(), "Error:")
}

func TestView_NoService(t *testing.T) {
	v := NewView(nil, nil)
	load(t, v)

	assert.ErrorIs(t, v.Err(), errNoHistoryService)
}

func TestView_LoadingState(t *testing.T) {
	v := NewView(nil, &mockHistoryService{})
	v.Init()

	assert.Contains(t, v.View(), "Loading history...")
}

func TestView_ReloadAndBack(t *testing.T) {
	v := NewView(nil, &mockHistoryService{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	require.NotNil(t, cmd)
	_, ok := cmd().(messages.HistoryLoaded)
	assert.True(t, ok)

	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}
