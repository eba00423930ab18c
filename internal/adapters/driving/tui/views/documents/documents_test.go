package documents

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// MockDocumentService implements driving.DocumentService for testing.
type MockDocumentService struct {
	ListFunc   func(ctx context.Context) ([]domain.DocumentSummary, error)
	DeleteFunc func(ctx context.Context, docID string) (int, error)
}

func (m *MockDocumentService) List(ctx context.Context) ([]domain.DocumentSummary, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []domain.DocumentSummary{}, nil
}

func (m *MockDocumentService) Names(context.Context) ([]string, error) { return nil, nil }

func (m *MockDocumentService) Delete(ctx context.Context, docID string) (int, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, docID)
	}
	return 0, nil
}

func (m *MockDocumentService) DeleteByName(context.Context, string) (int, error) { return 0, nil }

func (m *MockDocumentService) Stats(context.Context) (domain.IndexStats, error) {
	return domain.IndexStats{}, nil
}

func (m *MockDocumentService) Reset(context.Context) error { return nil }

func testDocuments() []domain.DocumentSummary {
	added := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	return []domain.DocumentSummary{
		{ID: "d1", Name: "notes.md", Path: "/docs/notes.md", AddedAt: added, ChunkCount: 4},
		{ID: "d2", Name: "plan.txt", Path: "/docs/plan.txt", AddedAt: added, ChunkCount: 1},
	}
}

func loadedView(t *testing.T, svc *MockDocumentService) *View {
	t.Helper()
	v := NewView(styles.DefaultStyles(), keymap.DefaultKeyMap(), svc)
	v.SetDimensions(100, 30)
	cmd := v.Init()
	require.NotNil(t, cmd)
	v.Update(cmd())
	return v
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil, nil)

	require.NotNil(t, v)
	assert.Empty(t, v.Documents())
	assert.Nil(t, v.SelectedDocument())
}

func TestView_Init_LoadsDocuments(t *testing.T) {
	svc := &MockDocumentService{ListFunc: func(context.Context) ([]domain.DocumentSummary, error) {
		return testDocuments(), nil
	}}

	v := loadedView(t, svc)

	assert.Len(t, v.Documents(), 2)
	view := v.View()
	assert.Contains(t, view, "Documents (2)")
	assert.Contains(t, view, "notes.md")
	assert.Contains(t, view, "4 chunks")
	assert.Contains(t, view, "2026-03-01 09:30")
}

func TestView_Init_ShowsLoading(t *testing.T) {
	v := NewView(nil, nil, &MockDocumentService{})
	v.SetDimensions(80, 24)

	v.Init()

	assert.Contains(t, v.View(), "Loading documents...")
}

func TestView_Empty(t *testing.T) {
	v := loadedView(t, &MockDocumentService{})

	assert.Contains(t, v.View(), "No documents indexed")
}

func TestView_LoadError(t *testing.T) {
	svc := &MockDocumentService{ListFunc: func(context.Context) ([]domain.DocumentSummary, error) {
		return nil, domain.ErrVectorIndexUnavailable
	}}

	v := loadedView(t, svc)

	assert.ErrorIs(t, v.Err(), domain.ErrVectorIndexUnavailable)
	assert.Contains(t, v.View(), "Error:")
}

func TestView_NoService(t *testing.T) {
	v := NewView(nil, nil, nil)

	msg := v.Init()()

	loaded, ok := msg.(messages.DocumentsLoaded)
	require.True(t, ok)
	assert.Error(t, loaded.Err)
}

func TestView_Navigation(t *testing.T) {
	svc := &MockDocumentService{ListFunc: func(context.Context) ([]domain.DocumentSummary, error) {
		return testDocuments(), nil
	}}
	v := loadedView(t, svc)

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 1, v.SelectedIndex())

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 1, v.SelectedIndex())

	v.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, v.SelectedIndex())
}

func TestView_DeleteFlow(t *testing.T) {
	var deleted string
	svc := &MockDocumentService{
		ListFunc: func(context.Context) ([]domain.DocumentSummary, error) {
			if deleted != "" {
				return testDocuments()[1:], nil
			}
			return testDocuments(), nil
		},
		DeleteFunc: func(_ context.Context, id string) (int, error) {
			deleted = id
			return 4, nil
		},
	}
	v := loadedView(t, svc)

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	require.True(t, v.Confirming())
	view := v.View()
	assert.Contains(t, view, "Delete notes.md (4 chunks) from the index?")
	assert.Contains(t, view, "/docs/notes.md")
	assert.Contains(t, view, "[y] confirm")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	require.NotNil(t, cmd)
	assert.False(t, v.Confirming())

	msg := cmd()
	assert.Equal(t, messages.DocumentDeleted{DocumentID: "d1", Removed: 4}, msg)
	assert.Equal(t, "d1", deleted)

	_, reload := v.Update(msg)
	require.NotNil(t, reload)
	v.Update(reload())

	assert.Len(t, v.Documents(), 1)
	assert.Contains(t, v.View(), "Deleted 4 chunks")
}

func TestView_DeleteCancelled(t *testing.T) {
	svc := &MockDocumentService{ListFunc: func(context.Context) ([]domain.DocumentSummary, error) {
		return testDocuments(), nil
	}}
	v := loadedView(t, svc)

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})

	assert.Nil(t, cmd)
	assert.False(t, v.Confirming())

	v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, v.Confirming())
	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd, "esc cancels the prompt without leaving the view")
	assert.False(t, v.Confirming())
}

func TestView_DeleteOnEmptyListDoesNothing(t *testing.T) {
	v := loadedView(t, &MockDocumentService{})

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})

	assert.False(t, v.Confirming())
}

func TestView_TitleCountsChunks(t *testing.T) {
	v := NewView(nil, nil, &MockDocumentService{})
	v.SetDimensions(100, 30)

	v.Update(messages.DocumentsLoaded{Documents: testDocuments()})

	assert.Contains(t, v.View(), "Documents (2) · 5 chunks")
}

func TestView_DeleteError(t *testing.T) {
	v := NewView(nil, nil, &MockDocumentService{})

	v.Update(messages.DocumentDeleted{DocumentID: "d1", Err: errors.New("locked")})

	assert.EqualError(t, v.Err(), "locked")
}

func TestView_SelectionClampedAfterReload(t *testing.T) {
	v := NewView(nil, nil, &MockDocumentService{})
	v.SetDimensions(80, 24)
	v.Update(messages.DocumentsLoaded{Documents: testDocuments()})
	v.Update(tea.KeyMsg{Type: tea.KeyDown})

	v.Update(messages.DocumentsLoaded{Documents: testDocuments()[:1]})

	assert.Equal(t, 0, v.SelectedIndex())
}

func TestView_Scrolling(t *testing.T) {
	docs := make([]domain.DocumentSummary, 30)
	for i := range docs {
		docs[i] = domain.DocumentSummary{ID: fmt.Sprintf("d%d", i), Name: fmt.Sprintf("doc%02d.txt", i)}
	}
	v := NewView(nil, nil, &MockDocumentService{})
	v.SetDimensions(80, 12)
	v.Update(messages.DocumentsLoaded{Documents: docs})

	for range 10 {
		v.Update(tea.KeyMsg{Type: tea.KeyDown})
	}

	view := v.View()
	assert.Contains(t, view, "doc10.txt")
	assert.NotContains(t, view, "doc00.txt")
	assert.Contains(t, view, "of 30]")
}

func TestView_EscReturnsToMenu(t *testing.T) {
	v := NewView(nil, nil, &MockDocumentService{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_Reload(t *testing.T) {
	calls := 0
	svc := &MockDocumentService{ListFunc: func(context.Context) ([]domain.DocumentSummary, error) {
		calls++
		return testDocuments(), nil
	}}
	v := loadedView(t, svc)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	require.NotNil(t, cmd)
	v.Update(cmd())

	assert.Equal(t, 2, calls)
}
