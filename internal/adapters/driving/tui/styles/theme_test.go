package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme_AccentsAreDistinct(t *testing.T) {
	theme := DefaultTheme()

	accents := []lipgloss.Color{theme.Primary, theme.Secondary, theme.Success, theme.Warning, theme.Error}

	seen := make(map[lipgloss.Color]bool)
	for _, c := range accents {
		assert.NotEmpty(t, string(c))
		assert.False(t, seen[c], "duplicate accent %s", c)
		seen[c] = true
	}
}

func TestNewStyles(t *testing.T) {
	theme := DefaultTheme()

	s := NewStyles(theme)

	require.NotNil(t, s)
	assert.Same(t, theme, s.Theme())
	assert.True(t, s.Title.GetBold())
	assert.True(t, s.Question.GetBold())
	assert.Equal(t, lipgloss.Color(theme.Primary), s.Selected.GetBackground())
}

func TestNewStyles_NilThemeUsesDefault(t *testing.T) {
	s := NewStyles(nil)

	require.NotNil(t, s.Theme())
	assert.Equal(t, DefaultTheme().Primary, s.Theme().Primary)
}

func TestDefaultStyles_RenderText(t *testing.T) {
	s := DefaultStyles()

	for _, style := range []lipgloss.Style{s.Title, s.Answer, s.Muted, s.Error, s.StatusBar} {
		assert.Contains(t, style.Render("launch date"), "launch date")
	}
	assert.Contains(t, s.Passage.Render("passage"), "passage")
}

func TestStyles_Relevance(t *testing.T) {
	s := DefaultStyles()

	tests := []struct {
		name      string
		relevance float64
		want      lipgloss.Style
	}{
		{"exact match", 0, s.Success},
		{"strong", -0.5, s.Success},
		{"band edge", StrongRelevance, s.Success},
		{"middling", -0.9, s.Muted},
		{"weak edge", WeakRelevance, s.Muted},
		{"weak", -1.4, s.Warning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Relevance(tt.relevance)
			assert.Equal(t, tt.want.GetForeground(), got.GetForeground())
		})
	}
}
