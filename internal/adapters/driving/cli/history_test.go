package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

func TestHistoryShow_Empty(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("history", "show")

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultHistoryLimit, ts.history.limit)
	assert.Contains(t, out, "No history yet.")
}

func TestHistoryShow_Entries(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.history.entries = []domain.HistoryEntry{{
		Timestamp: time.Now(),
		Question:  "when is the launch?",
		Answer:    "March.",
		Sources:   []domain.SourceRef{{Document: "notes.md", Relevance: -0.5}},
	}}

	out, err := executeCommand("history", "show", "-n", "5")

	require.NoError(t, err)
	assert.Equal(t, 5, ts.history.limit)
	assert.Contains(t, out, "Q: when is the launch?")
	assert.Contains(t, out, "A: March.")
	assert.Contains(t, out, "- notes.md (-0.500)")
}

func TestHistoryShow_JSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.history.entries = []domain.HistoryEntry{{Question: "q", Answer: "a"}}

	out, err := executeCommand("history", "show", "--json")

	require.NoError(t, err)
	assert.Contains(t, out, `"question": "q"`)
}

func TestHistoryClear(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("history", "clear")

	require.NoError(t, err)
	assert.True(t, ts.history.cleared)
	assert.Contains(t, out, "History cleared.")
}

func TestHistoryClear_Error(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.history.err = errBoom

	_, err := executeCommand("history", "clear")

	assert.ErrorIs(t, err, errBoom)
}
