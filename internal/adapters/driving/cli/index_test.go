package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexStats(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("index", "stats")

	require.NoError(t, err)
	assert.Contains(t, out, "Backend:    sqlite")
	assert.Contains(t, out, "Location:   /tmp/index.db")
	assert.Contains(t, out, "Documents:  1")
	assert.Contains(t, out, "Chunks:     3")
	assert.Contains(t, out, "Dimensions: 384")
}

func TestIndexStats_EmptyIndexOmitsDimensions(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.docs.stats.Dimensions = 0

	out, err := executeCommand("index", "stats")

	require.NoError(t, err)
	assert.NotContains(t, out, "Dimensions")
}

func TestIndexStats_JSON(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("index", "stats", "--json")

	require.NoError(t, err)
	assert.Contains(t, out, "/tmp/index.db")
}

func TestIndexReset_RequiresYes(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("index", "reset")

	assert.ErrorContains(t, err, "without --yes")
	assert.Equal(t, 0, ts.docs.resetCalls)
}

func TestIndexReset(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("index", "reset", "--yes")

	require.NoError(t, err)
	assert.Equal(t, 1, ts.docs.resetCalls)
	assert.Contains(t, out, "Index reset.")
}
