package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

func TestAskCmd_RequiresQuestion(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("ask")

	assert.Error(t, err)
}

func TestAskCmd_HasFlags(t *testing.T) {
	topK := askCmd.Flags().Lookup("top-k")
	require.NotNil(t, topK)
	assert.Equal(t, "k", topK.Shorthand)
	assert.Equal(t, "0", topK.DefValue)

	doc := askCmd.Flags().Lookup("document")
	require.NotNil(t, doc)
	assert.Equal(t, "d", doc.Shorthand)
}

func TestAskCmd_PrintsAnswerAndSources(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.ask.answer.Documents = []string{"notes.md"}

	out, err := executeCommand("ask", "when", "is", "the", "launch?")

	require.NoError(t, err)
	assert.Equal(t, "when is the launch?", ts.ask.question)
	assert.Equal(t, domain.AskOptions{}, ts.ask.opts)
	assert.Contains(t, out, "The launch moved to March.")
	assert.Contains(t, out, "Searched: notes.md")
	assert.Contains(t, out, "[1] notes.md (-0.420)")
}

func TestAskCmd_PassesOptions(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("ask", "-k", "8", "--document", "plan", "budget?")

	require.NoError(t, err)
	assert.Equal(t, domain.AskOptions{TopK: 8, Document: "plan"}, ts.ask.opts)
}

func TestAskCmd_NoSources(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.ask.answer = &domain.Answer{Answer: "No documents have been indexed yet."}

	out, err := executeCommand("ask", "anything?")

	require.NoError(t, err)
	assert.Contains(t, out, "No documents have been indexed yet.")
	assert.NotContains(t, out, "Sources:")
}

func TestAskCmd_JSON(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("ask", "--json", "q")

	require.NoError(t, err)
	assert.Contains(t, out, `"answer": "The launch moved to March."`)
	assert.Contains(t, out, `"chunk_id": "d1_chunk_0"`)
}

func TestAskCmd_Error(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.ask.err = domain.ErrVectorIndexUnavailable

	_, err := executeCommand("ask", "q")

	assert.ErrorIs(t, err, domain.ErrVectorIndexUnavailable)
	assert.ErrorContains(t, err, "ask failed")
}
