package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

func TestIngestCmd_RequiresPath(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("ingest")

	assert.Error(t, err)
}

func TestIngestCmd_PrintsReport(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.ingest.report = &domain.IngestReport{Results: []domain.IngestResult{
		{Path: "/docs/a.md", Name: "a.md", Chunks: 4, Status: domain.IngestStatusAdded},
		{Path: "/docs/b.txt", Name: "b.txt", Chunks: 2, Removed: 3, Status: domain.IngestStatusReplaced},
		{Path: "/docs/c.txt", Name: "c.txt", Status: domain.IngestStatusUnchanged},
	}}

	out, err := executeCommand("ingest", "--replace", "--skip-unchanged", "/docs", "/more")

	require.NoError(t, err)
	assert.Equal(t, []string{"/docs", "/more"}, ts.ingest.paths)
	assert.Equal(t, domain.IngestOptions{Replace: true, SkipUnchanged: true}, ts.ingest.opts)
	assert.Contains(t, out, "added      a.md (4 chunks)")
	assert.Contains(t, out, "replaced   b.txt (2 chunks, 3 removed)")
	assert.Contains(t, out, "1 added, 1 replaced, 1 unchanged, 0 empty, 0 failed")
}

func TestIngestCmd_FlagsDefaultOff(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("ingest", "/docs")

	require.NoError(t, err)
	assert.Equal(t, domain.IngestOptions{}, ts.ingest.opts)
}

func TestIngestCmd_FailedFiles(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.ingest.report = &domain.IngestReport{Results: []domain.IngestResult{
		{Path: "/docs/a.md", Name: "a.md", Chunks: 1, Status: domain.IngestStatusAdded},
		{Path: "/docs/bad.pdf", Name: "bad.pdf", Status: domain.IngestStatusFailed, Error: "unsupported file type"},
	}}

	out, err := executeCommand("ingest", "/docs")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 files failed")
	assert.Contains(t, out, "FAILED     /docs/bad.pdf: unsupported file type")
}

func TestIngestCmd_ServiceError(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.ingest.err = domain.ErrEmbeddingUnavailable

	_, err := executeCommand("ingest", "/docs")

	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestIngestCmd_JSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.ingest.report = &domain.IngestReport{Results: []domain.IngestResult{
		{Name: "a.md", DocumentID: "d1", Status: domain.IngestStatusAdded},
	}}

	out, err := executeCommand("ingest", "--json", "/docs")

	require.NoError(t, err)
	assert.Contains(t, out, `"a.md"`)
	assert.NotContains(t, out, "added, ")
}

func TestIngestCmd_NotConfigured(t *testing.T) {
	SetServices(nil)

	_, err := executeCommand("ingest", "/docs")

	assert.ErrorContains(t, err, "ingest service not configured")
}
