package domain

// IngestOptions tunes how a file is added to the index.
type IngestOptions struct {
	// Replace deletes every indexed document with the same name before
	// inserting the new one.
	Replace bool

	// SkipUnchanged leaves the index untouched when a document with the
	// same name and content hash already exists.
	SkipUnchanged bool
}

// IngestStatus is the outcome for a single file.
type IngestStatus string

// Ingest outcomes.
const (
	IngestStatusAdded     IngestStatus = "added"
	IngestStatusReplaced  IngestStatus = "replaced"
	IngestStatusUnchanged IngestStatus = "unchanged"
	IngestStatusEmpty     IngestStatus = "empty"
	IngestStatusFailed    IngestStatus = "failed"
)

// IngestResult reports what happened to one file.
type IngestResult struct {
	Path       string       `json:"path"`
	Name       string       `json:"name"`
	DocumentID string       `json:"doc_id,omitempty"`
	Chunks     int          `json:"chunks"`
	Removed    int          `json:"removed_chunks,omitempty"`
	Status     IngestStatus `json:"status"`
	Error      string       `json:"error,omitempty"`
}

// IngestReport collects per-file results of a batch.
type IngestReport struct {
	Results []IngestResult `json:"results"`
}

// Count returns how many results have the given status.
func (r IngestReport) Count(status IngestStatus) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}

// Failed reports whether any file failed.
func (r IngestReport) Failed() bool {
	return r.Count(IngestStatusFailed) > 0
}
