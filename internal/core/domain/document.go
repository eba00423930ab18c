package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Document identifies one ingested file.
// Documents are not stored on their own: a document exists while at least
// one chunk carries its ID.
type Document struct {
	// ID is the UUID generated at ingestion time.
	ID string

	// Name is the base filename. It is the user-facing handle and the
	// key the router filters on.
	Name string

	// Path is the original location on disk.
	Path string

	// IngestedAt is when the document was added.
	IngestedAt time.Time

	// Content is the extracted text before chunking. It is not persisted.
	Content string

	// ContentHash is a digest of the chunk sequence, used to skip
	// re-ingesting unchanged files.
	ContentHash string
}

// Extension returns the lower-cased file extension of the document name,
// including the leading dot.
func (d Document) Extension() string {
	return strings.ToLower(filepath.Ext(d.Name))
}

// Chunk is a contiguous word window of a document.
type Chunk struct {
	// ID is "{doc_id}_chunk_{index}".
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Index is the 0-based position within the document.
	Index int

	// Content is the chunk text.
	Content string

	// Embedding is the vector representation of Content.
	Embedding []float32
}

// ChunkID builds the chunk identifier for a document and position.
func ChunkID(docID string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", docID, index)
}

// DocumentSummary describes an indexed document as seen through its chunks.
type DocumentSummary struct {
	ID          string    `json:"doc_id"`
	Name        string    `json:"doc_name"`
	Path        string    `json:"doc_path"`
	AddedAt     time.Time `json:"added_at"`
	ChunkCount  int       `json:"chunks_count"`
	ContentHash string    `json:"content_hash,omitempty"`
}

// RawFile is the unparsed content of a file handed to an extractor.
type RawFile struct {
	// Name is the base filename; its extension selects the extractor.
	Name string

	// Path is where the file was read from. Archive members carry
	// "archive.zip/member.txt" style paths.
	Path string

	// Content is the file bytes.
	Content []byte
}

// Extension returns the lower-cased extension of the file name.
func (f RawFile) Extension() string {
	return strings.ToLower(filepath.Ext(f.Name))
}
