package sqlite

import (
	"container/heap"
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// Backend is the name reported in IndexStats.
const Backend = "sqlite"

// DBFileName is the database file created inside the data directory.
const DBFileName = "index.db"

// timeLayout is fixed width so stored timestamps sort lexicographically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const dimensionKey = "dimension"

// Ensure Store implements the interface.
var _ driven.VectorIndex = (*Store)(nil)

// Store is a VectorIndex backed by a single SQLite database file.
type Store struct {
	db   *sql.DB
	path string

	// writeMu serialises write transactions so a stale read snapshot
	// never has to be upgraded to a writer.
	writeMu sync.Mutex
}

// NewStore opens or creates the index in dataDir.
// If dataDir is empty, defaults to ~/.ragdesk/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".ragdesk", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("%w: creating data directory: %w", domain.ErrVectorIndexUnavailable, err)
	}

	dbPath := filepath.Join(dataDir, DBFileName)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %w", domain.ErrVectorIndexUnavailable, err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: running migrations: %w", domain.ErrVectorIndexUnavailable, err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_chunks.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// Insert stores every chunk of doc in one transaction.
func (s *Store) Insert(ctx context.Context, doc domain.Document, chunks []string, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("%w: %d chunks but %d embeddings", domain.ErrInvalidInput, len(chunks), len(embeddings))
	}
	if doc.ID == "" || doc.Name == "" {
		return fmt.Errorf("%w: document id and name are required", domain.ErrInvalidInput)
	}
	if len(chunks) == 0 {
		return nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	dim, err := readDimension(ctx, tx)
	if err != nil {
		return err
	}
	if dim == 0 {
		dim = len(embeddings[0])
		if dim == 0 {
			return fmt.Errorf("%w: empty embedding", domain.ErrInvalidInput)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO index_meta (key, value) VALUES (?, ?)", dimensionKey, strconv.Itoa(dim)); err != nil {
			return fmt.Errorf("saving dimension: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, doc_id, doc_name, doc_path, chunk_index, content, embedding, content_hash, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	addedAt := doc.IngestedAt
	if addedAt.IsZero() {
		addedAt = time.Now()
	}
	added := addedAt.UTC().Format(timeLayout)

	for i, text := range chunks {
		if len(embeddings[i]) != dim {
			return dimensionError(dim, len(embeddings[i]))
		}
		if _, err := stmt.ExecContext(ctx, domain.ChunkID(doc.ID, i), doc.ID, doc.Name, doc.Path, i,
			text, float32SliceToBytes(embeddings[i]), doc.ContentHash, added); err != nil {
			return fmt.Errorf("saving chunk %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Search returns the topK chunks closest to query.
func (s *Store) Search(ctx context.Context, query []float32, topK int, filter []string) ([]domain.SearchResult, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top_k must be positive", domain.ErrInvalidInput)
	}
	if filter != nil && len(filter) == 0 {
		return []domain.SearchResult{}, nil
	}

	dim, err := readDimension(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if dim == 0 {
		return []domain.SearchResult{}, nil
	}
	if len(query) != dim {
		return nil, dimensionError(dim, len(query))
	}

	q := "SELECT id, doc_name, content, embedding FROM chunks"
	args := make([]any, 0, len(filter))
	if filter != nil {
		q += " WHERE doc_name IN (" + placeholders(len(filter)) + ")"
		for _, name := range filter {
			args = append(args, name)
		}
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	h := &resultHeap{}
	for rows.Next() {
		var (
			c    candidate
			blob []byte
		)
		if err := rows.Scan(&c.id, &c.document, &c.text, &blob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		vec := bytesToFloat32Slice(blob)
		if len(vec) != dim {
			return nil, fmt.Errorf("%w: chunk %s has dimension %d, index has %d",
				domain.ErrIndexCorruption, c.id, len(vec), dim)
		}
		c.distance = l2(query, vec)

		if h.Len() < topK {
			heap.Push(h, c)
		} else if c.closerThan((*h)[0]) {
			(*h)[0] = c
			heap.Fix(h, 0)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	results := make([]domain.SearchResult, h.Len())
	for i := len(results) - 1; i >= 0; i-- {
		c := heap.Pop(h).(candidate)
		results[i] = domain.SearchResult{
			ChunkID:   c.id,
			Text:      c.text,
			Relevance: -c.distance,
			Document:  c.document,
		}
	}
	return results, nil
}

// DeleteDocument removes every chunk of docID.
func (s *Store) DeleteDocument(ctx context.Context, docID string) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM chunks WHERE doc_id = ?", docID)
	if err != nil {
		return 0, fmt.Errorf("deleting document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted chunks: %w", err)
	}
	return int(n), nil
}

// ListDocumentNames returns the distinct document names, sorted.
func (s *Store) ListDocumentNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT doc_name FROM chunks ORDER BY doc_name")
	if err != nil {
		return nil, fmt.Errorf("querying document names: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning document name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating document names: %w", err)
	}
	return names, nil
}

// ListDocuments returns one summary per document id.
func (s *Store) ListDocuments(ctx context.Context) ([]domain.DocumentSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT doc_id, MIN(doc_name), MIN(doc_path), MIN(added_at), COUNT(*), MAX(content_hash)
		FROM chunks
		GROUP BY doc_id
		ORDER BY MIN(doc_name), MIN(added_at), doc_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	docs := []domain.DocumentSummary{}
	for rows.Next() {
		var (
			d     domain.DocumentSummary
			added string
		)
		if err := rows.Scan(&d.ID, &d.Name, &d.Path, &added, &d.ChunkCount, &d.ContentHash); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		if d.AddedAt, err = time.Parse(timeLayout, added); err != nil {
			return nil, fmt.Errorf("%w: bad added_at %q: %w", domain.ErrIndexCorruption, added, err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// Stats returns chunk and document counts.
func (s *Store) Stats(ctx context.Context) (domain.IndexStats, error) {
	stats := domain.IndexStats{
		StorageLocation: s.path,
		Backend:         Backend,
	}

	row := s.db.QueryRowContext(ctx, "SELECT COUNT(*), COUNT(DISTINCT doc_id) FROM chunks")
	if err := row.Scan(&stats.TotalChunks, &stats.TotalDocuments); err != nil {
		return stats, fmt.Errorf("counting chunks: %w", err)
	}

	dim, err := readDimension(ctx, s.db)
	if err != nil {
		return stats, err
	}
	stats.Dimensions = dim
	return stats, nil
}

// Reset empties the index and forgets its dimension.
func (s *Store) Reset(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM index_meta"); err != nil {
		return fmt.Errorf("clearing index metadata: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// readDimension returns the stored dimension, or 0 for an empty index.
func readDimension(ctx context.Context, q queryer) (int, error) {
	var value string
	err := q.QueryRowContext(ctx, "SELECT value FROM index_meta WHERE key = ?", dimensionKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading dimension: %w", err)
	}
	dim, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: bad dimension %q", domain.ErrIndexCorruption, value)
	}
	return dim, nil
}

func dimensionError(want, got int) error {
	return fmt.Errorf("%w: %w: index has %d dimensions, got %d",
		domain.ErrIndexCorruption, domain.ErrDimensionMismatch, want, got)
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// l2 returns the Euclidean distance between equal-length vectors.
func l2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

type candidate struct {
	id       string
	document string
	text     string
	distance float64
}

func (c candidate) closerThan(o candidate) bool {
	if c.distance != o.distance {
		return c.distance < o.distance
	}
	return c.id < o.id
}

// resultHeap keeps the worst retained candidate at the root.
type resultHeap []candidate

func (h resultHeap) Len() int           { return len(h) }
func (h resultHeap) Less(i, j int) bool { return h[j].closerThan(h[i]) }
func (h resultHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *resultHeap) Push(x any)        { *h = append(*h, x.(candidate)) }
func (h *resultHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
