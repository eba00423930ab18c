package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// Backend is the name reported in IndexStats.
const Backend = "postgres"

const dimensionKey = "dimension"

const schema = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS ragdesk_chunks (
    id           TEXT PRIMARY KEY,
    doc_id       TEXT NOT NULL,
    doc_name     TEXT NOT NULL,
    doc_path     TEXT NOT NULL DEFAULT '',
    chunk_index  INTEGER NOT NULL,
    content      TEXT NOT NULL,
    embedding    vector NOT NULL,
    content_hash TEXT NOT NULL DEFAULT '',
    added_at     TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS ragdesk_chunks_doc_id_idx ON ragdesk_chunks(doc_id);
CREATE INDEX IF NOT EXISTS ragdesk_chunks_doc_name_idx ON ragdesk_chunks(doc_name);

CREATE TABLE IF NOT EXISTS ragdesk_index_meta (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// Ensure Store implements the interface.
var _ driven.VectorIndex = (*Store)(nil)

// Store is a VectorIndex backed by a pgx connection pool.
type Store struct {
	pool     *pgxpool.Pool
	location string
}

// NewStore connects to dsn, verifies the connection and creates the schema.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: postgres DSN is required", domain.ErrConfiguration)
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing postgres DSN: %w", domain.ErrConfiguration, err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: creating connection pool: %w", domain.ErrVectorIndexUnavailable, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: pinging database: %w", domain.ErrVectorIndexUnavailable, err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: creating schema: %w", domain.ErrVectorIndexUnavailable, err)
	}

	return &Store{
		pool:     pool,
		location: Location(poolConfig.ConnConfig),
	}, nil
}

// Location renders a connection target without its password.
func Location(cfg *pgx.ConnConfig) string {
	return fmt.Sprintf("postgres://%s@%s:%d/%s", cfg.User, cfg.Host, cfg.Port, cfg.Database)
}

// Close closes the pool.
func (s *Store) Close() error {
	s.pool.Close()
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
	if len(embeddings[0]) == 0 {
		return fmt.Errorf("%w: empty embedding", domain.ErrInvalidInput)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// The first writer fixes the dimension; everyone reads back the winner.
	if _, err := tx.Exec(ctx,
		`INSERT INTO ragdesk_index_meta (key, value) VALUES ($1, $2) ON CONFLICT (key) DO NOTHING`,
		dimensionKey, strconv.Itoa(len(embeddings[0]))); err != nil {
		return fmt.Errorf("saving dimension: %w", err)
	}
	dim, err := readDimension(ctx, tx)
	if err != nil {
		return err
	}

	addedAt := doc.IngestedAt
	if addedAt.IsZero() {
		addedAt = time.Now()
	}

	batch := &pgx.Batch{}
	for i, text := range chunks {
		if len(embeddings[i]) != dim {
			return dimensionError(dim, len(embeddings[i]))
		}
		batch.Queue(`
			INSERT INTO ragdesk_chunks
				(id, doc_id, doc_name, doc_path, chunk_index, content, embedding, content_hash, added_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			domain.ChunkID(doc.ID, i), doc.ID, doc.Name, doc.Path, i,
			text, pgvector.NewVector(embeddings[i]), doc.ContentHash, addedAt.UTC())
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("saving chunks: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
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

	dim, err := readDimension(ctx, s.pool)
	if err != nil {
		return nil, err
	}
	if dim == 0 {
		return []domain.SearchResult{}, nil
	}
	if len(query) != dim {
		return nil, dimensionError(dim, len(query))
	}

	vec := pgvector.NewVector(query)
	var rows pgx.Rows
	if filter == nil {
		rows, err = s.pool.Query(ctx, `
			SELECT id, doc_name, content, embedding <-> $1 AS distance
			FROM ragdesk_chunks
			ORDER BY distance, id
			LIMIT $2`, vec, topK)
	} else {
		rows, err = s.pool.Query(ctx, `
			SELECT id, doc_name, content, embedding <-> $1 AS distance
			FROM ragdesk_chunks
			WHERE doc_name = ANY($2)
			ORDER BY distance, id
			LIMIT $3`, vec, filter, topK)
	}
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	results := make([]domain.SearchResult, 0, topK)
	for rows.Next() {
		var (
			r        domain.SearchResult
			distance float64
		)
		if err := rows.Scan(&r.ChunkID, &r.Document, &r.Text, &distance); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		r.Relevance = -distance
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return results, nil
}

// DeleteDocument removes every chunk of docID.
func (s *Store) DeleteDocument(ctx context.Context, docID string) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM ragdesk_chunks WHERE doc_id = $1`, docID)
	if err != nil {
		return 0, fmt.Errorf("deleting document: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// ListDocumentNames returns the distinct document names, sorted.
func (s *Store) ListDocumentNames(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT doc_name FROM ragdesk_chunks ORDER BY doc_name`)
	if err != nil {
		return nil, fmt.Errorf("querying document names: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scanning document names: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// ListDocuments returns one summary per document id.
func (s *Store) ListDocuments(ctx context.Context) ([]domain.DocumentSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT doc_id, MIN(doc_name), MIN(doc_path), MIN(added_at), COUNT(*), MAX(content_hash)
		FROM ragdesk_chunks
		GROUP BY doc_id
		ORDER BY MIN(doc_name), MIN(added_at), doc_id`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	docs := []domain.DocumentSummary{}
	for rows.Next() {
		var (
			d     domain.DocumentSummary
			count int64
		)
		if err := rows.Scan(&d.ID, &d.Name, &d.Path, &d.AddedAt, &count, &d.ContentHash); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		d.ChunkCount = int(count)
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
		StorageLocation: s.location,
		Backend:         Backend,
	}

	var chunks, docs int64
	if err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT doc_id) FROM ragdesk_chunks`).Scan(&chunks, &docs); err != nil {
		return stats, fmt.Errorf("counting chunks: %w", err)
	}
	stats.TotalChunks = int(chunks)
	stats.TotalDocuments = int(docs)

	dim, err := readDimension(ctx, s.pool)
	if err != nil {
		return stats, err
	}
	stats.Dimensions = dim
	return stats, nil
}

// Reset empties the index and forgets its dimension.
func (s *Store) Reset(ctx context.Context) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `TRUNCATE ragdesk_chunks`); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM ragdesk_index_meta`); err != nil {
		return fmt.Errorf("clearing index metadata: %w", err)
	}
	return tx.Commit(ctx)
}

type queryer interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// readDimension returns the stored dimension, or 0 for an empty index.
func readDimension(ctx context.Context, q queryer) (int, error) {
	var value string
	err := q.QueryRow(ctx, `SELECT value FROM ragdesk_index_meta WHERE key = $1`, dimensionKey).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
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
