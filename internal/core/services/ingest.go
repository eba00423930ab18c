package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService runs files through extraction, chunking and embedding and
// stores the result in the vector index.
type IngestService struct {
	extractors driven.ExtractorRegistry
	pipeline   driven.PostProcessorPipeline
	retriever  *Retriever
	index      driven.VectorIndex
	newID      func() string
	now        func() time.Time
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	extractors driven.ExtractorRegistry,
	pipeline driven.PostProcessorPipeline,
	retriever *Retriever,
	index driven.VectorIndex,
) *IngestService {
	return &IngestService{
		extractors: extractors,
		pipeline:   pipeline,
		retriever:  retriever,
		index:      index,
		newID:      uuid.NewString,
		now:        time.Now,
	}
}

// Supports reports whether a file name has an extractor.
func (s *IngestService) Supports(name string) bool {
	return s.extractors != nil && s.extractors.Supports(name)
}

// IngestFile reads and indexes the file at path.
func (s *IngestService) IngestFile(ctx context.Context, path string, opts domain.IngestOptions) (*domain.IngestResult, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	content, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, perFile(fmt.Errorf("%w: %s", domain.ErrNotFound, path))
		}
		return nil, perFile(fmt.Errorf("%w: read %s: %w", domain.ErrExtractionFailure, path, err))
	}

	return s.IngestContent(ctx, filepath.Base(abs), abs, content, opts)
}

// IngestContent indexes content as a document called name.
func (s *IngestService) IngestContent(
	ctx context.Context, name, path string, content []byte, opts domain.IngestOptions,
) (*domain.IngestResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, perFile(fmt.Errorf("%w: document name is required", domain.ErrInvalidInput))
	}
	if s.index == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}
	if s.extractors == nil || s.pipeline == nil {
		return nil, fmt.Errorf("%w: ingest pipeline not configured", domain.ErrConfiguration)
	}

	logger.Section("Ingest " + name)

	text, err := s.extractors.Extract(ctx, &domain.RawFile{Name: name, Path: path, Content: content})
	if err != nil {
		return nil, perFile(fmt.Errorf("extract %s: %w", name, err))
	}
	logger.Debug("Extracted %d bytes of text from %s", len(text), name)

	doc := domain.Document{
		ID:         s.newID(),
		Name:       name,
		Path:       path,
		IngestedAt: s.now().UTC(),
		Content:    text,
	}
	result := &domain.IngestResult{Path: path, Name: name}

	chunks, err := s.pipeline.Process(ctx, &doc)
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", name, err)
	}
	if len(chunks) == 0 {
		logger.Info("%s has no text to index", name)
		result.Status = domain.IngestStatusEmpty
		return result, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	doc.ContentHash = ContentHash(texts)

	var previous []domain.DocumentSummary
	if opts.Replace || opts.SkipUnchanged {
		previous, err = s.documentsNamed(ctx, name)
		if err != nil {
			return nil, err
		}
	}
	if opts.SkipUnchanged {
		for _, p := range previous {
			if p.ContentHash == doc.ContentHash {
				logger.Info("%s is unchanged, skipping", name)
				result.DocumentID = p.ID
				result.Chunks = p.ChunkCount
				result.Status = domain.IngestStatusUnchanged
				return result, nil
			}
		}
	}

	vectors, err := s.retriever.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("ingest %s: %w", name, err)
	}

	if err := s.index.Insert(ctx, doc, texts, vectors); err != nil {
		return nil, fmt.Errorf("store %s: %w", name, err)
	}
	result.DocumentID = doc.ID
	result.Chunks = len(texts)
	result.Status = domain.IngestStatusAdded

	// Old copies go only after the new one is stored.
	if opts.Replace {
		for _, p := range previous {
			removed, err := s.index.DeleteDocument(ctx, p.ID)
			if err != nil {
				return nil, fmt.Errorf("replace %s: %w", name, err)
			}
			result.Removed += removed
		}
		if len(previous) > 0 {
			result.Status = domain.IngestStatusReplaced
		}
	}

	logger.Info("Indexed %s as %s (%d chunks)", name, doc.ID, result.Chunks)
	return result, nil
}

// IngestPaths ingests every file under paths. Files that cannot be read or
// extracted are reported and skipped; any other failure stops the batch and
// is returned with the results gathered so far.
func (s *IngestService) IngestPaths(
	ctx context.Context, paths []string, opts domain.IngestOptions,
) (*domain.IngestReport, error) {
	report := &domain.IngestReport{Results: []domain.IngestResult{}}

	for _, root := range paths {
		files, err := s.expand(root)
		if err != nil {
			report.Results = append(report.Results, failed(root, err))
			continue
		}

		for _, file := range files {
			if err := ctx.Err(); err != nil {
				return report, err
			}

			res, err := s.IngestFile(ctx, file, opts)
			if err != nil {
				report.Results = append(report.Results, failed(file, err))
				if skippable(err) {
					logger.Warn("Skipping %s: %v", file, err)
					continue
				}
				return report, err
			}
			report.Results = append(report.Results, *res)
		}
	}
	return report, nil
}

// expand turns a path into the files to ingest. Directories are walked
// recursively in lexical order; hidden entries and files without an
// extractor are left out.
func (s *IngestService) expand(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, root)
		}
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !s.Supports(d.Name()) {
			logger.Debug("No extractor for %s", path)
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

func (s *IngestService) documentsNamed(ctx context.Context, name string) ([]domain.DocumentSummary, error) {
	docs, err := s.index.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	var named []domain.DocumentSummary
	for _, d := range docs {
		if d.Name == name {
			named = append(named, d)
		}
	}
	return named, nil
}

// ContentHash digests a chunk sequence. Chunking is deterministic, so equal
// hashes mean the same text under the same chunk settings.
func ContentHash(chunks []string) string {
	h := sha256.New()
	for _, c := range chunks {
		h.Write([]byte(c))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// fileError marks a failure confined to one input: reading, naming or
// extracting it. Provider and index errors are never wrapped.
type fileError struct{ err error }

func (e *fileError) Error() string { return e.err.Error() }
func (e *fileError) Unwrap() error { return e.err }

func perFile(err error) error { return &fileError{err: err} }

// skippable reports whether a batch may continue after err. An embedder
// rejecting a request also reports ErrInvalidInput, so only errors raised
// before embedding qualify.
func skippable(err error) bool {
	var fe *fileError
	if !errors.As(err, &fe) {
		return false
	}
	return errors.Is(err, domain.ErrUnsupportedFormat) ||
		errors.Is(err, domain.ErrExtractionFailure) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrInvalidInput)
}

func failed(path string, err error) domain.IngestResult {
	return domain.IngestResult{
		Path:   path,
		Name:   filepath.Base(path),
		Status: domain.IngestStatusFailed,
		Error:  err.Error(),
	}
}
