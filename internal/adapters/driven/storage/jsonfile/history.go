// Package jsonfile persists the interaction log as a JSON array on disk.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/fileutil"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

// HistoryFileName is the log file created inside the data directory.
const HistoryFileName = "history.json"

// corruptSuffix is appended to a log that does not parse before a new one
// is started.
const corruptSuffix = ".corrupt"

var errCorrupt = fmt.Errorf("%w: history log is not valid JSON", domain.ErrInvalidInput)

// Ensure HistoryStore implements the interface.
var _ driven.HistoryStore = (*HistoryStore)(nil)

// HistoryStore keeps the most recent domain.MaxHistoryEntries exchanges in
// a single JSON file. Every write replaces the file atomically.
type HistoryStore struct {
	mu       sync.Mutex
	filePath string
}

// NewHistoryStore creates a store in dataDir.
// If dataDir is empty, defaults to ~/.ragdesk/data.
func NewHistoryStore(dataDir string) (*HistoryStore, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".ragdesk", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	return &HistoryStore{filePath: filepath.Join(dataDir, HistoryFileName)}, nil
}

// Path returns the log file path.
func (s *HistoryStore) Path() string {
	return s.filePath
}

// Append adds entry and keeps only the newest entries. A log that does
// not parse is moved aside to history.json.corrupt and restarted with this
// entry; a log that cannot be read is left alone and the error returned.
func (s *HistoryStore) Append(_ context.Context, entry domain.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	switch {
	case errors.Is(err, errCorrupt):
		aside := s.filePath + corruptSuffix
		if rerr := os.Rename(s.filePath, aside); rerr != nil {
			return fmt.Errorf("move corrupt history aside: %w", rerr)
		}
		logger.Warn("history log %s is corrupt, kept as %s and starting a new one: %v", s.filePath, aside, err)
		entries = nil
	case err != nil:
		return err
	}

	if len(entry.Sources) > domain.MaxHistorySources {
		entry.Sources = entry.Sources[:domain.MaxHistorySources]
	}
	if entry.Sources == nil {
		entry.Sources = []domain.SourceRef{}
	}

	entries = append(entries, entry)
	if len(entries) > domain.MaxHistoryEntries {
		entries = entries[len(entries)-domain.MaxHistoryEntries:]
	}
	return s.save(entries)
}

// Read returns the last limit entries, oldest first.
func (s *HistoryStore) Read(_ context.Context, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		limit = domain.DefaultHistoryLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	return entries, nil
}

// Clear deletes the log file. A missing log is already clear.
func (s *HistoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// load reads the log (caller must hold lock). A missing file is an empty log.
func (s *HistoryStore) load() ([]domain.HistoryEntry, error) {
	data, err := os.ReadFile(s.filePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var entries []domain.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %w", errCorrupt, err)
	}
	return entries, nil
}

// save replaces the log via a synced temporary file (caller must hold lock).
func (s *HistoryStore) save(entries []domain.HistoryEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	return fileutil.WriteAtomic(s.filePath, data, 0600)
}
