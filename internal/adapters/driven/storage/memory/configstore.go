package memory

import (
	"sync"

	"github.com/custodia-labs/ragdesk/internal/config/values"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps settings in memory. Save takes a snapshot and Load
// restores it, so tests can tell persisted values from pending ones.
type ConfigStore struct {
	mu      sync.RWMutex
	live    values.Map
	saved   values.Map
	saves   int
	saveErr error
}

// NewConfigStore returns an empty store.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{live: values.Map{}, saved: values.Map{}}
}

func (s *ConfigStore) snapshot() values.Map {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.live
}

// Get returns the raw value at key.
func (s *ConfigStore) Get(key string) (any, bool) {
	v, ok := s.snapshot()[key]
	return v, ok
}

func (s *ConfigStore) GetString(key string) string        { return s.snapshot().String(key) }
func (s *ConfigStore) GetInt(key string) int              { return s.snapshot().Int(key) }
func (s *ConfigStore) GetFloat(key string) float64        { return s.snapshot().Float(key) }
func (s *ConfigStore) GetBool(key string) bool            { return s.snapshot().Bool(key) }
func (s *ConfigStore) GetStringSlice(key string) []string { return s.snapshot().Strings(key) }

// Set stores value at key. Values are not type checked.
func (s *ConfigStore) Set(key string, value any) error {
	if err := values.CheckKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.live.Clone()
	next[key] = value
	s.live = next
	return nil
}

// Delete removes key.
func (s *ConfigStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.live.Clone()
	delete(next, key)
	s.live = next
}

// Save snapshots the current values, or fails as set by FailSaves.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = s.live.Clone()
	s.saves++
	return nil
}

// Load discards unsaved changes.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live = s.saved.Clone()
	return nil
}

// Path returns ":memory:".
func (s *ConfigStore) Path() string {
	return ":memory:"
}

// Saves counts successful Save calls.
func (s *ConfigStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// Saved returns the value at key as of the last Save.
func (s *ConfigStore) Saved(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.saved[key]
	return v, ok
}

// FailSaves makes later Save calls return err. A nil err clears it.
func (s *ConfigStore) FailSaves(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}
