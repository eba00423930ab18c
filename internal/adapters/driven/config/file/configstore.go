package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/ragdesk/internal/config/values"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/fileutil"
)

// ConfigFileName is the settings file inside the config directory.
const ConfigFileName = "config.toml"

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps settings in a TOML file. Keys are dotted ("llm.model")
// in memory and nested tables on disk. Set and Delete only touch memory;
// Save writes the whole file.
type ConfigStore struct {
	path string

	mu   sync.RWMutex
	data values.Map
}

// NewConfigStore opens <configDir>/config.toml, or ~/.ragdesk/config.toml
// when configDir is empty. A missing file is an empty config and is not
// created until Save.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".ragdesk")
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	s := &ConfigStore{path: filepath.Join(configDir, ConfigFileName)}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ConfigStore) read() values.Map {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// Get returns the raw value at key.
func (s *ConfigStore) Get(key string) (any, bool) {
	v, ok := s.read()[key]
	return v, ok
}

func (s *ConfigStore) GetString(key string) string        { return s.read().String(key) }
func (s *ConfigStore) GetInt(key string) int              { return s.read().Int(key) }
func (s *ConfigStore) GetFloat(key string) float64        { return s.read().Float(key) }
func (s *ConfigStore) GetBool(key string) bool            { return s.read().Bool(key) }
func (s *ConfigStore) GetStringSlice(key string) []string { return s.read().Strings(key) }

// Set stores value at key. Only scalars and string slices are accepted.
func (s *ConfigStore) Set(key string, value any) error {
	if err := values.CheckKey(key); err != nil {
		return err
	}
	if err := values.CheckValue(key, value); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.data.Clone()
	next[key] = value
	s.data = next
	return nil
}

// Delete removes key.
func (s *ConfigStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.data.Clone()
	delete(next, key)
	s.data = next
}

// Save writes every value to disk atomically, readable only by the owner.
func (s *ConfigStore) Save() error {
	nested, err := s.read().Nest()
	if err != nil {
		return err
	}
	data, err := toml.Marshal(nested)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.path, err)
	}
	return fileutil.WriteAtomic(s.path, data, 0600)
}

// Load replaces the in-memory values with the file's. A missing file
// clears them.
func (s *ConfigStore) Load() error {
	loaded := values.Map{}
	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return err
	default:
		var nested map[string]any
		if err := toml.Unmarshal(data, &nested); err != nil {
			return fmt.Errorf("parse %s: %w", s.path, err)
		}
		loaded = values.Flatten(nested)
	}

	s.mu.Lock()
	s.data = loaded
	s.mu.Unlock()
	return nil
}

// Path returns the config file path.
func (s *ConfigStore) Path() string {
	return s.path
}
