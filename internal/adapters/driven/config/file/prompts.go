package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

var _ driven.PromptStore = (*PromptStore)(nil)

// DefaultPrompts are written to the prompt directory on first use and
// returned whenever a file is missing, empty or unusable.
var DefaultPrompts = map[string]string{
	driven.PromptAnswerSystem: domain.DefaultAnswerSystemPrompt,
	driven.PromptAnswer:       domain.DefaultAnswerPrompt,
}

// templated prompts must parse as text/template to be used.
var templated = map[string]bool{driven.PromptAnswer: true}

// PromptStore reads prompts from <dir>/<name>.txt. A cached prompt is
// re-read when the file's modification time or size changes, so edits
// apply to the next question without a restart.
type PromptStore struct {
	dir string

	mu     sync.Mutex
	seeded bool
	cache  map[string]promptFile
}

type promptFile struct {
	text    string
	modTime time.Time
	size    int64
}

// NewPromptStore creates a store rooted at dir, or ~/.ragdesk/prompts when
// dir is empty. Nothing is written until the first Load.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".ragdesk", "prompts")
	}
	return &PromptStore{dir: dir, cache: make(map[string]promptFile)}, nil
}

// Load returns the prompt called name. Known prompts never fail: any
// problem with the file yields the built-in default.
func (s *PromptStore) Load(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seed()

	fallback, known := DefaultPrompts[name]
	text, err := s.read(name)
	switch {
	case err == nil && text != "":
		return text, nil
	case known:
		return fallback, nil
	case err == nil:
		err = os.ErrNotExist
	}
	return "", fmt.Errorf("load prompt %q: %w", name, err)
}

// read returns the trimmed file content, from cache when the file is
// unchanged. A templated prompt that does not parse reads as empty.
func (s *PromptStore) read(name string) (string, error) {
	path := filepath.Join(s.dir, name+".txt")
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if c, ok := s.cache[name]; ok && c.modTime.Equal(info.ModTime()) && c.size == info.Size() {
		return c.text, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(string(data))
	if templated[name] && text != "" {
		if _, err := template.New(name).Parse(text); err != nil {
			logger.Warn("Prompt %s does not parse, using the built-in one: %v", path, err)
			text = ""
		}
	}

	s.cache[name] = promptFile{text: text, modTime: info.ModTime(), size: info.Size()}
	return text, nil
}

// Reload drops every cached prompt.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]promptFile)
	s.mu.Unlock()
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

// seed creates the directory, any missing default prompt files and a
// README, once per store. Existing files are left alone. Failure is logged
// and leaves the store serving defaults.
func (s *PromptStore) seed() {
	if s.seeded {
		return
	}
	s.seeded = true

	if err := os.MkdirAll(s.dir, 0700); err != nil {
		logger.Debug("Prompt directory unavailable: %v", err)
		return
	}
	files := map[string]string{"README.md": readme}
	for name, text := range DefaultPrompts {
		files[name+".txt"] = text
	}
	for name, text := range files {
		if err := writeIfMissing(filepath.Join(s.dir, name), text); err != nil {
			logger.Debug("Could not write %s: %v", name, err)
		}
	}
}

func writeIfMissing(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if os.IsExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

const readme = `# ragdesk prompts

These files control how answers are written. Edits apply to the next
question. Delete a file to get the built-in version back.

answer_system.txt
    System message sent with every question.

answer.txt
    Go text/template for the grounded prompt. Fields:
      {{.Documents}}  comma-separated names of the documents used
      {{.Context}}    retrieved passages, each prefixed "From <document>:"
      {{.Question}}   the question as asked
    A template that fails to parse is ignored and the built-in one is used.
`
