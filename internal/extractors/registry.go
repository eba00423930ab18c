// Package extractors turns files of many formats into plain text.
// Each subpackage implements driven.Extractor for one format family; the
// Registry picks one by file extension and priority.
package extractors

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry dispatches files to the highest-priority extractor registered
// for their extension.
type Registry struct {
	mu     sync.RWMutex
	byExt  map[string][]driven.Extractor
	sorted bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byExt: make(map[string][]driven.Extractor),
	}
}

// Register adds an extractor under each extension it supports.
func (r *Registry) Register(extractor driven.Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ext := range extractor.SupportedExtensions() {
		ext = normaliseExt(ext)
		r.byExt[ext] = append(r.byExt[ext], extractor)
	}
	r.sorted = false
}

// Extract runs the best extractor for the file.
func (r *Registry) Extract(ctx context.Context, file *domain.RawFile) (string, error) {
	if file == nil {
		return "", fmt.Errorf("%w: file is nil", domain.ErrInvalidInput)
	}

	extractor := r.lookup(file.Extension())
	if extractor == nil {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, extOrName(file))
	}

	logger.Debug("extracting %s with %s", file.Name, extractor.Name())
	text, err := extractor.Extract(ctx, file)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", file.Name, err)
	}
	return text, nil
}

// Supports reports whether a file name has an extractor.
func (r *Registry) Supports(name string) bool {
	return r.lookup(extOf(name)) != nil
}

// SupportedExtensions returns every registered extension, sorted.
func (r *Registry) SupportedExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func (r *Registry) lookup(ext string) driven.Extractor {
	ext = normaliseExt(ext)
	if ext == "" {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.sorted {
		for _, list := range r.byExt {
			sort.SliceStable(list, func(i, j int) bool {
				return list[i].Priority() > list[j].Priority()
			})
		}
		r.sorted = true
	}

	list := r.byExt[ext]
	if len(list) == 0 {
		return nil
	}
	return list[0]
}

func normaliseExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func extOf(name string) string {
	return (&domain.RawFile{Name: name}).Extension()
}

func extOrName(file *domain.RawFile) string {
	if ext := file.Extension(); ext != "" {
		return ext
	}
	return file.Name
}
