// Package routing loads the document router's category table from YAML.
//
// A categories file looks like:
//
//	mode: extend        # or "replace"; extend is the default
//	categories:
//	  - name: slides
//	    extensions: [.pptx, .key]
//	  - name: image
//	    extensions: [.png, .webp]
//
// In extend mode a category whose name matches a built-in one replaces it
// and new names are appended. In replace mode only the file's categories
// are used.
package routing

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

// Table modes.
const (
	ModeExtend  = "extend"
	ModeReplace = "replace"
)

type file struct {
	Mode       string            `yaml:"mode"`
	Categories []domain.Category `yaml:"categories"`
}

// Load reads the category table at path. An empty path or a missing file
// yields the built-in table.
func Load(path string) (domain.CategoryTable, error) {
	if path == "" {
		return domain.DefaultCategoryTable(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("Categories file %s not found, using built-in table", path)
			return domain.DefaultCategoryTable(), nil
		}
		return nil, fmt.Errorf("%w: read categories: %w", domain.ErrConfiguration, err)
	}

	table, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("Loaded %d router categories from %s", len(table), path)
	return table, nil
}

// Parse decodes a categories document and merges it with the built-in
// table according to its mode.
func Parse(data []byte) (domain.CategoryTable, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: parse categories: %w", domain.ErrConfiguration, err)
	}

	seen := make(map[string]bool, len(f.Categories))
	for i := range f.Categories {
		c := &f.Categories[i]
		c.Name = strings.ToLower(strings.TrimSpace(c.Name))
		if c.Name == "" {
			return nil, fmt.Errorf("%w: category %d has no name", domain.ErrConfiguration, i+1)
		}
		if len(c.Extensions) == 0 {
			return nil, fmt.Errorf("%w: category %q has no extensions", domain.ErrConfiguration, c.Name)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("%w: category %q is defined twice", domain.ErrConfiguration, c.Name)
		}
		seen[c.Name] = true
		c.Extensions = normaliseExtensions(c.Extensions)
	}

	switch strings.ToLower(f.Mode) {
	case "", ModeExtend:
		return merge(domain.DefaultCategoryTable(), f.Categories), nil
	case ModeReplace:
		if len(f.Categories) == 0 {
			return nil, fmt.Errorf("%w: replace mode needs at least one category", domain.ErrConfiguration)
		}
		return domain.CategoryTable(f.Categories), nil
	default:
		return nil, fmt.Errorf("%w: unknown categories mode %q", domain.ErrConfiguration, f.Mode)
	}
}

// merge overrides base entries by name and appends the rest, keeping the
// base order first.
func merge(base domain.CategoryTable, extra []domain.Category) domain.CategoryTable {
	out := make(domain.CategoryTable, 0, len(base)+len(extra))
	index := make(map[string]int, len(base))
	for _, c := range base {
		index[c.Name] = len(out)
		out = append(out, c)
	}
	for _, c := range extra {
		if i, ok := index[c.Name]; ok {
			out[i] = c
			continue
		}
		out = append(out, c)
	}
	return out
}

func normaliseExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}
