// Package archive extracts every supported member of a ZIP archive.
package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

const (
	// MaxDepth bounds archive-in-archive recursion.
	MaxDepth = 3
	// MaxMemberSize is the largest uncompressed member read into memory.
	MaxMemberSize = 64 << 20
)

type depthKey struct{}

// Extractor hands each archive member back to a registry.
type Extractor struct {
	registry driven.ExtractorRegistry
}

// New creates an archive extractor that resolves members through registry.
func New(registry driven.ExtractorRegistry) *Extractor {
	return &Extractor{registry: registry}
}

// Name returns the extractor name.
func (e *Extractor) Name() string {
	return "archive"
}

// SupportedExtensions returns the extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".zip"}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50
}

// Extract concatenates member texts under "--- From: name ---" headers.
// Members that fail are noted inline and do not fail the archive.
func (e *Extractor) Extract(ctx context.Context, file *domain.RawFile) (string, error) {
	if file == nil {
		return "", domain.ErrInvalidInput
	}

	depth, _ := ctx.Value(depthKey{}).(int)
	if depth >= MaxDepth {
		return "", fmt.Errorf("%w: %s: archives nested deeper than %d", domain.ErrExtractionFailure, file.Name, MaxDepth)
	}
	ctx = context.WithValue(ctx, depthKey{}, depth+1)

	zr, err := zip.NewReader(bytes.NewReader(file.Content), int64(len(file.Content)))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", domain.ErrExtractionFailure, file.Name, err)
	}

	members := make([]*zip.File, 0, len(zr.File))
	for _, f := range zr.File {
		if !f.FileInfo().IsDir() && !hidden(f.Name) {
			members = append(members, f)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })

	var b strings.Builder
	fmt.Fprintf(&b, "=== Contents of %s ===\n\n", file.Name)
	for _, f := range members {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		name := path.Base(f.Name)
		text, err := e.extractMember(ctx, file.Name, f)
		if err != nil {
			logger.Warn("skipped %s in %s: %v", f.Name, file.Name, err)
			fmt.Fprintf(&b, "\n\n[Skipped: %s - %v]\n\n", name, err)
			continue
		}
		fmt.Fprintf(&b, "\n\n--- From: %s ---\n\n", name)
		b.WriteString(text)
	}

	return strings.TrimSpace(b.String()), nil
}

func (e *Extractor) extractMember(ctx context.Context, archiveName string, f *zip.File) (string, error) {
	if f.UncompressedSize64 > MaxMemberSize {
		return "", fmt.Errorf("member larger than %d bytes", MaxMemberSize)
	}
	if !e.registry.Supports(f.Name) {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, path.Ext(f.Name))
	}

	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	content, err := io.ReadAll(io.LimitReader(rc, MaxMemberSize+1))
	if err != nil {
		return "", err
	}

	return e.registry.Extract(ctx, &domain.RawFile{
		Name:    path.Base(f.Name),
		Path:    archiveName + "/" + f.Name,
		Content: content,
	})
}

// hidden reports OS metadata entries such as __MACOSX/ and .DS_Store.
func hidden(name string) bool {
	if strings.HasPrefix(name, "__MACOSX/") {
		return true
	}
	return strings.HasPrefix(path.Base(name), ".")
}
