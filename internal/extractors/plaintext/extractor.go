// Package plaintext extracts text files and source code as-is.
package plaintext

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text documents and source files.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns the extractor name.
func (e *Extractor) Name() string {
	return "plaintext"
}

// SupportedExtensions returns the extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{
		".txt",
		".text",
		".log",
		".md",
		".rst",
		".go",
		".py",
		".js",
		".ts",
		".java",
		".c",
		".h",
		".cpp",
		".rs",
		".rb",
		".sh",
		".sql",
		".css",
		".yaml",
		".yml",
		".toml",
		".ini",
	}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 5 // Fallback extractor
}

// Extract returns the file content decoded as UTF-8.
// Byte order marks are dropped and invalid sequences replaced.
func (e *Extractor) Extract(_ context.Context, file *domain.RawFile) (string, error) {
	if file == nil {
		return "", domain.ErrInvalidInput
	}
	if looksBinary(file.Content) {
		return "", fmt.Errorf("%w: %s looks like a binary file", domain.ErrExtractionFailure, file.Name)
	}

	content := strings.TrimPrefix(string(file.Content), "\ufeff")
	if !utf8.ValidString(content) {
		content = strings.ToValidUTF8(content, "\uFFFD")
	}
	return content, nil
}

// looksBinary reports whether the first kilobyte contains a NUL byte.
func looksBinary(b []byte) bool {
	if len(b) > 1024 {
		b = b[:1024]
	}
	for _, c := range b {
		if c == 0 {
			return true
		}
	}
	return false
}
