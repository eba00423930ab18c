package driven

import (
	"context"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// Extractor turns the bytes of one file format into plain text.
type Extractor interface {
	// Name identifies the extractor in logs.
	Name() string

	// SupportedExtensions returns the lower-cased extensions handled,
	// including the leading dot.
	SupportedExtensions() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific extractors return 50-89, fallbacks 1-9.
	Priority() int

	// Extract returns the text content of file. Unreadable input fails
	// with ErrExtractionFailure.
	Extract(ctx context.Context, file *domain.RawFile) (string, error)
}

// ExtractorRegistry selects the extractor for a file by extension.
type ExtractorRegistry interface {
	// Extract runs the best matching extractor. Files with no extractor
	// fail with ErrUnsupportedFormat.
	Extract(ctx context.Context, file *domain.RawFile) (string, error)

	// Register adds an extractor to the registry.
	Register(extractor Extractor)

	// Supports reports whether a file name has an extractor.
	Supports(name string) bool

	// SupportedExtensions returns every extension that can be extracted.
	SupportedExtensions() []string
}
