package office

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// Ensure PPTXExtractor implements the interface.
var _ driven.Extractor = (*PPTXExtractor)(nil)

var slidePart = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// PPTXExtractor handles PowerPoint presentations.
type PPTXExtractor struct{}

// NewPPTX creates a new PowerPoint extractor.
func NewPPTX() *PPTXExtractor {
	return &PPTXExtractor{}
}

// Name returns the extractor name.
func (e *PPTXExtractor) Name() string {
	return "pptx"
}

// SupportedExtensions returns the extensions this extractor handles.
func (e *PPTXExtractor) SupportedExtensions() []string {
	return []string{".pptx"}
}

// Priority returns the selection priority.
func (e *PPTXExtractor) Priority() int {
	return 50
}

// Extract returns the text of every slide in slide order, one paragraph
// per line and a blank line between slides.
func (e *PPTXExtractor) Extract(_ context.Context, file *domain.RawFile) (string, error) {
	reader, err := openArchive(file)
	if err != nil {
		return "", err
	}

	type slide struct {
		num  int
		name string
	}
	var slides []slide
	for _, f := range reader.File {
		if m := slidePart.FindStringSubmatch(f.Name); m != nil {
			n, _ := strconv.Atoi(m[1])
			slides = append(slides, slide{num: n, name: f.Name})
		}
	}
	if len(slides) == 0 {
		return "", fmt.Errorf("%w: %s has no slides", domain.ErrExtractionFailure, file.Name)
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].num < slides[j].num })

	parts := members(reader)
	texts := make([]string, 0, len(slides))
	for _, s := range slides {
		content, err := readFile(parts[s.name])
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", domain.ErrExtractionFailure, s.name, err)
		}
		text, err := paragraphText(content, "t", "p")
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", domain.ErrExtractionFailure, s.name, err)
		}
		if text != "" {
			texts = append(texts, text)
		}
	}
	return strings.Join(texts, "\n\n"), nil
}
