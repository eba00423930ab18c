// Package structured extracts text from data formats: CSV, JSON and XML.
package structured

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// Ensure extractors implement the interface.
var (
	_ driven.Extractor = (*CSVExtractor)(nil)
	_ driven.Extractor = (*JSONExtractor)(nil)
	_ driven.Extractor = (*XMLExtractor)(nil)
)

// CSVExtractor renders comma or tab separated rows as " | " joined lines.
type CSVExtractor struct{}

// NewCSV creates a new CSV extractor.
func NewCSV() *CSVExtractor { return &CSVExtractor{} }

// Name returns the extractor name.
func (e *CSVExtractor) Name() string { return "csv" }

// SupportedExtensions returns the extensions this extractor handles.
func (e *CSVExtractor) SupportedExtensions() []string { return []string{".csv", ".tsv"} }

// Priority returns the selection priority.
func (e *CSVExtractor) Priority() int { return 50 }

// Extract returns one line per record. Ragged rows are accepted.
func (e *CSVExtractor) Extract(_ context.Context, file *domain.RawFile) (string, error) {
	if file == nil {
		return "", domain.ErrInvalidInput
	}

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(file.Content, []byte("\xef\xbb\xbf"))))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	if file.Extension() == ".tsv" {
		r.Comma = '\t'
	}

	var lines []string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", domain.ErrExtractionFailure, file.Name, err)
		}
		line := strings.Join(record, " | ")
		if strings.TrimSpace(strings.ReplaceAll(line, "|", "")) != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// JSONExtractor pretty-prints JSON so keys and values become words.
type JSONExtractor struct{}

// NewJSON creates a new JSON extractor.
func NewJSON() *JSONExtractor { return &JSONExtractor{} }

// Name returns the extractor name.
func (e *JSONExtractor) Name() string { return "json" }

// SupportedExtensions returns the extensions this extractor handles.
func (e *JSONExtractor) SupportedExtensions() []string { return []string{".json"} }

// Priority returns the selection priority.
func (e *JSONExtractor) Priority() int { return 50 }

// Extract re-indents the document with two spaces.
func (e *JSONExtractor) Extract(_ context.Context, file *domain.RawFile) (string, error) {
	if file == nil {
		return "", domain.ErrInvalidInput
	}

	var out bytes.Buffer
	if err := json.Indent(&out, bytes.TrimSpace(file.Content), "", "  "); err != nil {
		return "", fmt.Errorf("%w: %s: %w", domain.ErrExtractionFailure, file.Name, err)
	}
	return out.String(), nil
}

// XMLExtractor returns the character data of an XML document.
type XMLExtractor struct{}

// NewXML creates a new XML extractor.
func NewXML() *XMLExtractor { return &XMLExtractor{} }

// Name returns the extractor name.
func (e *XMLExtractor) Name() string { return "xml" }

// SupportedExtensions returns the extensions this extractor handles.
func (e *XMLExtractor) SupportedExtensions() []string { return []string{".xml"} }

// Priority returns the selection priority.
func (e *XMLExtractor) Priority() int { return 50 }

// Extract returns each non-blank text node on its own line.
func (e *XMLExtractor) Extract(_ context.Context, file *domain.RawFile) (string, error) {
	if file == nil {
		return "", domain.ErrInvalidInput
	}

	dec := xml.NewDecoder(bytes.NewReader(file.Content))
	dec.Strict = false
	var lines []string
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", domain.ErrExtractionFailure, file.Name, err)
		}
		if cd, ok := tok.(xml.CharData); ok {
			if s := strings.TrimSpace(string(cd)); s != "" {
				lines = append(lines, s)
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}
