// Package docx extracts paragraph text from Word (.docx) files.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles DOCX documents.
type Extractor struct{}

// New creates a new DOCX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns the extractor name.
func (e *Extractor) Name() string {
	return "docx"
}

// SupportedExtensions returns the extensions this extractor handles.
// Legacy binary .doc files are not Office Open XML and are rejected.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".docx"}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50
}

// Extract returns the document paragraphs separated by blank lines,
// preceded by the title from docProps/core.xml when present.
func (e *Extractor) Extract(_ context.Context, file *domain.RawFile) (string, error) {
	if file == nil {
		return "", domain.ErrInvalidInput
	}

	reader, err := zip.NewReader(bytes.NewReader(file.Content), int64(len(file.Content)))
	if err != nil {
		return "", fmt.Errorf("%w: %s is not a valid docx archive: %w", domain.ErrExtractionFailure, file.Name, err)
	}

	documentXML, err := readMember(reader, "word/document.xml")
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", domain.ErrExtractionFailure, file.Name, err)
	}
	if documentXML == nil {
		return "", fmt.Errorf("%w: %s has no word/document.xml", domain.ErrExtractionFailure, file.Name)
	}

	body, err := parseDocumentXML(documentXML)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", domain.ErrExtractionFailure, file.Name, err)
	}

	if title := extractTitle(reader); title != "" && !strings.HasPrefix(body, title) {
		return strings.TrimSpace(title + "\n\n" + body), nil
	}
	return body, nil
}

// readMember returns the bytes of a named archive member, or nil if absent.
func readMember(reader *zip.Reader, name string) ([]byte, error) {
	for _, f := range reader.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, nil
}

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
		Tables     []table     `xml:"tbl"`
	} `xml:"body"`
}

type table struct {
	Rows []struct {
		Cells []struct {
			Paragraphs []paragraph `xml:"p"`
		} `xml:"tc"`
	} `xml:"tr"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

func (p paragraph) text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		for _, t := range r.Text {
			b.WriteString(t.Content)
		}
	}
	return b.String()
}

// parseDocumentXML extracts paragraph text, then table rows as
// " | " separated cells.
func parseDocumentXML(content []byte) (string, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return "", err
	}

	var parts []string
	for _, para := range doc.Body.Paragraphs {
		if text := strings.TrimSpace(para.text()); text != "" {
			parts = append(parts, text)
		}
	}
	for _, tbl := range doc.Body.Tables {
		for _, row := range tbl.Rows {
			cells := make([]string, 0, len(row.Cells))
			for _, cell := range row.Cells {
				var cellText []string
				for _, para := range cell.Paragraphs {
					cellText = append(cellText, strings.TrimSpace(para.text()))
				}
				cells = append(cells, strings.Join(cellText, " "))
			}
			if line := strings.Join(cells, " | "); strings.TrimSpace(strings.ReplaceAll(line, "|", "")) != "" {
				parts = append(parts, line)
			}
		}
	}
	return strings.Join(parts, "\n\n"), nil
}

// coreXML represents the structure of docProps/core.xml.
type coreXML struct {
	Title string `xml:"title"`
}

// extractTitle returns the title from docProps/core.xml, or "".
func extractTitle(reader *zip.Reader) string {
	content, err := readMember(reader, "docProps/core.xml")
	if err != nil || content == nil {
		return ""
	}
	var core coreXML
	if err := xml.Unmarshal(content, &core); err != nil {
		return ""
	}
	return strings.TrimSpace(core.Title)
}
