package office

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// Ensure XLSXExtractor implements the interface.
var _ driven.Extractor = (*XLSXExtractor)(nil)

// XLSXExtractor handles Excel workbooks.
type XLSXExtractor struct{}

// NewXLSX creates a new Excel extractor.
func NewXLSX() *XLSXExtractor {
	return &XLSXExtractor{}
}

// Name returns the extractor name.
func (e *XLSXExtractor) Name() string {
	return "xlsx"
}

// SupportedExtensions returns the extensions this extractor handles.
func (e *XLSXExtractor) SupportedExtensions() []string {
	return []string{".xlsx", ".xlsm"}
}

// Priority returns the selection priority.
func (e *XLSXExtractor) Priority() int {
	return 50
}

type workbookXML struct {
	Sheets []struct {
		Name string `xml:"name,attr"`
		RID  string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sheets>sheet"`
}

type relationshipsXML struct {
	Relationships []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

type sharedStringsXML struct {
	Items []struct {
		Text string `xml:"t"`
		Runs []struct {
			Text string `xml:"t"`
		} `xml:"r"`
	} `xml:"si"`
}

type worksheetXML struct {
	Rows []struct {
		Cells []struct {
			Ref    string `xml:"r,attr"`
			Type   string `xml:"t,attr"`
			Value  string `xml:"v"`
			Inline struct {
				Text string `xml:"t"`
			} `xml:"is"`
		} `xml:"c"`
	} `xml:"sheetData>row"`
}

// Extract returns every sheet as a "=== Sheet: name ===" header followed by
// its non-empty rows with cells joined by " | ".
func (e *XLSXExtractor) Extract(_ context.Context, file *domain.RawFile) (string, error) {
	reader, err := openArchive(file)
	if err != nil {
		return "", err
	}
	parts := members(reader)

	var wb workbookXML
	if err := decodePart(parts, "xl/workbook.xml", &wb); err != nil {
		return "", fmt.Errorf("%w: %s: %w", domain.ErrExtractionFailure, file.Name, err)
	}

	var rels relationshipsXML
	_ = decodePart(parts, "xl/_rels/workbook.xml.rels", &rels)
	targets := make(map[string]string, len(rels.Relationships))
	for _, r := range rels.Relationships {
		target := strings.TrimPrefix(r.Target, "/")
		if !strings.HasPrefix(target, "xl/") {
			target = path.Join("xl", target)
		}
		targets[r.ID] = target
	}

	var shared sharedStringsXML
	_ = decodePart(parts, "xl/sharedStrings.xml", &shared)
	strs := make([]string, len(shared.Items))
	for i, si := range shared.Items {
		if si.Text != "" {
			strs[i] = si.Text
			continue
		}
		var b strings.Builder
		for _, r := range si.Runs {
			b.WriteString(r.Text)
		}
		strs[i] = b.String()
	}

	var out strings.Builder
	for i, sheet := range wb.Sheets {
		target, ok := targets[sheet.RID]
		if !ok {
			target = fmt.Sprintf("xl/worksheets/sheet%d.xml", i+1)
		}
		var ws worksheetXML
		if err := decodePart(parts, target, &ws); err != nil {
			return "", fmt.Errorf("%w: %s sheet %q: %w", domain.ErrExtractionFailure, file.Name, sheet.Name, err)
		}

		fmt.Fprintf(&out, "\n\n=== Sheet: %s ===\n\n", sheet.Name)
		for _, row := range ws.Rows {
			var cells []string
			for _, c := range row.Cells {
				col := columnIndex(c.Ref)
				for col > len(cells) {
					cells = append(cells, "")
				}
				cells = append(cells, cellValue(c.Type, c.Value, c.Inline.Text, strs))
			}
			line := strings.Join(cells, " | ")
			if strings.TrimSpace(strings.ReplaceAll(line, "|", "")) != "" {
				out.WriteString(line)
				out.WriteString("\n")
			}
		}
	}
	return strings.TrimSpace(out.String()), nil
}

func decodePart(parts map[string]*zip.File, name string, v any) error {
	f, ok := parts[name]
	if !ok {
		return fmt.Errorf("missing part %s", name)
	}
	content, err := readFile(f)
	if err != nil {
		return err
	}
	return xml.Unmarshal(content, v)
}

func cellValue(typ, value, inline string, shared []string) string {
	switch typ {
	case "s":
		idx, err := strconv.Atoi(value)
		if err != nil || idx < 0 || idx >= len(shared) {
			return ""
		}
		return shared[idx]
	case "inlineStr":
		return inline
	case "b":
		if value == "1" {
			return "TRUE"
		}
		return "FALSE"
	default:
		return value
	}
}

// columnIndex converts the letters of a cell reference such as "C7" to a
// 0-based column. References without letters yield 0.
func columnIndex(ref string) int {
	col := 0
	for _, r := range ref {
		if r < 'A' || r > 'Z' {
			break
		}
		col = col*26 + int(r-'A'+1)
	}
	if col == 0 {
		return 0
	}
	return col - 1
}
