// Package office extracts text from PowerPoint (.pptx) and Excel (.xlsx)
// files by reading their Office Open XML parts directly.
package office

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// openArchive opens an Office Open XML package.
func openArchive(file *domain.RawFile) (*zip.Reader, error) {
	if file == nil {
		return nil, domain.ErrInvalidInput
	}
	reader, err := zip.NewReader(bytes.NewReader(file.Content), int64(len(file.Content)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a valid office archive: %w", domain.ErrExtractionFailure, file.Name, err)
	}
	return reader, nil
}

// members indexes archive members by name.
func members(reader *zip.Reader) map[string]*zip.File {
	m := make(map[string]*zip.File, len(reader.File))
	for _, f := range reader.File {
		m[f.Name] = f
	}
	return m
}

func readFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// paragraphText collects the character data of every element with local
// name textElem, ending a line at each element named paraElem.
func paragraphText(content []byte, textElem, paraElem string) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(content))
	var (
		lines  []string
		line   strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == textElem {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case textElem:
				inText = false
			case paraElem:
				if s := strings.TrimSpace(line.String()); s != "" {
					lines = append(lines, s)
				}
				line.Reset()
			}
		case xml.CharData:
			if inText {
				line.Write(t)
			}
		}
	}
	if s := strings.TrimSpace(line.String()); s != "" {
		lines = append(lines, s)
	}
	return strings.Join(lines, "\n"), nil
}
