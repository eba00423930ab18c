package extractors

import (
	"github.com/custodia-labs/ragdesk/internal/extractors/archive"
	"github.com/custodia-labs/ragdesk/internal/extractors/docx"
	"github.com/custodia-labs/ragdesk/internal/extractors/eml"
	"github.com/custodia-labs/ragdesk/internal/extractors/html"
	"github.com/custodia-labs/ragdesk/internal/extractors/markdown"
	"github.com/custodia-labs/ragdesk/internal/extractors/office"
	"github.com/custodia-labs/ragdesk/internal/extractors/pdf"
	"github.com/custodia-labs/ragdesk/internal/extractors/plaintext"
	"github.com/custodia-labs/ragdesk/internal/extractors/structured"
)

// RegisterDefaults registers every built-in extractor with r.
func RegisterDefaults(r *Registry) {
	r.Register(plaintext.New())
	r.Register(markdown.New())
	r.Register(html.New())
	r.Register(docx.New())
	r.Register(office.NewPPTX())
	r.Register(office.NewXLSX())
	r.Register(pdf.New())
	r.Register(eml.New())
	r.Register(structured.NewCSV())
	r.Register(structured.NewJSON())
	r.Register(structured.NewXML())
	r.Register(archive.New(r))
}

// NewDefaultRegistry returns a registry with every built-in extractor.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}
