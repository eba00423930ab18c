package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

const (
	uriScheme   = "ragdesk://"
	documentURI = uriScheme + "documents/"
	jsonMIME    = "application/json"
)

// staticResource is a fixed URI whose body is whatever read returns,
// encoded as JSON.
type staticResource struct {
	name string
	desc string
	read func(ctx context.Context) (any, error)
}

func (s *Server) staticResources() []staticResource {
	return []staticResource{
		{"documents", "Indexed documents with chunk counts", s.readDocuments},
		{"history", "Recent questions and answers, newest first", s.readHistory},
		{"stats", "Index backend, size and vector dimensions", s.readStats},
	}
}

func (s *Server) registerResources() {
	for _, r := range s.staticResources() {
		s.server.AddResource(&mcp.Resource{
			URI:         uriScheme + r.name,
			Name:        r.name,
			Description: r.desc,
			MIMEType:    jsonMIME,
		}, serve(r.read))
	}

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: documentURI + "{document}",
		Name:        "document",
		Description: "One indexed document, by id or by name",
		MIMEType:    jsonMIME,
	}, s.handleDocumentResource)
}

func serve(read func(context.Context) (any, error)) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		v, err := read(ctx)
		if err != nil {
			return nil, err
		}
		return jsonResource(req.Params.URI, v)
	}
}

func (s *Server) readDocuments(ctx context.Context) (any, error) {
	docs, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return nonNil(docs), nil
}

func (s *Server) readHistory(ctx context.Context) (any, error) {
	if s.ports.History == nil {
		return []domain.HistoryEntry{}, nil
	}
	entries, err := s.ports.History.Recent(ctx, domain.DefaultHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	return nonNil(entries), nil
}

func (s *Server) readStats(ctx context.Context) (any, error) {
	stats, err := s.ports.Document.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading index stats: %w", err)
	}
	return stats, nil
}

// handleDocumentResource serves ragdesk://documents/{document}. The last
// segment matches a document id first, then a document name.
func (s *Server) handleDocumentResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	key := documentKey(uri)
	if key == "" {
		return nil, mcp.ResourceNotFoundError(uri)
	}

	docs, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	if doc := findDocument(docs, key); doc != nil {
		return jsonResource(uri, doc)
	}
	return nil, mcp.ResourceNotFoundError(uri)
}

func findDocument(docs []domain.DocumentSummary, key string) *domain.DocumentSummary {
	for i := range docs {
		if docs[i].ID == key {
			return &docs[i]
		}
	}
	for i := range docs {
		if docs[i].Name == key {
			return &docs[i]
		}
	}
	return nil
}

// documentKey returns the unescaped segment after documentURI, or "".
// Names may contain spaces, so clients percent-encode them.
func documentKey(uri string) string {
	rest, ok := strings.CutPrefix(uri, documentURI)
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return ""
	}
	key, err := url.PathUnescape(rest)
	if err != nil {
		return ""
	}
	return key
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{URI: uri, MIMEType: jsonMIME, Text: string(data)}},
	}, nil
}
