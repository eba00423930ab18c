package services

import (
	"slices"
	"strings"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// directivePrefix opens an explicit document filter:
// "[Search only in report.pdf] what are the totals?".
const directivePrefix = "[Search only in "

// Router narrows a question to the documents it is most likely about.
type Router struct {
	table domain.CategoryTable
}

// NewRouter creates a router over a category table.
// A nil table uses domain.DefaultCategoryTable.
func NewRouter(table domain.CategoryTable) *Router {
	if table == nil {
		table = domain.DefaultCategoryTable()
	}
	return &Router{table: table}
}

// Route picks the documents to search for question. The result never
// selects an empty subset of a non-empty corpus: when nothing matches,
// every document is searched.
func (r *Router) Route(question string, docs []string) domain.RouteDecision {
	target, clean, _ := ParseDirective(question)
	return r.RouteTo(target, clean, docs)
}

// RouteTo is Route with the directive already split off. A non-empty
// target restricts the search to documents whose name contains it; an
// empty one leaves the choice to the heuristic.
func (r *Router) RouteTo(target, question string, docs []string) domain.RouteDecision {
	if target != "" {
		var matched []string
		for _, name := range docs {
			if strings.Contains(name, target) {
				matched = append(matched, name)
			}
		}
		if len(matched) > 0 {
			return r.decide(question, matched, docs, domain.RouteModeDirective)
		}
		return allDocuments(question, docs)
	}

	selected := r.heuristic(question, docs)
	if len(selected) == 0 {
		return allDocuments(question, docs)
	}
	return r.decide(question, selected, docs, domain.RouteModeHeuristic)
}

// ParseDirective splits a leading "[Search only in NAME]" off question.
// It returns the trimmed NAME, the remaining question and whether a
// directive was present.
func ParseDirective(question string) (target, rest string, ok bool) {
	if !strings.HasPrefix(question, directivePrefix) {
		return "", question, false
	}
	end := strings.Index(question, "]")
	if end < 0 {
		return "", question, false
	}
	return strings.TrimSpace(question[len(directivePrefix):end]), strings.TrimSpace(question[end+1:]), true
}

func (r *Router) heuristic(question string, docs []string) []string {
	lower := strings.ToLower(question)
	var selected []string
	add := func(name string) {
		if !slices.Contains(selected, name) {
			selected = append(selected, name)
		}
	}

	for _, cat := range r.table {
		if !r.mentions(lower, cat) {
			continue
		}
		for _, name := range docs {
			if cat.HasExtension(extensionOf(name)) {
				add(name)
			}
		}
	}

	for _, name := range docs {
		for _, fragment := range nameFragments(name) {
			if strings.Contains(lower, fragment) {
				add(name)
				break
			}
		}
	}
	return selected
}

// mentions reports whether the lower-cased question names the category or
// one of its extensions without the dot.
func (r *Router) mentions(lower string, cat domain.Category) bool {
	if strings.Contains(lower, strings.ToLower(cat.Name)) {
		return true
	}
	for _, ext := range cat.Extensions {
		token := strings.ToLower(strings.TrimPrefix(ext, "."))
		if token != "" && strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

// nameFragments returns the lower-cased name pieces between dots, with
// underscores and hyphens read as spaces. The final piece (the extension)
// and pieces of three characters or fewer are dropped.
func nameFragments(name string) []string {
	normalised := strings.NewReplacer("_", " ", "-", " ").Replace(strings.ToLower(name))
	parts := strings.Split(normalised, ".")
	fragments := make([]string, 0, len(parts))
	for _, part := range parts[:len(parts)-1] {
		if len(part) > 3 {
			fragments = append(fragments, part)
		}
	}
	return fragments
}

func extensionOf(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	return name[i:]
}

func (r *Router) decide(question string, selected, docs []string, mode domain.RouteMode) domain.RouteDecision {
	if coversAll(selected, docs) {
		return allDocuments(question, docs)
	}
	return domain.RouteDecision{Question: question, Documents: selected, Mode: mode}
}

func allDocuments(question string, docs []string) domain.RouteDecision {
	return domain.RouteDecision{Question: question, Documents: docs, Mode: domain.RouteModeAll}
}

func coversAll(selected, docs []string) bool {
	for _, name := range docs {
		if !slices.Contains(selected, name) {
			return false
		}
	}
	return true
}
