// Package messages holds the bubbletea messages exchanged between the TUI
// root model and its views.
package messages

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// ViewType identifies a screen.
type ViewType int

const (
	ViewMenu ViewType = iota
	ViewChat
	ViewDocuments
	ViewHistory
	ViewHelp
)

var viewNames = []string{"menu", "chat", "documents", "history", "help"}

func (v ViewType) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return "unknown"
	}
	return viewNames[v]
}

// ViewNames lists the names ParseView accepts, in ViewType order.
func ViewNames() []string {
	return append([]string(nil), viewNames...)
}

// ParseView maps a name such as "documents" to its ViewType. Case is ignored.
func ParseView(name string) (ViewType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range viewNames {
		if n == name {
			return ViewType(i), nil
		}
	}
	return ViewMenu, fmt.Errorf("unknown view %q (choose from %s)", name, strings.Join(viewNames, ", "))
}

// ViewChanged asks the root model to switch screens.
type ViewChanged struct {
	View ViewType
}

// Quit asks the program to exit.
type Quit struct{}

// ErrorOccurred reports a failure that has no more specific message.
type ErrorOccurred struct {
	Err error
}

// AnswerReceived is the result of one AskService call.
type AnswerReceived struct {
	Question string
	Answer   *domain.Answer
	Err      error
}

// DocumentsLoaded is the result of DocumentService.List.
type DocumentsLoaded struct {
	Documents []domain.DocumentSummary
	Err       error
}

// DocumentDeleted is the result of DocumentService.Delete; Removed counts chunks.
type DocumentDeleted struct {
	DocumentID string
	Removed    int
	Err        error
}

// HistoryLoaded is the result of HistoryService.Recent.
type HistoryLoaded struct {
	Entries []domain.HistoryEntry
	Err     error
}
