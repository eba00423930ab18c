package anthropic

import (
	"strings"

	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// request is the body of POST /v1/messages.
type request struct {
	Model         string    `json:"model"`
	System        string    `json:"system,omitempty"`
	Messages      []message `json:"messages"`
	MaxTokens     int       `json:"max_tokens"`
	Temperature   float64   `json:"temperature"`
	StopSequences []string  `json:"stop_sequences,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type response struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// text joins the text blocks of the reply, skipping tool and other blocks.
func (r response) text() string {
	var b strings.Builder
	for _, block := range r.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String()
}

// split separates system messages, which Anthropic takes as a top-level
// field, from conversation turns. Adjacent turns with the same role are
// merged because the API requires roles to alternate.
func split(msgs []driven.ChatMessage) (string, []message) {
	var system []string
	turns := make([]message, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == driven.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		if n := len(turns); n > 0 && turns[n-1].Role == m.Role {
			turns[n-1].Content += "\n\n" + m.Content
			continue
		}
		turns = append(turns, message{Role: m.Role, Content: m.Content})
	}
	return strings.Join(system, "\n\n"), turns
}
