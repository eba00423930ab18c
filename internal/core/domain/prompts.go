package domain

// DefaultAnswerSystemPrompt is the system message sent with every question.
const DefaultAnswerSystemPrompt = `You are a helpful assistant that answers questions based on provided documents. Be clear, concise, and conversational.`

// DefaultAnswerPrompt is the grounded answer template. It is a Go
// text/template receiving AnswerPromptData.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const DefaultAnswerPrompt = `Based on the following information from documents ({{.Documents}}), answer the user's question.

Context:
{{.Context}}

Question: {{.Question}}

Instructions:
- Provide a clear, helpful answer based on the context
- If the context doesn't fully answer the question, explain what information IS available
- Be conversational and natural
- Don't say "based on the provided documents" - just answer naturally
- If you're not sure, say so clearly

Answer:`

// AnswerPromptData fills DefaultAnswerPrompt and user edits of it.
type AnswerPromptData struct {
	// Documents is the comma-separated list of source document names.
	Documents string

	// Context is the retrieved text, one "From <doc>:" block per chunk.
	Context string

	// Question is the question being answered.
	Question string
}
