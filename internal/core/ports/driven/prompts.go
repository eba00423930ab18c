package driven

// Prompt names understood by PromptStore.
const (
	// PromptAnswerSystem is the system message for every grounded answer.
	PromptAnswerSystem = "answer_system"
	// PromptAnswer is a text/template over .Documents, .Context and .Question.
	PromptAnswer = "answer"
)

// PromptStore serves prompt text by name. Known names always resolve,
// falling back to a built-in default; unknown names are an error.
type PromptStore interface {
	Load(name string) (string, error)
	// Reload forgets cached text so the next Load reads from the source.
	Reload()
}
