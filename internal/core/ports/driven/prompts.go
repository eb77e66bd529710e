package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations return the embedded default
	// or an error when no default exists.
	Load(name string) (string, error)
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptAnswerSystem is the persona given to the assistant.
	// This prompt has no placeholders.
	PromptAnswerSystem = "answer_system"

	// PromptAnswerHuman is the user turn.
	// The template expects {context} and {question} placeholders.
	PromptAnswerHuman = "answer_human"
)
