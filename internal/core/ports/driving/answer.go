package driving

import (
	"context"

	"github.com/custodia-labs/resume-assistant/internal/core/domain"
)

// AnswerService answers natural-language questions about the resume material.
// Implementations are safe for concurrent use.
type AnswerService interface {
	// Answer retrieves context for the question and returns the completion.
	// Completion failures are returned unchanged in kind.
	Answer(ctx context.Context, question string) (domain.Answer, error)
}
