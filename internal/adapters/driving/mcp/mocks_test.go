package mcp

import (
	"context"

	"github.com/custodia-labs/resume-assistant/internal/core/domain"
)

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	result   string
	err      error
	question string
}

func (m *mockAnswerService) Answer(_ context.Context, question string) (domain.Answer, error) {
	m.question = question
	if m.err != nil {
		return domain.Answer{}, m.err
	}
	return domain.Answer{Result: m.result}, nil
}
