package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/resume-assistant/internal/core/domain"
	"github.com/custodia-labs/resume-assistant/internal/core/ports/driven"
	"github.com/custodia-labs/resume-assistant/internal/core/ports/driving"
	"github.com/custodia-labs/resume-assistant/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// contextSeparator joins retrieved chunk texts in the prompt.
const contextSeparator = "\n\n"

// AnswerService answers questions from the resume index.
// It holds no per-request state and is safe for concurrent use.
type AnswerService struct {
	index       driven.VectorIndex
	embedder    driven.EmbeddingService
	llm         driven.LLMService
	prompts     driven.PromptStore
	metrics     driven.MetricsRecorder
	topK        int
	temperature float64
}

// AnswerServiceConfig holds the collaborators of an AnswerService.
type AnswerServiceConfig struct {
	Index       driven.VectorIndex
	Embedder    driven.EmbeddingService
	LLM         driven.LLMService
	Prompts     driven.PromptStore
	Metrics     driven.MetricsRecorder // optional
	TopK        int
	Temperature float64
}

// NewAnswerService creates an answer service. A non-positive TopK uses the default.
func NewAnswerService(cfg AnswerServiceConfig) *AnswerService {
	topK := cfg.TopK
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &AnswerService{
		index:       cfg.Index,
		embedder:    cfg.Embedder,
		llm:         cfg.LLM,
		prompts:     cfg.Prompts,
		metrics:     metrics,
		topK:        topK,
		temperature: cfg.Temperature,
	}
}

// Answer retrieves the chunks closest to the question and asks the
// completion model to answer from them. The completion text is returned as is.
func (s *AnswerService) Answer(ctx context.Context, question string) (domain.Answer, error) {
	started := time.Now()

	answer, err := s.answer(ctx, question)

	outcome := driven.AnswerOutcomeOK
	if err != nil {
		outcome = driven.AnswerOutcomeError
	}
	s.metrics.ObserveAnswer(outcome, time.Since(started))
	return answer, err
}

func (s *AnswerService) answer(ctx context.Context, question string) (domain.Answer, error) {
	logger.Section("Answer")

	if strings.TrimSpace(question) == "" {
		return domain.Answer{}, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}
	if s.index == nil {
		return domain.Answer{}, errors.New("vector index not ready")
	}

	query, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return domain.Answer{}, asExternal("embed", err)
	}

	hits, err := s.index.Search(ctx, query, s.topK)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("searching index: %w", err)
	}
	logger.Debug("Retrieved %d chunks for %q", len(hits), question)

	messages, err := s.buildMessages(question, joinContext(hits))
	if err != nil {
		return domain.Answer{}, err
	}

	result, err := s.llm.Chat(ctx, messages, driven.ChatOptions{Temperature: s.temperature})
	if err != nil {
		return domain.Answer{}, err
	}

	return domain.Answer{Result: result}, nil
}

// buildMessages renders the system and human prompt templates.
func (s *AnswerService) buildMessages(question, contextText string) ([]driven.ChatMessage, error) {
	system, err := s.prompts.Load(driven.PromptAnswerSystem)
	if err != nil {
		return nil, err
	}
	human, err := s.prompts.Load(driven.PromptAnswerHuman)
	if err != nil {
		return nil, err
	}

	return []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: system},
		{Role: driven.RoleUser, Content: RenderPrompt(human, contextText, question)},
	}, nil
}

// RenderPrompt substitutes {context} and {question} in a single pass, so
// braces inside either value are never expanded again.
func RenderPrompt(template, contextText, question string) string {
	return strings.NewReplacer("{context}", contextText, "{question}", question).Replace(template)
}

func joinContext(hits []driven.VectorHit) string {
	texts := make([]string, len(hits))
	for i, h := range hits {
		texts[i] = h.Chunk.Text
	}
	return strings.Join(texts, contextSeparator)
}
