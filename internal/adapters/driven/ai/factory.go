// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/resume-assistant/internal/adapters/driven/config/file"
	openaiembed "github.com/custodia-labs/resume-assistant/internal/adapters/driven/embedding/openai"
	openaillm "github.com/custodia-labs/resume-assistant/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/resume-assistant/internal/core/domain"
	"github.com/custodia-labs/resume-assistant/internal/core/ports/driven"
)

// ErrMissingAPIKey indicates no OpenAI API key was configured.
var ErrMissingAPIKey = errors.New("openai api key is required (set OPENAI_API_KEY or openai.api_key)")

// InitResult contains the AI services built from settings.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService // nil when only embedding was requested
	PromptStore      driven.PromptStore
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Init creates the embedding service, and the LLM service and prompt store
// when withLLM is true.
func Init(settings domain.Settings, withLLM bool) (*InitResult, error) {
	embedder, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, err
	}
	result := &InitResult{EmbeddingService: embedder}

	if withLLM {
		llm, err := CreateLLMService(settings)
		if err != nil {
			result.Close()
			return nil, err
		}
		result.LLMService = llm
		result.PromptStore = file.NewPromptStore(settings.Prompts.Dir)
	}

	return result, nil
}

// CreateEmbeddingService creates the OpenAI embedding service.
func CreateEmbeddingService(settings domain.Settings) (driven.EmbeddingService, error) {
	if settings.OpenAI.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:            settings.OpenAI.APIKey,
		BaseURL:           settings.OpenAI.BaseURL,
		Model:             settings.Embedding.Model,
		RequestsPerSecond: settings.Embedding.RequestsPerSecond,
	})
	if err != nil {
		return nil, fmt.Errorf("creating embedding service: %w", err)
	}
	return svc, nil
}

// CreateLLMService creates the OpenAI chat completion service.
func CreateLLMService(settings domain.Settings) (driven.LLMService, error) {
	if settings.LLM.Model == "" {
		return nil, domain.ErrMissingModelName
	}
	if settings.OpenAI.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	svc, err := openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.OpenAI.APIKey,
		BaseURL: settings.OpenAI.BaseURL,
		Model:   settings.LLM.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("creating llm service: %w", err)
	}
	return svc, nil
}
