package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/resume-assistant/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from an optional override directory.
// A prompt named "answer_system" is read from <dir>/answer_system.txt;
// missing files fall back to the embedded defaults.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
}

// defaultPrompts contains embedded default prompts.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptAnswerSystem: `You are an AI Resume Assistant representing the candidate whose resume material is provided as context. Your role is to help users understand the candidate's experience, projects, and technical skills.

Primarily base your answers on the provided resume context. You may add light, positive phrasing to give a good professional impression of the candidate, but do not invent specific facts that are not supported by the context.

If the context does not contain the information needed to answer a question, respond with: "I'm not sure, please refer to the resume for details."

Keep responses concise, factual, and professional.`,

	driven.PromptAnswerHuman: `Context:
{context}

User Question: {question}

Respond naturally as if you're the AI version of the candidate introducing their experience.`,
}

// NewPromptStore creates a prompt store.
// An empty promptDir serves only the embedded defaults.
// The constructor does not perform any I/O.
func NewPromptStore(promptDir string) *PromptStore {
	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}
}

// DefaultPrompt returns the embedded prompt for name.
func DefaultPrompt(name string) (string, bool) {
	p, ok := defaultPrompts[name]
	return p, ok
}

// Load returns the prompt template for the given name.
// Returns cached value if available, otherwise loads from file.
// Falls back to embedded default if the file doesn't exist.
func (s *PromptStore) Load(name string) (string, error) {
	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	prompt, err := s.loadFromFile(name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("load prompt %q: %w", name, err)
		}
		defaultPrompt, ok := defaultPrompts[name]
		if !ok {
			return "", fmt.Errorf("load prompt %q: no override and no default", name)
		}
		prompt = defaultPrompt
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// loadFromFile reads a prompt override from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	if s.promptDir == "" {
		return "", fs.ErrNotExist
	}
	data, err := os.ReadFile(filepath.Join(s.promptDir, name+".txt"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
