package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/resume-assistant/internal/core/domain"
	"github.com/custodia-labs/resume-assistant/internal/core/ports/driven"
)

// mockRegistry normalises .txt and .docx files by returning their bytes as text.
type mockRegistry struct {
	failPath string
}

func (r *mockRegistry) Register(driven.Normaliser) {}

func (r *mockRegistry) SupportedExtensions() []string { return []string{".docx", ".txt"} }

func (r *mockRegistry) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw.Path == r.failPath {
		return nil, &domain.DecodeError{Path: raw.Path, Err: errors.New("bad bytes")}
	}
	return &driven.NormaliseResult{
		Document: domain.SourceDocument{Content: string(raw.Content), SourcePath: raw.Path},
	}, nil
}

// mockEmbedder maps text to a deterministic 3-dimensional vector and counts calls.
type mockEmbedder struct {
	calls      atomic.Int64
	batchCalls atomic.Int64
	err        error
	vectors    map[string][]float32
	lastQuery  atomic.Value // string passed to Embed
}

func (e *mockEmbedder) vector(text string) []float32 {
	if v, ok := e.vectors[text]; ok {
		return v
	}
	return []float32{float32(len(text)), float32(strings.Count(text, " ") + 1), 1}
}

func (e *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.calls.Add(1)
	e.lastQuery.Store(text)
	if e.err != nil {
		return nil, e.err
	}
	return e.vector(text), nil
}

func (e *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.calls.Add(1)
	e.batchCalls.Add(1)
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.vector(t)
	}
	return out, nil
}

func (e *mockEmbedder) ModelName() string { return "mock-embed" }
func (e *mockEmbedder) Close() error      { return nil }

// mockIndex is a minimal VectorIndex returning its chunks in order.
type mockIndex struct {
	chunks  []domain.Chunk
	vectors [][]float32
	err     error
	lastK   atomic.Int64
}

func (x *mockIndex) Search(_ context.Context, _ []float32, k int) ([]driven.VectorHit, error) {
	x.lastK.Store(int64(k))
	if x.err != nil {
		return nil, x.err
	}
	hits := make([]driven.VectorHit, 0, k)
	for i := 0; i < len(x.chunks) && i < k; i++ {
		hits = append(hits, driven.VectorHit{Chunk: x.chunks[i], Similarity: 1 - float64(i)/10})
	}
	return hits, nil
}

func (x *mockIndex) Chunks() []domain.Chunk { return x.chunks }
func (x *mockIndex) Vectors() [][]float32   { return x.vectors }
func (x *mockIndex) Dimension() int {
	if len(x.vectors) == 0 {
		return 0
	}
	return len(x.vectors[0])
}

// mockVectorStore keeps saved indexes in memory and writes a marker file
// so tests can observe what reached the cache directory.
type mockVectorStore struct {
	mu      sync.Mutex
	saved   map[string]*mockIndex
	loadErr error
	saveErr error
	saves   int
	loads   int
}

func newMockVectorStore() *mockVectorStore {
	return &mockVectorStore{saved: make(map[string]*mockIndex)}
}

func (s *mockVectorStore) Build(chunks []domain.Chunk, embeddings [][]float32) (driven.VectorIndex, error) {
	if len(chunks) != len(embeddings) {
		return nil, domain.ErrInvalidInput
	}
	return &mockIndex{chunks: chunks, vectors: embeddings}, nil
}

func (s *mockVectorStore) Save(_ context.Context, index driven.VectorIndex, dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "index.mock"), []byte("index"), 0o644); err != nil {
		return err
	}
	s.saved[dir] = &mockIndex{chunks: index.Chunks(), vectors: index.Vectors()}
	return nil
}

func (s *mockVectorStore) Load(_ context.Context, dir string) (driven.VectorIndex, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	idx, ok := s.saved[dir]
	if !ok {
		return nil, fmt.Errorf("no index in %s", dir)
	}
	return idx, nil
}

// mockLLM records the messages it receives.
type mockLLM struct {
	mu       sync.Mutex
	response string
	err      error
	messages []driven.ChatMessage
	opts     driven.ChatOptions
}

func (l *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = messages
	l.opts = opts
	if l.err != nil {
		return "", l.err
	}
	return l.response, nil
}

func (l *mockLLM) ModelName() string { return "mock-llm" }
func (l *mockLLM) Close() error      { return nil }

// mockPrompts serves fixed templates.
type mockPrompts struct {
	system string
	human  string
	err    error
}

func (p *mockPrompts) Load(name string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	switch name {
	case driven.PromptAnswerSystem:
		return p.system, nil
	case driven.PromptAnswerHuman:
		return p.human, nil
	}
	return "", fmt.Errorf("unknown prompt %s", name)
}

// mockMetrics records every measurement.
type mockMetrics struct {
	mu       sync.Mutex
	answers  []string
	ready    []domain.CacheState
	events   []string
	lastSize int
}

func (m *mockMetrics) ObserveAnswer(outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answers = append(m.answers, outcome)
}

func (m *mockMetrics) IndexReady(state domain.CacheState, chunks int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ready = append(m.ready, state)
	m.lastSize = chunks
}

func (m *mockMetrics) CacheEvent(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, reason)
}

// writeFile creates dir/name with content, creating parents.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
