package domain

import "fmt"

// Default settings values.
const (
	DefaultDocumentsDir       = "resumeMaterial"
	DefaultCacheDir           = "vector_cache"
	DefaultChunkSize          = 1000
	DefaultChunkOverlap       = 150
	DefaultTopK               = 3
	DefaultBaseURL            = "https://api.openai.com/v1"
	DefaultEmbeddingModel     = "text-embedding-3-small"
	DefaultEmbeddingBatchSize = 64
	DefaultEmbeddingWorkers   = 4
	DefaultEmbeddingRateLimit = 5.0
	DefaultServerAddr         = ":8000"
	DefaultLLMTemperature     = 0.0
)

// Settings is the typed configuration resolved once at startup.
type Settings struct {
	Documents DocumentsSettings
	Cache     CacheSettings
	Chunking  ChunkingSettings
	Retrieval RetrievalSettings
	LLM       LLMSettings
	OpenAI    OpenAISettings
	Embedding EmbeddingSettings
	Server    ServerSettings
	Prompts   PromptSettings
}

// DocumentsSettings locates the resume material.
type DocumentsSettings struct {
	Dir string
}

// CacheSettings locates the persisted vector index.
type CacheSettings struct {
	Dir string
}

// ChunkingSettings configures the chunk splitter.
type ChunkingSettings struct {
	Size    int
	Overlap int
}

// RetrievalSettings configures the query answerer.
type RetrievalSettings struct {
	TopK int
}

// LLMSettings configures the completion model.
type LLMSettings struct {
	// Model is required and has no default.
	Model string

	// Temperature defaults to 0.
	Temperature float64
}

// OpenAISettings holds the API credentials shared by embedding and completion.
type OpenAISettings struct {
	APIKey  string
	BaseURL string
}

// EmbeddingSettings configures the embedding client and index builder.
type EmbeddingSettings struct {
	Model             string
	BatchSize         int
	Concurrency       int
	RequestsPerSecond float64
}

// ServerSettings configures the HTTP serving layer.
type ServerSettings struct {
	Addr           string
	AllowedOrigins []string
}

// PromptSettings locates optional prompt overrides.
type PromptSettings struct {
	// Dir is empty when only the embedded prompts are used.
	Dir string
}

// DefaultSettings returns settings with every documented default applied.
// The LLM model is left empty because it has no default.
func DefaultSettings() Settings {
	return Settings{
		Documents: DocumentsSettings{Dir: DefaultDocumentsDir},
		Cache:     CacheSettings{Dir: DefaultCacheDir},
		Chunking:  ChunkingSettings{Size: DefaultChunkSize, Overlap: DefaultChunkOverlap},
		Retrieval: RetrievalSettings{TopK: DefaultTopK},
		LLM:       LLMSettings{Temperature: DefaultLLMTemperature},
		OpenAI:    OpenAISettings{BaseURL: DefaultBaseURL},
		Embedding: EmbeddingSettings{
			Model:             DefaultEmbeddingModel,
			BatchSize:         DefaultEmbeddingBatchSize,
			Concurrency:       DefaultEmbeddingWorkers,
			RequestsPerSecond: DefaultEmbeddingRateLimit,
		},
		Server: ServerSettings{
			Addr:           DefaultServerAddr,
			AllowedOrigins: []string{"*"},
		},
	}
}

// Validate checks the settings needed to build the index and answer questions.
func (s Settings) Validate() error {
	if s.LLM.Model == "" {
		return ErrMissingModelName
	}
	return s.ValidateIndexing()
}

// ValidateIndexing checks only the settings needed to build the index.
func (s Settings) ValidateIndexing() error {
	if s.Chunking.Size <= 0 || s.Chunking.Overlap < 0 || s.Chunking.Overlap >= s.Chunking.Size {
		return fmt.Errorf("%w: size=%d overlap=%d", ErrInvalidChunkConfig, s.Chunking.Size, s.Chunking.Overlap)
	}
	if s.Retrieval.TopK <= 0 {
		return fmt.Errorf("%w: retrieval.top_k must be positive", ErrInvalidInput)
	}
	if s.Documents.Dir == "" || s.Cache.Dir == "" {
		return fmt.Errorf("%w: documents.dir and cache.dir are required", ErrInvalidInput)
	}
	if s.Embedding.BatchSize <= 0 || s.Embedding.Concurrency <= 0 {
		return fmt.Errorf("%w: embedding.batch_size and embedding.concurrency must be positive", ErrInvalidInput)
	}
	return nil
}
