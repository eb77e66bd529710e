package driven

import (
	"context"

	"github.com/custodia-labs/resume-assistant/internal/core/domain"
)

// VectorIndex provides semantic similarity search over embedded chunks.
// An index is immutable once built, so concurrent searches need no locking.
type VectorIndex interface {
	// Search finds the k nearest chunks to the query vector, most similar first.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Chunks returns the indexed chunks in insertion order.
	Chunks() []domain.Chunk

	// Vectors returns the stored vectors, aligned with Chunks.
	Vectors() [][]float32

	// Dimension returns the vector size.
	Dimension() int
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// Chunk is the matched chunk.
	Chunk domain.Chunk

	// Similarity is the cosine similarity score.
	Similarity float64
}

// VectorStore builds vector indexes and moves them to and from disk.
type VectorStore interface {
	// Build creates an index from chunks and their embeddings (same length and order).
	Build(chunks []domain.Chunk, embeddings [][]float32) (VectorIndex, error)

	// Save writes the index into dir, replacing any previous index files.
	Save(ctx context.Context, index VectorIndex, dir string) error

	// Load reads the index previously saved into dir.
	Load(ctx context.Context, dir string) (VectorIndex, error)
}
