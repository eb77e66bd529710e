// Package memory provides the in-process vector index.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/custodia-labs/resume-assistant/internal/core/domain"
	"github.com/custodia-labs/resume-assistant/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is a brute-force cosine similarity index held in memory.
// Vectors are L2-normalised on construction, so similarity is a dot product.
// An Index is read-only after NewIndex returns and is safe for concurrent use.
type Index struct {
	chunks  []domain.Chunk
	vectors [][]float32
	dim     int
}

// NewIndex builds an index from chunks and their embeddings.
// Both slices must have the same length and every vector the same dimension.
func NewIndex(chunks []domain.Chunk, embeddings [][]float32) (*Index, error) {
	if len(chunks) != len(embeddings) {
		return nil, fmt.Errorf("%w: %d chunks but %d embeddings", domain.ErrInvalidInput, len(chunks), len(embeddings))
	}

	idx := &Index{
		chunks:  slices.Clone(chunks),
		vectors: make([][]float32, len(embeddings)),
	}

	for i, vec := range embeddings {
		if i == 0 {
			if len(vec) == 0 {
				return nil, fmt.Errorf("%w: empty embedding", domain.ErrInvalidInput)
			}
			idx.dim = len(vec)
		}
		if len(vec) != idx.dim {
			return nil, fmt.Errorf("%w: embedding %d has %d dimensions, want %d",
				domain.ErrDimensionMismatch, i, len(vec), idx.dim)
		}
		idx.vectors[i] = normalise(vec)
	}

	return idx, nil
}

// Search returns up to k hits ordered by descending similarity.
// Equal scores keep insertion order.
func (x *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 || len(x.vectors) == 0 {
		return nil, nil
	}
	if len(query) != x.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, want %d",
			domain.ErrDimensionMismatch, len(query), x.dim)
	}

	q := normalise(query)
	hits := make([]driven.VectorHit, len(x.vectors))
	for i, vec := range x.vectors {
		hits[i] = driven.VectorHit{Chunk: x.chunks[i], Similarity: dot(q, vec)}
	}

	slices.SortStableFunc(hits, func(a, b driven.VectorHit) int {
		return cmp.Compare(b.Similarity, a.Similarity)
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Chunks returns the indexed chunks in insertion order.
func (x *Index) Chunks() []domain.Chunk {
	return x.chunks
}

// Vectors returns the normalised vectors aligned with Chunks.
func (x *Index) Vectors() [][]float32 {
	return x.vectors
}

// Dimension returns the vector size, or 0 for an empty index.
func (x *Index) Dimension() int {
	return x.dim
}

// Len returns the number of indexed chunks.
func (x *Index) Len() int {
	return len(x.chunks)
}

// normalise returns a unit-length copy of vec. A zero vector stays zero.
func normalise(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}

	out := make([]float32, len(vec))
	if sum == 0 {
		return out
	}

	norm := math.Sqrt(sum)
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
