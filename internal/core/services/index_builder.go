package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/resume-assistant/internal/core/domain"
	"github.com/custodia-labs/resume-assistant/internal/core/ports/driven"
	"github.com/custodia-labs/resume-assistant/internal/logger"
)

// IndexBuilder embeds chunks and assembles a vector index.
type IndexBuilder struct {
	embedder    driven.EmbeddingService
	store       driven.VectorStore
	batchSize   int
	concurrency int
}

// NewIndexBuilder creates an index builder.
// Non-positive batchSize or concurrency fall back to the defaults.
func NewIndexBuilder(embedder driven.EmbeddingService, store driven.VectorStore, batchSize, concurrency int) *IndexBuilder {
	if batchSize <= 0 {
		batchSize = domain.DefaultEmbeddingBatchSize
	}
	if concurrency <= 0 {
		concurrency = domain.DefaultEmbeddingWorkers
	}
	return &IndexBuilder{
		embedder:    embedder,
		store:       store,
		batchSize:   batchSize,
		concurrency: concurrency,
	}
}

// Build embeds every chunk text and returns the index.
// Batches run concurrently up to the configured limit; the first failure
// cancels the rest and is returned. Nothing is retried.
func (b *IndexBuilder) Build(ctx context.Context, chunks []domain.Chunk) (driven.VectorIndex, error) {
	embeddings := make([][]float32, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for start := 0; start < len(chunks); start += b.batchSize {
		end := min(start+b.batchSize, len(chunks))
		g.Go(func() error {
			texts := make([]string, 0, end-start)
			for _, c := range chunks[start:end] {
				texts = append(texts, c.Text)
			}

			vectors, err := b.embedder.EmbedBatch(gctx, texts)
			if err != nil {
				return asExternal("embed", err)
			}
			if len(vectors) != len(texts) {
				return &domain.ExternalServiceError{
					Op:  "embed",
					Err: fmt.Errorf("got %d embeddings for %d texts", len(vectors), len(texts)),
				}
			}

			copy(embeddings[start:end], vectors)
			logger.Debug("Embedded chunks %d-%d of %d", start, end, len(chunks))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return b.store.Build(chunks, embeddings)
}

// asExternal wraps err as an ExternalServiceError unless it already is one.
func asExternal(op string, err error) error {
	if errors.Is(err, domain.ErrExternalService) {
		return err
	}
	return &domain.ExternalServiceError{Op: op, Err: err}
}
