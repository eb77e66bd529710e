// Package chunker provides the fixed-window text splitter.
package chunker

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/custodia-labs/resume-assistant/internal/core/domain"
	"github.com/custodia-labs/resume-assistant/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.Splitter = (*Processor)(nil)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// chunkNamespace seeds the name-based chunk IDs.
var chunkNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("resume-assistant:chunk"))

// Processor splits document content into fixed-size overlapping windows.
// Sizes and offsets count characters (Unicode code points).
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		p.chunkSize = size
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		p.overlap = overlap
	}
}

// New creates a new chunker processor with the given options.
// The window must advance: size > 0 and 0 <= overlap < size.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.chunkSize <= 0 || p.overlap < 0 || p.overlap >= p.chunkSize {
		return nil, fmt.Errorf("%w: size=%d overlap=%d", domain.ErrInvalidChunkConfig, p.chunkSize, p.overlap)
	}

	return p, nil
}

// ChunkSize returns the configured window size.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured window overlap.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Split cuts doc into chunks covering its whole content.
// Consecutive chunks share exactly overlap characters, except that the last
// chunk ends at the end of the content. Empty content yields no chunks.
func (p *Processor) Split(doc domain.SourceDocument) []domain.Chunk {
	if doc.Content == "" {
		return nil
	}

	runes := []rune(doc.Content)
	n := len(runes)

	step := p.chunkSize - p.overlap
	chunks := make([]domain.Chunk, 0, n/step+1)

	start := 0
	for {
		end := min(start+p.chunkSize, n)

		chunks = append(chunks, domain.Chunk{
			ID:          chunkID(doc.SourcePath, start, end),
			Text:        string(runes[start:end]),
			SourcePath:  doc.SourcePath,
			StartOffset: start,
			EndOffset:   end,
		})

		if end == n {
			break
		}
		start = max(0, end-p.overlap)
	}

	return chunks
}

// chunkID derives a stable ID from the chunk's location.
func chunkID(path string, start, end int) string {
	name := path + ":" + strconv.Itoa(start) + ":" + strconv.Itoa(end)
	return uuid.NewSHA1(chunkNamespace, []byte(name)).String()
}
