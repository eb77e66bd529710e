package driven

import (
	"context"

	"github.com/custodia-labs/resume-assistant/internal/core/domain"
)

// Normaliser extracts plain text from one file format.
type Normaliser interface {
	// SupportedExtensions returns the lower-cased extensions this normaliser handles.
	SupportedExtensions() []string

	// Normalise transforms raw file bytes into a source document.
	// Undecodable input fails with a *domain.DecodeError.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
// Note: Normalisation only produces text. Chunking is handled by the Splitter.
type NormaliseResult struct {
	// Document is the extracted source document.
	Document domain.SourceDocument
}

// NormaliserRegistry dispatches raw documents to the normaliser for their extension.
type NormaliserRegistry interface {
	// Normalise transforms a raw document using the normaliser for its extension.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// SupportedExtensions returns all extensions that can be normalised, sorted.
	SupportedExtensions() []string
}

// Splitter cuts a source document into overlapping chunks.
type Splitter interface {
	// Split returns the chunks covering doc in offset order.
	Split(doc domain.SourceDocument) []domain.Chunk
}
