package plaintext

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/resume-assistant/internal/core/domain"
	"github.com/custodia-labs/resume-assistant/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

var errInvalidUTF8 = errors.New("content is not valid UTF-8")

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedExtensions returns the extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".txt"}
}

// lineEndings folds CRLF and lone CR to LF.
var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Normalise returns the full file content as the document text with line
// endings folded to LF. The content must be valid UTF-8.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	if !utf8.Valid(raw.Content) {
		return nil, &domain.DecodeError{Path: raw.Path, Err: errInvalidUTF8}
	}

	return &driven.NormaliseResult{
		Document: domain.SourceDocument{
			Content:    lineEndings.Replace(string(raw.Content)),
			SourcePath: raw.Path,
		},
	}, nil
}
