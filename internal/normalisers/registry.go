package normalisers

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/resume-assistant/internal/core/domain"
	"github.com/custodia-labs/resume-assistant/internal/core/ports/driven"
	"github.com/custodia-labs/resume-assistant/internal/normalisers/docx"
	"github.com/custodia-labs/resume-assistant/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry maps lower-cased file extensions to their normaliser.
// Register is not safe for concurrent use; populate the registry before use.
type Registry struct {
	byExt map[string]driven.Normaliser
}

// NewRegistry creates an empty normaliser registry.
func NewRegistry() *Registry {
	return &Registry{
		byExt: make(map[string]driven.Normaliser),
	}
}

// NewDefaultRegistry creates a registry holding the plain text and DOCX normalisers.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// RegisterDefaults registers all built-in normalisers with the registry.
func RegisterDefaults(r driven.NormaliserRegistry) {
	r.Register(plaintext.New())
	r.Register(docx.New())
}

// Register adds a normaliser for each of its extensions.
// A later registration for the same extension replaces the earlier one.
func (r *Registry) Register(normaliser driven.Normaliser) {
	for _, ext := range normaliser.SupportedExtensions() {
		r.byExt[strings.ToLower(ext)] = normaliser
	}
}

// SupportedExtensions returns all registered extensions, sorted.
func (r *Registry) SupportedExtensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Normalise dispatches raw to the normaliser registered for its extension.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	normaliser, ok := r.byExt[strings.ToLower(raw.Extension)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (%s)", domain.ErrUnsupportedType, raw.Extension, raw.Path)
	}
	return normaliser.Normalise(ctx, raw)
}
