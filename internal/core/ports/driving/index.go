package driving

import (
	"context"

	"github.com/custodia-labs/resume-assistant/internal/core/domain"
)

// IndexService prepares the vector index at startup.
type IndexService interface {
	// Ensure loads a valid cached index or rebuilds it.
	// When force is true the cache is ignored and always rebuilt.
	Ensure(ctx context.Context, force bool) (domain.IndexReport, error)
}
