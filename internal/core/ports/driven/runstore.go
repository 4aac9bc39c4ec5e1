package driven

import (
	"context"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
)

// RunStore persists extraction run history.
type RunStore interface {
	// Save stores or updates a run.
	Save(ctx context.Context, run domain.ExtractionRun) error

	// Get retrieves a run by ID.
	Get(ctx context.Context, id string) (*domain.ExtractionRun, error)

	// ListBySource returns runs for a source, most recent first.
	ListBySource(ctx context.Context, sourceID string, limit int) ([]domain.ExtractionRun, error)

	// List returns recent runs across all sources, most recent first.
	List(ctx context.Context, limit int) ([]domain.ExtractionRun, error)

	// DeleteBySource removes run history for a source.
	DeleteBySource(ctx context.Context, sourceID string) error
}
