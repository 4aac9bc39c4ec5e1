package driven

import (
	"context"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
)

// PostProcessor reworks extracted records before they are persisted.
// PostProcessors are chained in a pipeline (e.g., trimming, tagging).
//
// Processors run only in the persisting path; the lazy loader surface
// hands records through untouched.
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes the records extracted from one blob and returns
	// the reworked batch. Processors may drop, modify or add records
	// but must preserve the relative order of those they keep.
	Process(ctx context.Context, records []domain.Record) ([]domain.Record, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the records through all processors in order.
	// Returns the final records after all processing.
	Process(ctx context.Context, records []domain.Record) ([]domain.Record, error)
}
