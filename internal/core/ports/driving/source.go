package driving

import (
	"context"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
)

// SourceService manages source configurations.
type SourceService interface {
	// Add creates a new source configuration.
	Add(ctx context.Context, source domain.SourceConfig) error

	// Get retrieves a source by ID.
	Get(ctx context.Context, id string) (*domain.SourceConfig, error)

	// List returns all configured sources.
	List(ctx context.Context) ([]domain.SourceConfig, error)

	// Update modifies an existing source configuration.
	Update(ctx context.Context, source domain.SourceConfig) error

	// Remove deletes a source along with its extracted records and
	// run history.
	Remove(ctx context.Context, id string) error

	// ValidateConfig validates source configuration for a source type.
	// Returns an error if required fields are missing or invalid.
	ValidateConfig(ctx context.Context, sourceType string, config map[string]string) error
}
