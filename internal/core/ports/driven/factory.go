package driven

import (
	"context"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
)

// SourceBuilder creates a Source from a stored configuration.
type SourceBuilder func(cfg domain.SourceConfig) (Source, error)

// SourceFactory creates sources from stored configuration.
// It maintains a registry of source types and their builders.
type SourceFactory interface {
	// Create returns a Source for the given configuration.
	// Returns ErrUnsupportedType if the source type is unknown and
	// ErrConfiguration if the configuration is rejected by the builder.
	Create(ctx context.Context, cfg domain.SourceConfig) (Source, error)

	// Register adds a source builder for the given type.
	Register(sourceType string, builder SourceBuilder)

	// SupportedTypes returns all registered source types.
	SupportedTypes() []string
}
