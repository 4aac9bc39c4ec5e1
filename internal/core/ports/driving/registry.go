package driving

import "github.com/custodia-labs/gleaner-cli/internal/core/domain"

// SourceTypeRegistry exposes the source types this build supports.
// Used by the CLI and TUI to drive add-source forms and by the
// SourceService to validate configuration.
type SourceTypeRegistry interface {
	// Types returns metadata for all supported source types.
	Types() []domain.SourceType

	// Get returns metadata for one source type.
	// Returns ErrUnsupportedType for unknown IDs.
	Get(id string) (*domain.SourceType, error)

	// ValidateConfig checks config against the type's declared keys.
	ValidateConfig(sourceType string, config map[string]string) error
}
