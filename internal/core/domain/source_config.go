package domain

import "time"

// SourceConfig represents a configured, named data source.
// Each configured source produces blobs via a source implementation.
type SourceConfig struct {
	// ID is the unique identifier for the source.
	ID string

	// Type identifies the source implementation (e.g., "filesystem", "gcs").
	Type string

	// Name is the human-readable name for this source.
	Name string

	// Config contains source-specific configuration.
	Config map[string]string

	// CreatedAt is when the source was created.
	CreatedAt time.Time

	// UpdatedAt is when the source was last updated.
	UpdatedAt time.Time
}

// DisplayName returns the source name, falling back to the ID when the
// source was created without one.
func (s *SourceConfig) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}
