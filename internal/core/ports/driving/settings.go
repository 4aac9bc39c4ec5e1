package driving

import "github.com/custodia-labs/gleaner-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetDefaultEncoding updates the encoding assumed for blobs that
	// carry no hint. Rejects names the charset index does not know.
	SetDefaultEncoding(encoding string) error

	// SetFollowHidden toggles hidden-file scanning.
	SetFollowHidden(follow bool) error

	// SetMaxBlobSize caps payloads resolved in full, in bytes.
	// Zero removes the cap.
	SetMaxBlobSize(size int64) error

	// SetPipeline updates the post-processor pipeline configuration.
	SetPipeline(cfg domain.PipelineConfig) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// Validate checks if current settings are consistent.
	Validate() error

	// SetToken stores an access token for a source type.
	SetToken(sourceType, token string) error

	// Token returns the stored access token for a source type, or ""
	// when none is configured.
	Token(sourceType string) (string, error)

	// ClearToken removes the stored token for a source type.
	ClearToken(sourceType string) error
}
