package domain

// AuthMethod defines how a source authenticates.
type AuthMethod string

const (
	// AuthMethodNone requires no authentication (e.g., filesystem).
	AuthMethodNone AuthMethod = "none"
	// AuthMethodToken uses an access token from application settings.
	AuthMethodToken AuthMethod = "token"
)

// SourceType describes a supported source implementation.
type SourceType struct {
	// ID is the unique identifier (e.g., "filesystem", "gcs", "github").
	ID string
	// Name is the human-readable display name.
	Name string
	// Description provides a brief explanation of the source.
	Description string
	// AuthMethod specifies how the source authenticates.
	AuthMethod AuthMethod
	// ConfigKeys lists the configuration fields accepted by this source.
	ConfigKeys []ConfigKey
}

// RequiresAuth returns true if this source requires authentication.
func (t *SourceType) RequiresAuth() bool {
	return t.AuthMethod != AuthMethodNone
}

// ConfigKey describes a configuration field for a source.
type ConfigKey struct {
	// Key is the configuration key name.
	Key string
	// Label is the human-readable label for UI display.
	Label string
	// Description explains what this field is for.
	Description string
	// Default is the default value for this field (shown in placeholder).
	Default string
	// Required indicates whether this field must be provided.
	Required bool
	// Secret indicates whether this field should be masked in UI (e.g., tokens).
	Secret bool
}
