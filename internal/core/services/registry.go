package services

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driving"
)

// Ensure SourceTypeRegistry implements the interface.
var _ driving.SourceTypeRegistry = (*SourceTypeRegistry)(nil)

// SourceTypeRegistry provides information about available source types.
type SourceTypeRegistry struct {
	types map[string]domain.SourceType
}

// NewSourceTypeRegistry creates a new registry with built-in source types.
func NewSourceTypeRegistry() *SourceTypeRegistry {
	r := &SourceTypeRegistry{
		types: make(map[string]domain.SourceType),
	}
	r.registerBuiltinTypes()
	return r
}

func (r *SourceTypeRegistry) registerBuiltinTypes() {
	r.registerFilesystem()
	r.registerMemory()
	r.registerGitHub()
	r.registerGCS()
}

func (r *SourceTypeRegistry) registerFilesystem() {
	r.types["filesystem"] = domain.SourceType{
		ID:          "filesystem",
		Name:        "Local Filesystem",
		Description: "Extract records from files in a local directory",
		AuthMethod:  domain.AuthMethodNone,
		ConfigKeys:  filesystemConfigKeys(),
	}
}

func filesystemConfigKeys() []domain.ConfigKey {
	return []domain.ConfigKey{
		{
			Key:         "path",
			Label:       "Directory Path",
			Description: "Path to the directory to scan",
			Required:    true,
		},
		{
			Key:         "glob",
			Label:       "File Patterns",
			Description: "Glob patterns to match (e.g., *.md,*.csv)",
		},
		{
			Key:         "exclude",
			Label:       "Exclude Patterns",
			Description: "Glob patterns for files and directories to skip",
		},
		{
			Key:         "follow_hidden",
			Label:       "Include Hidden",
			Description: "Include hidden files and directories (true/false)",
			Default:     "false",
		},
		{
			Key:         "max_blob_size",
			Label:       "Max File Size",
			Description: "Skip files larger than this many bytes",
		},
	}
}

func (r *SourceTypeRegistry) registerMemory() {
	r.types["memory"] = domain.SourceType{
		ID:          "memory",
		Name:        "In-Memory",
		Description: "Extract records from content stored in the source configuration",
		AuthMethod:  domain.AuthMethodNone,
		ConfigKeys:  memoryConfigKeys(),
	}
}

func memoryConfigKeys() []domain.ConfigKey {
	return []domain.ConfigKey{
		{
			Key:         "content",
			Label:       "Content",
			Description: "Payload to extract records from",
			Required:    true,
		},
		{
			Key:         "origin",
			Label:       "Origin",
			Description: "Logical name for the content (default \"memory\")",
		},
		{
			Key:         "mime_type",
			Label:       "Content Type",
			Description: "MIME type hint (e.g., text/csv)",
		},
		{
			Key:         "encoding",
			Label:       "Encoding",
			Description: "Character encoding as an IANA name (UTF-8 when empty)",
		},
	}
}

func (r *SourceTypeRegistry) registerGitHub() {
	r.types["github"] = domain.SourceType{
		ID:          "github",
		Name:        "GitHub",
		Description: "Extract records from files in a GitHub repository",
		AuthMethod:  domain.AuthMethodToken,
		ConfigKeys:  githubConfigKeys(),
	}
}

func githubConfigKeys() []domain.ConfigKey {
	return []domain.ConfigKey{
		{
			Key:         "repo",
			Label:       "Repository",
			Description: "Repository in owner/name form",
			Required:    true,
		},
		{
			Key:         "ref",
			Label:       "Ref",
			Description: "Branch, tag or commit SHA (default branch when empty)",
		},
		{
			Key:         "glob",
			Label:       "File Patterns",
			Description: "Glob patterns for files to include",
			Default:     "*",
		},
		{
			Key:         "token",
			Label:       "Access Token",
			Description: "Personal access token (unauthenticated works for public repos)",
			Secret:      true,
		},
	}
}

func (r *SourceTypeRegistry) registerGCS() {
	r.types["gcs"] = domain.SourceType{
		ID:          "gcs",
		Name:        "Google Cloud Storage",
		Description: "Extract records from objects in a GCS bucket",
		AuthMethod:  domain.AuthMethodToken,
		ConfigKeys:  gcsConfigKeys(),
	}
}

func gcsConfigKeys() []domain.ConfigKey {
	return []domain.ConfigKey{
		{
			Key:         "bucket",
			Label:       "Bucket",
			Description: "Bucket to enumerate",
			Required:    true,
		},
		{
			Key:         "prefix",
			Label:       "Object Prefix",
			Description: "Restrict the listing to names with this prefix",
		},
		{
			Key:         "glob",
			Label:       "Object Patterns",
			Description: "Glob patterns for objects to include",
		},
		{
			Key:         "token",
			Label:       "Access Token",
			Description: "OAuth token (application default credentials when empty)",
			Secret:      true,
		},
		{
			Key:         "anonymous",
			Label:       "Anonymous Access",
			Description: "Disable authentication, public buckets only (true/false)",
			Default:     "false",
		},
		{
			Key:         "max_blob_size",
			Label:       "Max Object Size",
			Description: "Skip objects larger than this many bytes",
		},
	}
}

// Types returns metadata for all supported source types, sorted by ID.
func (r *SourceTypeRegistry) Types() []domain.SourceType {
	result := make([]domain.SourceType, 0, len(r.types))
	for _, t := range r.types {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Get returns metadata for one source type.
func (r *SourceTypeRegistry) Get(id string) (*domain.SourceType, error) {
	t, ok := r.types[id]
	if !ok {
		return nil, fmt.Errorf("%w: unknown source type %q", domain.ErrUnsupportedType, id)
	}
	return &t, nil
}

// ValidateConfig checks config against the type's declared keys.
func (r *SourceTypeRegistry) ValidateConfig(sourceType string, config map[string]string) error {
	t, ok := r.types[sourceType]
	if !ok {
		return fmt.Errorf("%w: unknown source type %q", domain.ErrUnsupportedType, sourceType)
	}

	var missing []string
	for _, key := range t.ConfigKeys {
		if !key.Required {
			continue
		}
		if value, exists := config[key.Key]; !exists || value == "" {
			missing = append(missing, key.Key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required config keys: %v", domain.ErrInvalidInput, missing)
	}
	return nil
}
