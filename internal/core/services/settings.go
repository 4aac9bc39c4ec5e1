package services

import (
	"fmt"

	"golang.org/x/text/encoding/ianaindex"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driven"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyDefaultEncoding    = "extraction.default_encoding"
	keyFollowHidden       = "extraction.follow_hidden"
	keyMaxBlobSize        = "extraction.max_blob_size"
	keyPipelineProcessors = "pipeline.processors"
)

// authTokenKey returns the config key holding the token for a source type.
func authTokenKey(sourceType string) string {
	return "auth." + sourceType + ".token"
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Extraction: domain.ExtractionSettings{
			// No default - empty means UTF-8
			DefaultEncoding: s.configStore.GetString(keyDefaultEncoding),
			FollowHidden:    s.getBool(keyFollowHidden, defaults.Extraction.FollowHidden),
			MaxBlobSize:     s.getInt64(keyMaxBlobSize, defaults.Extraction.MaxBlobSize),
		},
		Pipeline: s.GetPipelineConfig(),
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.configStore.Set(keyDefaultEncoding, settings.Extraction.DefaultEncoding); err != nil {
		return fmt.Errorf("save default encoding: %w", err)
	}
	if err := s.configStore.Set(keyFollowHidden, settings.Extraction.FollowHidden); err != nil {
		return fmt.Errorf("save follow hidden: %w", err)
	}
	if err := s.configStore.Set(keyMaxBlobSize, settings.Extraction.MaxBlobSize); err != nil {
		return fmt.Errorf("save max blob size: %w", err)
	}

	return s.savePipeline(settings.Pipeline)
}

// SetDefaultEncoding updates the encoding assumed for blobs without a hint.
// The name must be a registered IANA charset; empty means UTF-8.
func (s *SettingsService) SetDefaultEncoding(encoding string) error {
	if encoding != "" {
		enc, err := ianaindex.IANA.Encoding(encoding)
		if err != nil || enc == nil {
			return fmt.Errorf("%w: unknown encoding %q", domain.ErrInvalidInput, encoding)
		}
	}
	return s.configStore.Set(keyDefaultEncoding, encoding)
}

// SetFollowHidden toggles hidden-file scanning.
func (s *SettingsService) SetFollowHidden(follow bool) error {
	return s.configStore.Set(keyFollowHidden, follow)
}

// SetMaxBlobSize caps payloads resolved in full. Zero removes the cap.
func (s *SettingsService) SetMaxBlobSize(size int64) error {
	if size < 0 {
		return fmt.Errorf("%w: max blob size cannot be negative", domain.ErrInvalidInput)
	}
	return s.configStore.Set(keyMaxBlobSize, size)
}

// SetPipeline updates the post-processor pipeline configuration.
func (s *SettingsService) SetPipeline(cfg domain.PipelineConfig) error {
	for _, name := range cfg.Processors {
		if name == "" {
			return fmt.Errorf("%w: empty processor name in pipeline", domain.ErrInvalidInput)
		}
	}
	return s.savePipeline(cfg)
}

func (s *SettingsService) savePipeline(cfg domain.PipelineConfig) error {
	if err := s.configStore.Set(keyPipelineProcessors, cfg.Processors); err != nil {
		return fmt.Errorf("save pipeline processors: %w", err)
	}
	for _, name := range cfg.Processors {
		for key, value := range cfg.GetProcessorConfig(name) {
			if err := s.configStore.Set("pipeline."+name+"."+key, value); err != nil {
				return fmt.Errorf("save pipeline config %s.%s: %w", name, key, err)
			}
		}
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Validate checks if current settings are consistent.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if name := settings.Extraction.DefaultEncoding; name != "" {
		enc, err := ianaindex.IANA.Encoding(name)
		if err != nil || enc == nil {
			return fmt.Errorf("%w: unknown encoding %q", domain.ErrInvalidInput, name)
		}
	}
	if settings.Extraction.MaxBlobSize < 0 {
		return fmt.Errorf("%w: max blob size cannot be negative", domain.ErrInvalidInput)
	}

	return nil
}

// SetToken stores an access token for a source type.
func (s *SettingsService) SetToken(sourceType, token string) error {
	if sourceType == "" {
		return fmt.Errorf("%w: source type is required", domain.ErrInvalidInput)
	}
	if token == "" {
		return fmt.Errorf("%w: token is required", domain.ErrInvalidInput)
	}
	return s.configStore.Set(authTokenKey(sourceType), token)
}

// Token returns the stored access token for a source type, or "" when
// none is configured.
func (s *SettingsService) Token(sourceType string) (string, error) {
	if sourceType == "" {
		return "", fmt.Errorf("%w: source type is required", domain.ErrInvalidInput)
	}
	return s.configStore.GetString(authTokenKey(sourceType)), nil
}

// ClearToken removes the stored token for a source type.
func (s *SettingsService) ClearToken(sourceType string) error {
	if sourceType == "" {
		return fmt.Errorf("%w: source type is required", domain.ErrInvalidInput)
	}
	return s.configStore.Unset(authTokenKey(sourceType))
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getInt64(key string, defaultVal int64) int64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt64(key)
}

// GetPipelineConfig returns the post-processor pipeline configuration.
// Returns default configuration if nothing is configured.
func (s *SettingsService) GetPipelineConfig() domain.PipelineConfig {
	defaults := domain.DefaultPipelineConfig()

	// Try to load processors list from config
	if processors := s.configStore.GetStringSlice(keyPipelineProcessors); len(processors) > 0 {
		defaults.Processors = processors
	}

	// Load per-processor configs
	for _, name := range defaults.Processors {
		prefix := "pipeline." + name + "."
		cfg := s.loadProcessorConfig(prefix)
		if len(cfg) > 0 {
			if defaults.ProcessorConfigs == nil {
				defaults.ProcessorConfigs = make(map[string]map[string]any)
			}
			// Merge with existing defaults
			existing := defaults.ProcessorConfigs[name]
			if existing == nil {
				existing = make(map[string]any)
			}
			for k, v := range cfg {
				existing[k] = v
			}
			defaults.ProcessorConfigs[name] = existing
		}
	}

	return defaults
}

// loadProcessorConfig loads config keys with a given prefix into a map.
func (s *SettingsService) loadProcessorConfig(prefix string) map[string]any {
	cfg := make(map[string]any)

	// Check common processor config keys
	knownKeys := []string{"drop_empty", "tags"}
	for _, key := range knownKeys {
		fullKey := prefix + key
		if val, exists := s.configStore.Get(fullKey); exists {
			cfg[key] = val
		}
	}

	return cfg
}
