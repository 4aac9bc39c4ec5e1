package domain

// ExtractionSettings holds extraction behaviour configuration.
type ExtractionSettings struct {
	// DefaultEncoding is assumed for blobs carrying no encoding hint.
	// Empty means UTF-8.
	DefaultEncoding string

	// FollowHidden includes hidden files when scanning directories.
	FollowHidden bool

	// MaxBlobSize caps payloads resolved in full, in bytes.
	// Zero means no cap. Oversized blobs are skipped, not failed.
	MaxBlobSize int64
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Extraction holds extraction behaviour settings.
	Extraction ExtractionSettings

	// Pipeline holds post-processor pipeline settings.
	Pipeline PipelineConfig
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Extraction: ExtractionSettings{
			DefaultEncoding: "",
			FollowHidden:    false,
			MaxBlobSize:     0,
		},
		Pipeline: DefaultPipelineConfig(),
	}
}

// PipelineConfig holds post-processor pipeline configuration.
// Uses generic map-based config for extensibility - new processors can
// be added without modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	// Key is processor name, value is processor-specific config.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// DefaultPipelineConfig returns the default pipeline configuration.
// Works out-of-the-box with the trim processor using sensible defaults.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Processors: []string{"trim"},
		ProcessorConfigs: map[string]map[string]any{
			"trim": {
				"drop_empty": false,
			},
		},
	}
}
