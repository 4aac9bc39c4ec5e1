package postprocessors

import (
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driven"
	"github.com/custodia-labs/gleaner-cli/internal/postprocessors/tag"
	"github.com/custodia-labs/gleaner-cli/internal/postprocessors/trim"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register("trim", buildTrim)
	r.Register("tag", buildTag)
}

// buildTrim creates a trim processor from generic config.
// Supported config keys:
//   - drop_empty (bool): Drop records whose content trims to nothing (default: false)
func buildTrim(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []trim.Option

	if cfg != nil {
		if getBoolFromConfig(cfg, "drop_empty") {
			opts = append(opts, trim.WithDropEmpty(true))
		}
	}

	return trim.New(opts...), nil
}

// buildTag creates a tag processor from generic config.
// Supported config keys:
//   - tags ([]string): Labels stamped onto every record's metadata
func buildTag(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []tag.Option

	if cfg != nil {
		if tags := getStringSliceFromConfig(cfg, "tags"); len(tags) > 0 {
			opts = append(opts, tag.WithTags(tags...))
		}
	}

	return tag.New(opts...), nil
}

// getBoolFromConfig safely extracts a bool from generic config map.
func getBoolFromConfig(cfg map[string]any, key string) bool {
	val, ok := cfg[key].(bool)
	return ok && val
}

// getStringSliceFromConfig safely extracts a string slice from generic
// config. Handles []string and []any that may come from TOML parsing.
func getStringSliceFromConfig(cfg map[string]any, key string) []string {
	switch v := cfg[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
