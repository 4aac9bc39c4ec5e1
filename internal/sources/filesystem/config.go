package filesystem

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
)

// Config holds the parsed configuration for a filesystem source.
type Config struct {
	// Root is the directory to enumerate. Required.
	Root string

	// IncludePatterns are glob patterns for file filtering.
	// Empty means all files.
	IncludePatterns []string

	// ExcludePatterns are glob patterns for files and directories to
	// skip. Matching directories are not descended into.
	ExcludePatterns []string

	// FollowHidden includes dot-files and descends into dot-directories.
	FollowHidden bool

	// MaxBlobSize skips files larger than this many bytes. Zero means
	// no limit.
	MaxBlobSize int64
}

// ParseConfig parses a source's config map into a Config struct.
// Only "path" is required.
func ParseConfig(source domain.SourceConfig) (*Config, error) {
	root, ok := source.Config["path"]
	if !ok || strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("%w: filesystem source requires a path", domain.ErrConfiguration)
	}

	cfg := &Config{Root: strings.TrimSpace(root)}

	if patterns, ok := source.Config["glob"]; ok && patterns != "" {
		cfg.IncludePatterns = parsePatterns(patterns)
	}
	if patterns, ok := source.Config["exclude"]; ok && patterns != "" {
		cfg.ExcludePatterns = parsePatterns(patterns)
	}

	if raw, ok := source.Config["follow_hidden"]; ok && raw != "" {
		follow, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: follow_hidden must be true or false, got %q", domain.ErrConfiguration, raw)
		}
		cfg.FollowHidden = follow
	}

	if raw, ok := source.Config["max_blob_size"]; ok && raw != "" {
		size, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || size < 0 {
			return nil, fmt.Errorf("%w: max_blob_size must be a non-negative integer, got %q", domain.ErrConfiguration, raw)
		}
		cfg.MaxBlobSize = size
	}

	return cfg, nil
}

// parsePatterns parses a comma-separated glob patterns string.
func parsePatterns(s string) []string {
	parts := strings.Split(s, ",")
	patterns := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			patterns = append(patterns, part)
		}
	}
	return patterns
}

// matchesPatterns checks if a path matches any of the glob patterns.
// Patterns are tried against the base name and the full relative path.
func matchesPatterns(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}

	for _, pattern := range patterns {
		matched, err := filepath.Match(pattern, filepath.Base(relPath))
		if err == nil && matched {
			return true
		}
		matched, err = filepath.Match(pattern, relPath)
		if err == nil && matched {
			return true
		}
	}
	return false
}
