package gcs

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
)

// Config holds the parsed configuration for a GCS source.
type Config struct {
	// Bucket is the bucket to enumerate. Required.
	Bucket string

	// Prefix restricts the listing to object names with this prefix.
	Prefix string

	// IncludePatterns are glob patterns for object filtering.
	// Empty means all objects.
	IncludePatterns []string

	// Token is an OAuth access token. When empty, application default
	// credentials are used, or anonymous access when Anonymous is set.
	Token string

	// Anonymous disables authentication entirely. Works for public
	// buckets only.
	Anonymous bool

	// MaxBlobSize skips objects larger than this many bytes. Zero
	// means no limit.
	MaxBlobSize int64
}

// ParseConfig parses a source's config map into a Config struct.
// Only "bucket" is required.
func ParseConfig(source domain.SourceConfig) (*Config, error) {
	bucket, ok := source.Config["bucket"]
	if !ok || strings.TrimSpace(bucket) == "" {
		return nil, fmt.Errorf("%w: gcs source requires a bucket", domain.ErrConfiguration)
	}

	cfg := &Config{
		Bucket: strings.TrimSpace(bucket),
		Prefix: source.Config["prefix"],
		Token:  source.Config["token"],
	}

	if patterns, ok := source.Config["glob"]; ok && patterns != "" {
		cfg.IncludePatterns = parsePatterns(patterns)
	}

	if raw, ok := source.Config["anonymous"]; ok && raw != "" {
		anonymous, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: anonymous must be true or false, got %q", domain.ErrConfiguration, raw)
		}
		cfg.Anonymous = anonymous
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

// matchesPatterns checks if an object name matches any of the glob
// patterns, tried against the base name and the full name.
func matchesPatterns(name string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}

	for _, pattern := range patterns {
		matched, err := filepath.Match(pattern, filepath.Base(name))
		if err == nil && matched {
			return true
		}
		matched, err = filepath.Match(pattern, name)
		if err == nil && matched {
			return true
		}
	}
	return false
}
