package gcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
)

func TestParseConfig(t *testing.T) {
	t.Run("parses valid config with all fields", func(t *testing.T) {
		source := domain.SourceConfig{
			ID:   "test-source",
			Type: "gcs",
			Config: map[string]string{
				"bucket":        "my-bucket",
				"prefix":        "exports/",
				"glob":          "*.csv,*.jsonl",
				"token":         "ya29.token",
				"anonymous":     "false",
				"max_blob_size": "1048576",
			},
		}

		cfg, err := ParseConfig(source)

		require.NoError(t, err)
		assert.Equal(t, "my-bucket", cfg.Bucket)
		assert.Equal(t, "exports/", cfg.Prefix)
		assert.Equal(t, []string{"*.csv", "*.jsonl"}, cfg.IncludePatterns)
		assert.Equal(t, "ya29.token", cfg.Token)
		assert.False(t, cfg.Anonymous)
		assert.Equal(t, int64(1048576), cfg.MaxBlobSize)
	})

	t.Run("parses minimal config with defaults", func(t *testing.T) {
		source := domain.SourceConfig{
			Config: map[string]string{"bucket": "my-bucket"},
		}

		cfg, err := ParseConfig(source)

		require.NoError(t, err)
		assert.Equal(t, "my-bucket", cfg.Bucket)
		assert.Empty(t, cfg.Prefix)
		assert.Empty(t, cfg.IncludePatterns)
		assert.False(t, cfg.Anonymous)
		assert.Zero(t, cfg.MaxBlobSize)
	})

	t.Run("returns error when bucket is missing", func(t *testing.T) {
		_, err := ParseConfig(domain.SourceConfig{Config: map[string]string{}})

		assert.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})

	t.Run("parses anonymous flag", func(t *testing.T) {
		cfg, err := ParseConfig(domain.SourceConfig{
			Config: map[string]string{"bucket": "b", "anonymous": "true"},
		})

		require.NoError(t, err)
		assert.True(t, cfg.Anonymous)
	})

	t.Run("rejects invalid anonymous flag", func(t *testing.T) {
		_, err := ParseConfig(domain.SourceConfig{
			Config: map[string]string{"bucket": "b", "anonymous": "maybe"},
		})

		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})

	t.Run("rejects invalid max_blob_size", func(t *testing.T) {
		_, err := ParseConfig(domain.SourceConfig{
			Config: map[string]string{"bucket": "b", "max_blob_size": "lots"},
		})

		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})
}

func TestMatchesPatterns(t *testing.T) {
	t.Run("matches with empty patterns", func(t *testing.T) {
		assert.True(t, matchesPatterns("any/object.csv", nil))
	})

	t.Run("matches base name", func(t *testing.T) {
		assert.True(t, matchesPatterns("exports/2026/data.csv", []string{"*.csv"}))
		assert.False(t, matchesPatterns("exports/2026/data.json", []string{"*.csv"}))
	})

	t.Run("matches full object name", func(t *testing.T) {
		assert.True(t, matchesPatterns("exports/data.csv", []string{"exports/*"}))
		assert.False(t, matchesPatterns("archive/data.csv", []string{"exports/*"}))
	})
}
