package github

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
			Type: "github",
			Config: map[string]string{
				"repo":  "custodia-labs/gleaner-cli",
				"ref":   "main",
				"glob":  "*.go,*.md",
				"token": "ghp_secret",
			},
		}

		cfg, err := ParseConfig(source)

		require.NoError(t, err)
		assert.Equal(t, "custodia-labs", cfg.Owner)
		assert.Equal(t, "gleaner-cli", cfg.Repo)
		assert.Equal(t, "main", cfg.Ref)
		assert.Equal(t, []string{"*.go", "*.md"}, cfg.FilePatterns)
		assert.Equal(t, "ghp_secret", cfg.Token)
	})

	t.Run("parses minimal config with defaults", func(t *testing.T) {
		source := domain.SourceConfig{
			ID:     "test-source",
			Type:   "github",
			Config: map[string]string{"repo": "owner/name"},
		}

		cfg, err := ParseConfig(source)

		require.NoError(t, err)
		assert.Equal(t, "owner", cfg.Owner)
		assert.Equal(t, "name", cfg.Repo)
		assert.Empty(t, cfg.Ref)
		assert.Empty(t, cfg.FilePatterns)
		assert.Empty(t, cfg.Token)
	})

	t.Run("returns error when repo is missing", func(t *testing.T) {
		source := domain.SourceConfig{
			ID:     "test-source",
			Type:   "github",
			Config: map[string]string{},
		}

		cfg, err := ParseConfig(source)

		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})

	t.Run("returns error for repo without owner", func(t *testing.T) {
		source := domain.SourceConfig{
			ID:     "test-source",
			Type:   "github",
			Config: map[string]string{"repo": "just-a-name"},
		}

		_, err := ParseConfig(source)

		assert.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})

	t.Run("returns error for empty owner or name", func(t *testing.T) {
		for _, repo := range []string{"/name", "owner/", "/"} {
			_, err := ParseConfig(domain.SourceConfig{
				Config: map[string]string{"repo": repo},
			})
			assert.ErrorIs(t, err, domain.ErrConfiguration, "repo %q", repo)
		}
	})

	t.Run("trims whitespace around repo", func(t *testing.T) {
		source := domain.SourceConfig{
			Config: map[string]string{"repo": "  owner/name  "},
		}

		cfg, err := ParseConfig(source)

		require.NoError(t, err)
		assert.Equal(t, "owner", cfg.Owner)
		assert.Equal(t, "name", cfg.Repo)
	})
}

func TestMatchesPatterns(t *testing.T) {
	t.Run("matches with empty patterns", func(t *testing.T) {
		assert.True(t, matchesPatterns("any/path.go", nil))
		assert.True(t, matchesPatterns("any/path.go", []string{}))
		assert.True(t, matchesPatterns("any/path.go", []string{"*"}))
	})

	t.Run("matches extension patterns", func(t *testing.T) {
		patterns := []string{"*.go", "*.md"}

		assert.True(t, matchesPatterns("cmd/main.go", patterns))
		assert.True(t, matchesPatterns("README.md", patterns))
		assert.False(t, matchesPatterns("package.json", patterns))
	})

	t.Run("matches against full path", func(t *testing.T) {
		patterns := []string{"cmd/*"}

		assert.True(t, matchesPatterns("cmd/main.go", patterns))
		assert.False(t, matchesPatterns("internal/main.go", patterns))
	})
}

func TestIsBinaryExtension(t *testing.T) {
	t.Run("identifies binary extensions", func(t *testing.T) {
		assert.True(t, isBinaryExtension("file.exe"))
		assert.True(t, isBinaryExtension("file.png"))
		assert.True(t, isBinaryExtension("file.pdf"))
		assert.True(t, isBinaryExtension("file.zip"))
	})

	t.Run("identifies non-binary extensions", func(t *testing.T) {
		assert.False(t, isBinaryExtension("file.go"))
		assert.False(t, isBinaryExtension("file.md"))
		assert.False(t, isBinaryExtension("file.txt"))
		assert.False(t, isBinaryExtension("file.json"))
	})

	t.Run("handles uppercase extensions", func(t *testing.T) {
		assert.True(t, isBinaryExtension("file.PNG"))
		assert.True(t, isBinaryExtension("file.PDF"))
	})

	t.Run("handles files without extension", func(t *testing.T) {
		assert.False(t, isBinaryExtension("Makefile"))
		assert.False(t, isBinaryExtension("Dockerfile"))
	})
}

func TestDetectMIMEType(t *testing.T) {
	t.Run("detects common MIME types", func(t *testing.T) {
		assert.Equal(t, "text/markdown", detectMIMEType("README.md"))
		assert.Equal(t, "text/x-go", detectMIMEType("main.go"))
		assert.Equal(t, "text/yaml", detectMIMEType("config.yaml"))
		assert.Equal(t, "text/csv", detectMIMEType("data.csv"))
	})

	t.Run("defaults to text/plain", func(t *testing.T) {
		assert.Equal(t, "text/plain", detectMIMEType("LICENSE"))
		assert.Equal(t, "text/plain", detectMIMEType("file.unknownext"))
	})

	t.Run("typescript is not video", func(t *testing.T) {
		assert.Equal(t, "text/typescript", detectMIMEType("app.ts"))
	})
}
