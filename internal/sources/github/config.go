package github

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
)

// Config holds the parsed configuration for a GitHub source.
type Config struct {
	// Owner and Repo identify the repository.
	Owner string
	Repo  string

	// Ref is the branch, tag or commit to list. Empty means the
	// repository's default branch.
	Ref string

	// FilePatterns are glob patterns for file filtering.
	// Empty means all files.
	FilePatterns []string

	// Token is the personal access token. Optional for public
	// repositories.
	Token string
}

// ParseConfig parses a source's config map into a Config struct.
// Only "repo" is required, in "owner/name" form.
func ParseConfig(source domain.SourceConfig) (*Config, error) {
	repo, ok := source.Config["repo"]
	if !ok || strings.TrimSpace(repo) == "" {
		return nil, fmt.Errorf("%w: github source requires a repo", domain.ErrConfiguration)
	}

	owner, name, found := strings.Cut(strings.TrimSpace(repo), "/")
	if !found || owner == "" || name == "" {
		return nil, fmt.Errorf("%w: repo must be owner/name, got %q", domain.ErrConfiguration, repo)
	}

	cfg := &Config{
		Owner: owner,
		Repo:  name,
		Ref:   strings.TrimSpace(source.Config["ref"]),
		Token: source.Config["token"],
	}

	if patterns, ok := source.Config["glob"]; ok && patterns != "" {
		cfg.FilePatterns = parsePatterns(patterns)
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
