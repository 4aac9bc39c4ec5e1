package sources

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driven"
	"github.com/custodia-labs/gleaner-cli/internal/sources/filesystem"
	"github.com/custodia-labs/gleaner-cli/internal/sources/gcs"
	"github.com/custodia-labs/gleaner-cli/internal/sources/github"
	"github.com/custodia-labs/gleaner-cli/internal/sources/memory"
)

// Ensure Factory implements the interface.
var _ driven.SourceFactory = (*Factory)(nil)

// TokenLookup returns the stored access token for a source type, or
// "" when none is stored.
type TokenLookup func(sourceType string) (string, error)

// Factory builds sources from stored configurations.
type Factory struct {
	mu       sync.RWMutex
	builders map[string]driven.SourceBuilder
	tokens   TokenLookup
}

// NewFactory creates an empty factory.
func NewFactory() *Factory {
	return &Factory{builders: make(map[string]driven.SourceBuilder)}
}

// Defaults returns a factory with the built-in source types registered:
// filesystem, memory, github and gcs.
func Defaults() *Factory {
	f := NewFactory()
	f.Register("filesystem", func(cfg domain.SourceConfig) (driven.Source, error) {
		parsed, err := filesystem.ParseConfig(cfg)
		if err != nil {
			return nil, err
		}
		return filesystem.New(cfg.ID, parsed), nil
	})
	f.Register("github", func(cfg domain.SourceConfig) (driven.Source, error) {
		parsed, err := github.ParseConfig(cfg)
		if err != nil {
			return nil, err
		}
		return github.New(cfg.ID, parsed), nil
	})
	f.Register("gcs", func(cfg domain.SourceConfig) (driven.Source, error) {
		parsed, err := gcs.ParseConfig(cfg)
		if err != nil {
			return nil, err
		}
		return gcs.New(cfg.ID, parsed), nil
	})
	f.Register("memory", func(cfg domain.SourceConfig) (driven.Source, error) {
		blob, err := memory.ParseConfig(cfg)
		if err != nil {
			return nil, err
		}
		return memory.New(blob), nil
	})
	return f
}

// SetTokenLookup installs a fallback for access tokens. When a
// configuration carries no "token" key, Create consults the lookup for
// the source's type before building. A token set on the configuration
// always wins over the stored one.
func (f *Factory) SetTokenLookup(lookup TokenLookup) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = lookup
}

// Register adds a builder for a source type, replacing any existing one.
func (f *Factory) Register(sourceType string, builder driven.SourceBuilder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builders[sourceType] = builder
}

// Create builds a source for the configuration's type.
func (f *Factory) Create(_ context.Context, cfg domain.SourceConfig) (driven.Source, error) {
	f.mu.RLock()
	builder, ok := f.builders[cfg.Type]
	lookup := f.tokens
	f.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: unknown source type %q", domain.ErrUnsupportedType, cfg.Type)
	}
	if lookup != nil && cfg.Config["token"] == "" {
		token, err := lookup(cfg.Type)
		if err == nil && token != "" {
			// Copy so the caller's stored configuration stays untouched.
			withToken := make(map[string]string, len(cfg.Config)+1)
			for k, v := range cfg.Config {
				withToken[k] = v
			}
			withToken["token"] = token
			cfg.Config = withToken
		}
	}
	return builder(cfg)
}

// SupportedTypes returns the registered source types, sorted.
func (f *Factory) SupportedTypes() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	types := make([]string, 0, len(f.builders))
	for sourceType := range f.builders {
		types = append(types, sourceType)
	}
	sort.Strings(types)
	return types
}
