// Package registry dispatches blobs to parsers by MIME type.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interfaces.
var (
	_ driven.Parser         = (*Registry)(nil)
	_ driven.ParserRegistry = (*Registry)(nil)
)

// Wildcard is the MIME key for fallback parsers that accept any blob.
const Wildcard = "*/*"

// Registry selects parsers by MIME type and priority. It is itself a
// Parser: Parse dispatches per blob, so a loader built around a single
// parser can be handed "all registered formats" instead.
//
// Registration order breaks priority ties: first registered wins.
type Registry struct {
	mu      sync.RWMutex
	parsers map[string][]driven.Parser
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{parsers: make(map[string][]driven.Parser)}
}

// Register adds a parser under each of its MIME types.
func (r *Registry) Register(parser driven.Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, mimeType := range parser.MIMETypes() {
		key := normaliseMIME(mimeType)
		if key == "" {
			continue
		}
		list := append(r.parsers[key], parser)
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Priority() > list[j].Priority()
		})
		r.parsers[key] = list
	}
}

// ParserFor returns the best matching parser for a MIME type.
// Unmatched types fall back to a Wildcard parser when one is
// registered; otherwise ErrUnsupportedType.
func (r *Registry) ParserFor(mimeType string) (driven.Parser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := normaliseMIME(mimeType)
	if list := r.parsers[key]; len(list) > 0 {
		return list[0], nil
	}
	if list := r.parsers[Wildcard]; len(list) > 0 {
		return list[0], nil
	}
	return nil, fmt.Errorf("%w: no parser for %q", domain.ErrUnsupportedType, mimeType)
}

// MIMETypes returns all MIME types with a registered parser, sorted.
func (r *Registry) MIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.parsers))
	for key := range r.parsers {
		types = append(types, key)
	}
	sort.Strings(types)
	return types
}

// Priority returns 0: registries dispatch, they are not candidates
// inside another registry.
func (r *Registry) Priority() int {
	return 0
}

// Parse dispatches the blob to the best matching parser. When nothing
// matches, the returned iterator reports ErrUnsupportedType on first
// Next, keeping dispatch failures on the same path as parse failures.
func (r *Registry) Parse(blob domain.Blob) driven.RecordIterator {
	parser, err := r.ParserFor(blob.MIMEType())
	if err != nil {
		return driven.FailRecords(err)
	}
	return parser.Parse(blob)
}

// normaliseMIME lowercases a media type and drops its parameters, so
// "Text/CSV; charset=utf-8" matches a parser registered for "text/csv".
func normaliseMIME(mimeType string) string {
	mimeType, _, _ = strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(mimeType))
}
