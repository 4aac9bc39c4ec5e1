// Package tag provides a record processor that stamps static labels
// onto record metadata.
package tag

import (
	"context"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
)

// Processor stamps a fixed set of tags onto every record under
// domain.MetaTags. It implements the PostProcessor interface.
type Processor struct {
	tags []string
}

// Option configures the tag processor.
type Option func(*Processor)

// WithTags sets the labels stamped onto each record.
func WithTags(tags ...string) Option {
	return func(p *Processor) {
		p.tags = tags
	}
}

// New creates a new tag processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "tag"
}

// Process stamps the configured tags onto each record. Metadata maps
// are copied, not mutated: records share their maps with whoever
// produced them.
func (p *Processor) Process(_ context.Context, records []domain.Record) ([]domain.Record, error) {
	if len(p.tags) == 0 {
		return records, nil
	}

	out := make([]domain.Record, len(records))
	for i, rec := range records {
		meta := make(map[string]any, len(rec.Metadata)+1)
		for k, v := range rec.Metadata {
			meta[k] = v
		}
		meta[domain.MetaTags] = append([]string(nil), p.tags...)
		rec.Metadata = meta
		out[i] = rec
	}
	return out, nil
}
