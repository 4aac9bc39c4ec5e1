// Package trim provides a whitespace-trimming record processor.
package trim

import (
	"context"
	"strings"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
)

// Processor trims leading and trailing whitespace from record content.
// It implements the PostProcessor interface.
type Processor struct {
	dropEmpty bool
}

// Option configures the trim processor.
type Option func(*Processor)

// WithDropEmpty drops records whose content trims to nothing.
func WithDropEmpty(drop bool) Option {
	return func(p *Processor) {
		p.dropEmpty = drop
	}
}

// New creates a new trim processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "trim"
}

// Process trims each record's content, keeping record order. With
// drop_empty set, records left with no content are removed.
func (p *Processor) Process(_ context.Context, records []domain.Record) ([]domain.Record, error) {
	out := make([]domain.Record, 0, len(records))
	for _, rec := range records {
		rec.Content = strings.TrimSpace(rec.Content)
		if p.dropEmpty && rec.Content == "" {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
