// Package postprocessors provides record processing implementations.
package postprocessors

import (
	"context"
	"fmt"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driven"
)

// Pipeline chains multiple PostProcessors and runs them in order.
// It implements the PostProcessorPipeline interface.
type Pipeline struct {
	processors []driven.PostProcessor
}

// NewPipeline creates a new processing pipeline with the given processors.
// Processors are executed in the order provided.
func NewPipeline(processors ...driven.PostProcessor) *Pipeline {
	return &Pipeline{
		processors: processors,
	}
}

// Process runs the records through all processors in order. Each
// processor receives the previous processor's output; the relative
// order of surviving records is preserved end to end.
func (p *Pipeline) Process(ctx context.Context, records []domain.Record) ([]domain.Record, error) {
	for _, processor := range p.processors {
		var err error
		records, err = processor.Process(ctx, records)
		if err != nil {
			return nil, fmt.Errorf("processor %s: %w", processor.Name(), err)
		}
	}

	return records, nil
}

// FromConfig builds a pipeline from configuration using the registry's
// builders. Unknown processor names fail construction rather than being
// skipped silently.
func FromConfig(r *Registry, cfg domain.PipelineConfig) (*Pipeline, error) {
	processors := make([]driven.PostProcessor, 0, len(cfg.Processors))
	for _, name := range cfg.Processors {
		proc, err := r.Build(name, cfg.GetProcessorConfig(name))
		if err != nil {
			return nil, err
		}
		processors = append(processors, proc)
	}
	return NewPipeline(processors...), nil
}

// Add appends a processor to the pipeline.
func (p *Pipeline) Add(processor driven.PostProcessor) {
	p.processors = append(p.processors, processor)
}

// Len returns the number of processors in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.processors)
}
