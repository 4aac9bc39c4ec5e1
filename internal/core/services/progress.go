package services

import "github.com/custodia-labs/gleaner-cli/internal/core/ports/driven"

// Ensure NopProgress implements the interface.
var _ driven.ProgressSink = NopProgress{}

// NopProgress is a ProgressSink that discards every event. Useful where
// an API requires a sink but nothing displays it.
type NopProgress struct{}

// Start does nothing.
func (NopProgress) Start(phase string, total int) {}

// Advance does nothing.
func (NopProgress) Advance(n int) {}

// Done does nothing.
func (NopProgress) Done() {}
