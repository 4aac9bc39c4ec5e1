package mcp

import (
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Extract runs extractions and builds ad-hoc loaders.
	Extract driving.ExtractOrchestrator

	// Source manages source configurations.
	Source driving.SourceService

	// Records provides access to extracted records.
	Records driving.RecordsService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Extract == nil {
		return ErrMissingExtractOrchestrator
	}
	// Source and Records are optional; the matching tools and
	// resources degrade to empty results.
	return nil
}
