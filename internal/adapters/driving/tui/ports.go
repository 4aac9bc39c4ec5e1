// Package tui provides an interactive terminal user interface for gleaner.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Extract orchestrates record extraction.
	Extract driving.ExtractOrchestrator

	// Source manages source configurations.
	Source driving.SourceService

	// Records provides access to extracted records.
	Records driving.RecordsService

	// Settings manages application settings.
	Settings driving.SettingsService

	// SourceTypes provides available source types.
	SourceTypes driving.SourceTypeRegistry
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	extract driving.ExtractOrchestrator,
	source driving.SourceService,
	records driving.RecordsService,
	settings driving.SettingsService,
	sourceTypes driving.SourceTypeRegistry,
) *Ports {
	return &Ports{
		Extract:     extract,
		Source:      source,
		Records:     records,
		Settings:    settings,
		SourceTypes: sourceTypes,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Extract == nil {
		return ErrMissingExtractOrchestrator
	}
	if p.Source == nil {
		return ErrMissingSourceService
	}
	if p.Records == nil {
		return ErrMissingRecordsService
	}
	return nil
}
