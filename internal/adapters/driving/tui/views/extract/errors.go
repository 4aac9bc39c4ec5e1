package extract

import "errors"

// Error definitions for the extract view.
var (
	// ErrNoExtractOrchestrator indicates that no extract orchestrator was provided.
	ErrNoExtractOrchestrator = errors.New("extract orchestrator is required")

	// ErrNoSourceService indicates that no source service was provided.
	ErrNoSourceService = errors.New("source service is required")
)
