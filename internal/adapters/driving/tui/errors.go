package tui

import "errors"

// ErrMissingExtractOrchestrator is returned when the extract orchestrator is not provided.
var ErrMissingExtractOrchestrator = errors.New("tui: extract orchestrator is required")

// ErrMissingSourceService is returned when the source service is not provided.
var ErrMissingSourceService = errors.New("tui: source service is required")

// ErrMissingRecordsService is returned when the records service is not provided.
var ErrMissingRecordsService = errors.New("tui: records service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
