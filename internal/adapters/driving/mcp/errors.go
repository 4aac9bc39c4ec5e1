// Package mcp provides an MCP (Model Context Protocol) server adapter for Gleaner.
// It enables AI assistants like Claude to extract and browse records from local data sources.
package mcp

import "errors"

// ErrMissingExtractOrchestrator is returned when the extract orchestrator is not provided.
var ErrMissingExtractOrchestrator = errors.New("mcp: extract orchestrator is required")
