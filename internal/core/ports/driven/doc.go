// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Source: Enumerates blobs from a data source
//   - SourceFactory: Creates sources from configuration
//   - Parser: Turns a blob into records
//   - ParserRegistry: Selects the appropriate parser per blob
//   - RecordStore: Extracted record persistence
//   - SourceStore: Source configuration persistence
//   - RunStore: Extraction run persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// Capabilities discovered by type assertion; absence degrades gracefully:
//
//   - Counter: Source can report its blob count without reading payloads
//   - Watcher: Source can push change events
//
// A ProgressSink may be nil, meaning no progress reporting.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, source, or parser package
package driven
