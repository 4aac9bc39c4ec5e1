// Package domain defines the core business entities for Gleaner.
//
// This package is part of the hexagonal architecture's innermost layer.
// It defines the fundamental types:
//
//   - Blob: Raw content by reference, with a lazily resolved payload
//   - Record: A unit of extracted content plus metadata
//   - SourceConfig: A configured data source
//   - ExtractionRun: One execution of the extraction pipeline
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. All other packages depend on
// domain, never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library, golang.org/x/text (charset decoding)
//   - Cannot Import: Any internal/ package, any other external dependency
package domain
