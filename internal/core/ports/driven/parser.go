package driven

import (
	"context"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
)

// Parser turns a single blob into records. Each parser handles
// specific MIME types (e.g., CSV, JSON Lines).
//
// All parsing configuration is fixed at construction; the blob is the
// only per-call input. Parsers hold no mutable state, so one instance
// may parse any number of blobs, concurrently or repeatedly.
type Parser interface {
	// MIMETypes returns the MIME types this parser handles.
	MIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Source-specific parsers are reserved 90-100.
	// Generic format parsers should return 50-89.
	// Fallback parsers should return 1-9.
	Priority() int

	// Parse returns a lazy iterator over the blob's records. The blob
	// payload is not resolved until the first Next call, and parsing a
	// blob never mutates it: calling Parse again yields the same
	// records from the start.
	Parse(blob domain.Blob) RecordIterator
}

// ParseAll eagerly drains parser.Parse(blob) into a slice. Convenient
// for small payloads; for large blobs iterate instead, since every
// record is held in memory at once.
func ParseAll(ctx context.Context, p Parser, blob domain.Blob) ([]domain.Record, error) {
	return CollectRecords(ctx, p.Parse(blob))
}
