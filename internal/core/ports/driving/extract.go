package driving

import (
	"context"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
)

// ExtractOrchestrator coordinates record extraction from configured sources.
type ExtractOrchestrator interface {
	// Extract runs the pipeline for a source: enumerate blobs, parse
	// them into records, post-process, persist. Fails fast on the
	// first error; records persisted before the failure are kept.
	Extract(ctx context.Context, sourceID string) error

	// ExtractAll runs extraction for all configured sources.
	ExtractAll(ctx context.Context) error

	// Loader returns a lazy loader over a configured source. Nothing
	// is enumerated, parsed or persisted until the loader is consumed.
	Loader(ctx context.Context, sourceID string) (Loader, error)

	// Status returns extraction status for a source.
	Status(ctx context.Context, sourceID string) (*ExtractStatus, error)

	// Runs returns recent extraction runs for a source, newest first.
	Runs(ctx context.Context, sourceID string, limit int) ([]domain.ExtractionRun, error)

	// Watch extracts changes as the source reports them, until ctx is
	// cancelled. Returns ErrUnsupportedType when the source cannot
	// watch. The returned channel is closed when watching stops.
	Watch(ctx context.Context, sourceID string) (<-chan WatchEvent, error)
}

// ExtractStatus represents the current state of an extraction.
type ExtractStatus struct {
	// SourceID identifies the source.
	SourceID string

	// Running indicates if extraction is currently in progress.
	Running bool

	// BlobsSeen is the count of blobs enumerated so far.
	BlobsSeen int

	// RecordsExtracted is the count of records produced so far.
	RecordsExtracted int

	// LastError is the most recent failure message, if any.
	LastError string
}

// WatchEvent reports one change handled during a watch session.
type WatchEvent struct {
	// Change is the originating source event.
	Change domain.BlobChange

	// RecordsExtracted is how many records the change produced.
	// Zero for deletions.
	RecordsExtracted int

	// Err is set when handling the change failed. The watch session
	// continues; a change that cannot be parsed is reported, not fatal.
	Err error
}
