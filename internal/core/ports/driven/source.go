package driven

import (
	"context"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
)

// Source enumerates blobs from a backing store.
// Each source type (filesystem, gcs, github, etc.) implements this interface.
type Source interface {
	// Type returns the source type identifier.
	Type() string

	// Validate checks if the source is properly configured.
	// Performs a lightweight check to verify the source is ready to
	// enumerate. For API sources, this typically makes a test call.
	// For filesystem, this checks the path exists and is readable.
	// Returns an error wrapping domain.ErrConfiguration otherwise.
	Validate(ctx context.Context) error

	// Blobs returns a lazy iterator over the source's blobs, in the
	// backing store's natural listing order. Enumeration lists origins
	// only; each blob carries a deferred opener and its payload stays
	// at the origin until a consumer reads it.
	Blobs(ctx context.Context) BlobIterator

	// Close releases resources. Iterators obtained before Close must
	// not be used afterwards.
	Close() error
}

// Counter is implemented by sources that can report how many blobs
// enumeration would yield, without reading any payloads.
// Discovered by type assertion.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// Watcher is implemented by sources that can push change events.
// Discovered by type assertion.
type Watcher interface {
	// Watch listens for changes until ctx is cancelled. The returned
	// channel is closed when watching stops.
	Watch(ctx context.Context) (<-chan domain.BlobChange, error)
}
