package driving

import (
	"context"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driven"
)

// Loader produces records on demand. A loader is bound to its input at
// construction and exposes three ways to consume the same sequence.
//
// LazyLoad is the primary surface; Load and Stream are derived views
// that yield identical records in identical order with identical
// failure behaviour.
type Loader interface {
	// LazyLoad returns a pull iterator over the loader's records.
	// Work happens per Next call; nothing is produced ahead of the
	// caller, so abandoning the iterator early skips the remaining
	// work entirely.
	LazyLoad(ctx context.Context) driven.RecordIterator

	// Load drains LazyLoad into a slice. Convenient for small inputs;
	// memory grows with the full result set, which is the caller's
	// responsibility to bound. On failure the records extracted before
	// the error are returned alongside it.
	Load(ctx context.Context) ([]domain.Record, error)

	// Stream drains LazyLoad on a goroutine and delivers records over
	// a channel. At most one error is sent, after which both channels
	// are closed. Cancel ctx to stop early.
	Stream(ctx context.Context) (<-chan domain.Record, <-chan error)
}
