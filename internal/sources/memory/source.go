// Package memory implements an in-memory blob source.
//
// It serves blobs handed to it at construction time, in insertion
// order. Useful for composing loaders over payloads that already live
// in memory, and as a lightweight double in tests.
package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driven"
)

// Ensure Source implements the interfaces.
var (
	_ driven.Source  = (*Source)(nil)
	_ driven.Counter = (*Source)(nil)
)

// Source enumerates a fixed set of in-memory blobs.
type Source struct {
	blobs []domain.Blob

	mu     sync.Mutex
	closed bool
}

// New creates a source over the given blobs. The slice is copied, so
// later mutation by the caller does not affect enumeration.
func New(blobs ...domain.Blob) *Source {
	copied := make([]domain.Blob, len(blobs))
	copy(copied, blobs)
	return &Source{blobs: copied}
}

// Type returns the source type identifier.
func (s *Source) Type() string {
	return "memory"
}

// Validate reports whether the source is usable.
func (s *Source) Validate(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrSourceClosed
	}
	return nil
}

// Blobs returns an iterator over the blobs in insertion order.
func (s *Source) Blobs(_ context.Context) driven.BlobIterator {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return driven.FailBlobs(domain.ErrSourceClosed)
	}
	return driven.BlobsFrom(s.blobs)
}

// Count returns the number of blobs without enumerating them.
func (s *Source) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, domain.ErrSourceClosed
	}
	return len(s.blobs), nil
}

// Close releases resources. Idempotent.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
