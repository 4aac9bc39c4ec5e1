package driven

import (
	"context"
	"errors"
	"io"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
)

// RecordIterator yields records one at a time. Next returns io.EOF
// once the sequence is exhausted; any other error ends the iteration
// at that point. Nothing is produced ahead of the caller: stopping
// early costs only the items already requested.
//
// Iterators are single-use. To restart, obtain a fresh iterator from
// the operation that produced this one.
type RecordIterator interface {
	// Next returns the next record. io.EOF signals normal exhaustion.
	Next(ctx context.Context) (domain.Record, error)

	// Close releases resources held by the iterator. Idempotent, and
	// safe to call without draining.
	Close() error
}

// BlobIterator yields blobs one at a time, under the same contract as
// RecordIterator. Enumerating blobs must not resolve their payloads.
type BlobIterator interface {
	// Next returns the next blob. io.EOF signals normal exhaustion.
	Next(ctx context.Context) (domain.Blob, error)

	// Close releases resources held by the iterator. Idempotent.
	Close() error
}

// CollectRecords drains an iterator into a slice and closes it. On
// failure the records gathered before the error are returned alongside
// it, so callers keep partial results.
func CollectRecords(ctx context.Context, it RecordIterator) ([]domain.Record, error) {
	defer it.Close()

	var out []domain.Record
	for {
		rec, err := it.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, err
		}
		out = append(out, rec)
	}
}

// CollectBlobs drains a blob iterator into a slice and closes it,
// preserving partial results on failure.
func CollectBlobs(ctx context.Context, it BlobIterator) ([]domain.Blob, error) {
	defer it.Close()

	var out []domain.Blob
	for {
		blob, err := it.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, err
		}
		out = append(out, blob)
	}
}

// RecordsFrom wraps a slice in a RecordIterator. Used for composition
// and tests.
func RecordsFrom(records []domain.Record) RecordIterator {
	return &sliceRecordIterator{records: records}
}

type sliceRecordIterator struct {
	records []domain.Record
	pos     int
}

func (s *sliceRecordIterator) Next(ctx context.Context) (domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return domain.Record{}, err
	}
	if s.pos >= len(s.records) {
		return domain.Record{}, io.EOF
	}
	rec := s.records[s.pos]
	s.pos++
	return rec, nil
}

func (s *sliceRecordIterator) Close() error { return nil }

// FailRecords returns a RecordIterator whose first Next reports err.
// Lets operations that cannot return an error directly surface one at
// consumption time instead.
func FailRecords(err error) RecordIterator {
	return &failRecordIterator{err: err}
}

type failRecordIterator struct {
	err error
}

func (f *failRecordIterator) Next(ctx context.Context) (domain.Record, error) {
	return domain.Record{}, f.err
}

func (f *failRecordIterator) Close() error { return nil }

// FailBlobs returns a BlobIterator whose first Next reports err.
func FailBlobs(err error) BlobIterator {
	return &failBlobIterator{err: err}
}

type failBlobIterator struct {
	err error
}

func (f *failBlobIterator) Next(ctx context.Context) (domain.Blob, error) {
	return domain.Blob{}, f.err
}

func (f *failBlobIterator) Close() error { return nil }

// BlobsFrom wraps a slice in a BlobIterator.
func BlobsFrom(blobs []domain.Blob) BlobIterator {
	return &sliceBlobIterator{blobs: blobs}
}

type sliceBlobIterator struct {
	blobs []domain.Blob
	pos   int
}

func (s *sliceBlobIterator) Next(ctx context.Context) (domain.Blob, error) {
	if err := ctx.Err(); err != nil {
		return domain.Blob{}, err
	}
	if s.pos >= len(s.blobs) {
		return domain.Blob{}, io.EOF
	}
	blob := s.blobs[s.pos]
	s.pos++
	return blob, nil
}

func (s *sliceBlobIterator) Close() error { return nil }
