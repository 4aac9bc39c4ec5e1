package driven

import (
	"context"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
)

// RecordStore persists extracted records.
// Backed by SQLite for local storage.
type RecordStore interface {
	// SaveRecords stores a batch of records, preserving order.
	SaveRecords(ctx context.Context, records []domain.StoredRecord) error

	// GetRecord retrieves a record by ID.
	GetRecord(ctx context.Context, id string) (*domain.StoredRecord, error)

	// ListRecords returns records for a source, in extraction order.
	ListRecords(ctx context.Context, sourceID string, limit, offset int) ([]domain.StoredRecord, error)

	// ListRecordsByRun returns records produced by a run, in extraction order.
	ListRecordsByRun(ctx context.Context, runID string) ([]domain.StoredRecord, error)

	// CountRecords returns the number of records for a source.
	CountRecords(ctx context.Context, sourceID string) (int, error)

	// DeleteRecords removes all records for a source.
	DeleteRecords(ctx context.Context, sourceID string) error

	// DeleteRecordsByOrigin removes a source's records extracted from
	// one origin. Used when a watched origin changes or disappears.
	DeleteRecordsByOrigin(ctx context.Context, sourceID, origin string) error
}
