package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
)

// RecordsService provides access to extracted records.
type RecordsService interface {
	// ListBySource returns records for a source in extraction order.
	// limit <= 0 means no limit.
	ListBySource(ctx context.Context, sourceID string, limit, offset int) ([]domain.StoredRecord, error)

	// Get retrieves a record by ID.
	Get(ctx context.Context, recordID string) (*domain.StoredRecord, error)

	// GetDetails returns a source-agnostic view of a record for display.
	GetDetails(ctx context.Context, recordID string) (*RecordDetails, error)

	// Count returns the number of records stored for a source.
	Count(ctx context.Context, sourceID string) (int, error)

	// Purge removes all records for a source.
	Purge(ctx context.Context, sourceID string) error
}

// RecordDetails provides a standardised view of record metadata.
type RecordDetails struct {
	// ID is the unique record identifier.
	ID string

	// SourceID links to the parent source.
	SourceID string

	// SourceName is the human-readable source name.
	SourceName string

	// SourceType is the source type (e.g., "filesystem").
	SourceType string

	// Origin is the blob origin the record came from.
	Origin string

	// Preview is the first line of content, trimmed for display.
	Preview string

	// ContentLength is the content size in bytes.
	ContentLength int

	// CreatedAt is when the record was extracted.
	CreatedAt time.Time

	// Metadata contains flattened key-value pairs for display.
	Metadata map[string]string
}
