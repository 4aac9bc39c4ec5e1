package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driven"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driving"
)

// Ensure RecordsService implements the interface.
var _ driving.RecordsService = (*RecordsService)(nil)

// RecordsService provides access to extracted records.
type RecordsService struct {
	recordStore driven.RecordStore
	sourceStore driven.SourceStore
}

// NewRecordsService creates a new records service.
func NewRecordsService(recordStore driven.RecordStore, sourceStore driven.SourceStore) *RecordsService {
	return &RecordsService{
		recordStore: recordStore,
		sourceStore: sourceStore,
	}
}

// ListBySource returns records for a source in extraction order.
func (s *RecordsService) ListBySource(ctx context.Context, sourceID string, limit, offset int) ([]domain.StoredRecord, error) {
	if s.recordStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.recordStore.ListRecords(ctx, sourceID, limit, offset)
}

// Get retrieves a record by ID.
func (s *RecordsService) Get(ctx context.Context, recordID string) (*domain.StoredRecord, error) {
	if s.recordStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.recordStore.GetRecord(ctx, recordID)
}

// GetDetails returns a source-agnostic view of a record for display.
func (s *RecordsService) GetDetails(ctx context.Context, recordID string) (*driving.RecordDetails, error) {
	if s.recordStore == nil {
		return nil, domain.ErrNotImplemented
	}

	rec, err := s.recordStore.GetRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}

	// Source lookup is best-effort; a purged source leaves the names blank
	var sourceName, sourceType string
	if s.sourceStore != nil {
		source, err := s.sourceStore.Get(ctx, rec.SourceID)
		if err == nil && source != nil {
			sourceName = source.DisplayName()
			sourceType = source.Type
		}
	}

	// Flatten metadata to string map
	metadata := make(map[string]string)
	for key, value := range rec.Metadata {
		metadata[key] = fmt.Sprintf("%v", value)
	}

	return &driving.RecordDetails{
		ID:            rec.ID,
		SourceID:      rec.SourceID,
		SourceName:    sourceName,
		SourceType:    sourceType,
		Origin:        rec.Origin,
		Preview:       preview(rec.Content),
		ContentLength: len(rec.Content),
		CreatedAt:     rec.CreatedAt,
		Metadata:      metadata,
	}, nil
}

// Count returns the number of records stored for a source.
func (s *RecordsService) Count(ctx context.Context, sourceID string) (int, error) {
	if s.recordStore == nil {
		return 0, domain.ErrNotImplemented
	}
	return s.recordStore.CountRecords(ctx, sourceID)
}

// Purge removes all records for a source.
func (s *RecordsService) Purge(ctx context.Context, sourceID string) error {
	if s.recordStore == nil {
		return domain.ErrNotImplemented
	}
	return s.recordStore.DeleteRecords(ctx, sourceID)
}

// previewLength caps how much of a record's first line is shown.
const previewLength = 120

// preview returns the first line of content, trimmed for display.
func preview(content string) string {
	first, _, _ := strings.Cut(content, "\n")
	first = strings.TrimSpace(first)
	if runes := []rune(first); len(runes) > previewLength {
		first = string(runes[:previewLength]) + "…"
	}
	return first
}
