package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driven"
)

// Ensure RecordStore implements the interface.
var _ driven.RecordStore = (*RecordStore)(nil)

// RecordStore is an in-memory implementation of driven.RecordStore.
// Records are kept in insertion order, which is extraction order.
type RecordStore struct {
	mu      sync.RWMutex
	records []domain.StoredRecord
	index   map[string]int
}

// NewRecordStore creates a new in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{
		index: make(map[string]int),
	}
}

// SaveRecords stores a batch of records, preserving order.
func (s *RecordStore) SaveRecords(_ context.Context, records []domain.StoredRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		if pos, ok := s.index[rec.ID]; ok {
			s.records[pos] = rec
			continue
		}
		s.index[rec.ID] = len(s.records)
		s.records = append(s.records, rec)
	}
	return nil
}

// GetRecord retrieves a record by ID.
func (s *RecordStore) GetRecord(_ context.Context, id string) (*domain.StoredRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pos, ok := s.index[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	rec := s.records[pos]
	return &rec, nil
}

// ListRecords returns records for a source, in extraction order.
// limit <= 0 means no limit.
func (s *RecordStore) ListRecords(_ context.Context, sourceID string, limit, offset int) ([]domain.StoredRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.StoredRecord
	skipped := 0
	for _, rec := range s.records {
		if rec.SourceID != sourceID {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		result = append(result, rec)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

// ListRecordsByRun returns records produced by a run, in extraction order.
func (s *RecordStore) ListRecordsByRun(_ context.Context, runID string) ([]domain.StoredRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.StoredRecord
	for _, rec := range s.records {
		if rec.RunID == runID {
			result = append(result, rec)
		}
	}
	return result, nil
}

// CountRecords returns the number of records for a source.
func (s *RecordStore) CountRecords(_ context.Context, sourceID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, rec := range s.records {
		if rec.SourceID == sourceID {
			count++
		}
	}
	return count, nil
}

// DeleteRecords removes all records for a source.
func (s *RecordStore) DeleteRecords(_ context.Context, sourceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drop(func(rec *domain.StoredRecord) bool {
		return rec.SourceID == sourceID
	})
	return nil
}

// DeleteRecordsByOrigin removes a source's records extracted from one origin.
func (s *RecordStore) DeleteRecordsByOrigin(_ context.Context, sourceID, origin string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drop(func(rec *domain.StoredRecord) bool {
		return rec.SourceID == sourceID && rec.Origin == origin
	})
	return nil
}

// drop removes matching records and rebuilds the index. Caller holds
// the write lock.
func (s *RecordStore) drop(match func(*domain.StoredRecord) bool) {
	kept := s.records[:0]
	for i := range s.records {
		if match(&s.records[i]) {
			delete(s.index, s.records[i].ID)
			continue
		}
		kept = append(kept, s.records[i])
	}
	s.records = kept
	for i := range s.records {
		s.index[s.records[i].ID] = i
	}
}
