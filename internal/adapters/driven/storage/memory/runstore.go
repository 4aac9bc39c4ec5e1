package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore is an in-memory implementation of driven.RunStore.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]domain.ExtractionRun
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]domain.ExtractionRun),
	}
}

// Save stores or updates a run.
func (s *RunStore) Save(_ context.Context, run domain.ExtractionRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
	return nil
}

// Get retrieves a run by ID.
func (s *RunStore) Get(_ context.Context, id string) (*domain.ExtractionRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &run, nil
}

// ListBySource returns runs for a source, most recent first.
// limit <= 0 means no limit.
func (s *RunStore) ListBySource(_ context.Context, sourceID string, limit int) ([]domain.ExtractionRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.ExtractionRun
	for _, run := range s.runs {
		if run.SourceID == sourceID {
			result = append(result, run)
		}
	}
	return truncateRuns(result, limit), nil
}

// List returns recent runs across all sources, most recent first.
// limit <= 0 means no limit.
func (s *RunStore) List(_ context.Context, limit int) ([]domain.ExtractionRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.ExtractionRun, 0, len(s.runs))
	for _, run := range s.runs {
		result = append(result, run)
	}
	return truncateRuns(result, limit), nil
}

// DeleteBySource removes run history for a source.
func (s *RunStore) DeleteBySource(_ context.Context, sourceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, run := range s.runs {
		if run.SourceID == sourceID {
			delete(s.runs, id)
		}
	}
	return nil
}

// truncateRuns sorts runs newest first and applies the limit.
func truncateRuns(runs []domain.ExtractionRun, limit int) []domain.ExtractionRun {
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs
}
