package services

import (
	"context"
	"time"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driven"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driving"
)

// Ensure SourceService implements the interface.
var _ driving.SourceService = (*SourceService)(nil)

// SourceService manages source configurations.
type SourceService struct {
	sourceStore  driven.SourceStore
	recordStore  driven.RecordStore
	runStore     driven.RunStore
	typeRegistry driving.SourceTypeRegistry
}

// NewSourceService creates a new source service.
func NewSourceService(
	sourceStore driven.SourceStore,
	recordStore driven.RecordStore,
	runStore driven.RunStore,
) *SourceService {
	return &SourceService{
		sourceStore: sourceStore,
		recordStore: recordStore,
		runStore:    runStore,
	}
}

// SetTypeRegistry sets the source type registry for config validation.
func (s *SourceService) SetTypeRegistry(registry driving.SourceTypeRegistry) {
	s.typeRegistry = registry
}

// Add creates a new source configuration.
func (s *SourceService) Add(ctx context.Context, source domain.SourceConfig) error {
	if s.sourceStore == nil {
		return domain.ErrNotImplemented
	}
	if source.ID == "" || source.Type == "" {
		return domain.ErrInvalidInput
	}
	// Check if already exists
	existing, err := s.sourceStore.Get(ctx, source.ID)
	if err == nil && existing != nil {
		return domain.ErrAlreadyExists
	}
	if err := s.ValidateConfig(ctx, source.Type, source.Config); err != nil {
		return err
	}

	now := time.Now().UTC()
	source.CreatedAt = now
	source.UpdatedAt = now
	return s.sourceStore.Save(ctx, source)
}

// Get retrieves a source by ID.
func (s *SourceService) Get(ctx context.Context, id string) (*domain.SourceConfig, error) {
	if s.sourceStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.sourceStore.Get(ctx, id)
}

// List returns all configured sources.
func (s *SourceService) List(ctx context.Context) ([]domain.SourceConfig, error) {
	if s.sourceStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.sourceStore.List(ctx)
}

// Update modifies an existing source configuration.
func (s *SourceService) Update(ctx context.Context, source domain.SourceConfig) error {
	if s.sourceStore == nil {
		return domain.ErrNotImplemented
	}
	if source.ID == "" {
		return domain.ErrInvalidInput
	}
	// Verify source exists
	existing, err := s.sourceStore.Get(ctx, source.ID)
	if err != nil {
		return domain.ErrNotFound
	}
	if err := s.ValidateConfig(ctx, source.Type, source.Config); err != nil {
		return err
	}

	source.CreatedAt = existing.CreatedAt
	source.UpdatedAt = time.Now().UTC()
	return s.sourceStore.Save(ctx, source)
}

// Remove deletes a source along with its extracted records and run
// history.
func (s *SourceService) Remove(ctx context.Context, id string) error {
	if s.sourceStore == nil {
		return domain.ErrNotImplemented
	}
	// Cleanup: delete records, runs, then the source itself
	if s.recordStore != nil {
		//nolint:errcheck // Intentionally ignore errors to continue cleanup
		_ = s.recordStore.DeleteRecords(ctx, id)
	}
	if s.runStore != nil {
		//nolint:errcheck // Intentionally ignore errors to continue cleanup
		_ = s.runStore.DeleteBySource(ctx, id)
	}
	return s.sourceStore.Delete(ctx, id)
}

// ValidateConfig validates source configuration for a source type.
// Without a type registry every configuration passes; the source
// builder still rejects bad config at creation time.
func (s *SourceService) ValidateConfig(_ context.Context, sourceType string, config map[string]string) error {
	if s.typeRegistry == nil {
		return nil
	}
	return s.typeRegistry.ValidateConfig(sourceType, config)
}
