package mcp

import (
	"context"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driving"
	"github.com/custodia-labs/gleaner-cli/internal/core/services"
	"github.com/custodia-labs/gleaner-cli/internal/parsers/line"
	"github.com/custodia-labs/gleaner-cli/internal/sources/memory"
)

// mockExtractOrchestrator is a mock implementation of driving.ExtractOrchestrator.
// Loader returns a real loader over the configured in-memory blobs.
type mockExtractOrchestrator struct {
	blobs []domain.Blob
	err   error
}

func (m *mockExtractOrchestrator) Extract(_ context.Context, _ string) error {
	return m.err
}

func (m *mockExtractOrchestrator) ExtractAll(_ context.Context) error {
	return m.err
}

func (m *mockExtractOrchestrator) Loader(_ context.Context, _ string) (driving.Loader, error) {
	if m.err != nil {
		return nil, m.err
	}
	return services.NewGenericLoader(memory.New(m.blobs...), line.New(), nil), nil
}

func (m *mockExtractOrchestrator) Status(_ context.Context, _ string) (*driving.ExtractStatus, error) {
	return nil, m.err
}

func (m *mockExtractOrchestrator) Runs(_ context.Context, _ string, _ int) ([]domain.ExtractionRun, error) {
	return nil, m.err
}

func (m *mockExtractOrchestrator) Watch(_ context.Context, _ string) (<-chan driving.WatchEvent, error) {
	return nil, m.err
}

// mockSourceService is a mock implementation of driving.SourceService.
type mockSourceService struct {
	sources []domain.SourceConfig
	source  *domain.SourceConfig
	err     error
}

func (m *mockSourceService) Add(_ context.Context, _ domain.SourceConfig) error {
	return m.err
}

func (m *mockSourceService) Get(_ context.Context, _ string) (*domain.SourceConfig, error) {
	return m.source, m.err
}

func (m *mockSourceService) List(_ context.Context) ([]domain.SourceConfig, error) {
	return m.sources, m.err
}

func (m *mockSourceService) Remove(_ context.Context, _ string) error {
	return m.err
}

func (m *mockSourceService) Update(_ context.Context, _ domain.SourceConfig) error {
	return m.err
}

func (m *mockSourceService) ValidateConfig(_ context.Context, _ string, _ map[string]string) error {
	return m.err
}

// mockRecordsService is a mock implementation of driving.RecordsService.
type mockRecordsService struct {
	records []domain.StoredRecord
	record  *domain.StoredRecord
	details *driving.RecordDetails
	count   int
	err     error
}

func (m *mockRecordsService) ListBySource(_ context.Context, _ string, _, _ int) ([]domain.StoredRecord, error) {
	return m.records, m.err
}

func (m *mockRecordsService) Get(_ context.Context, _ string) (*domain.StoredRecord, error) {
	return m.record, m.err
}

func (m *mockRecordsService) GetDetails(_ context.Context, _ string) (*driving.RecordDetails, error) {
	return m.details, m.err
}

func (m *mockRecordsService) Count(_ context.Context, _ string) (int, error) {
	return m.count, m.err
}

func (m *mockRecordsService) Purge(_ context.Context, _ string) error {
	return m.err
}
