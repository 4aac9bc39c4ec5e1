package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gleaner-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driven"
	"github.com/custodia-labs/gleaner-cli/internal/parsers/line"
	memsource "github.com/custodia-labs/gleaner-cli/internal/sources/memory"
)

// --- Mock implementations for extract testing ---
// Note: These are prefixed with "extract" to avoid conflicts with
// loader_test.go mocks.

// extractMockFactory implements driven.SourceFactory for testing.
type extractMockFactory struct {
	sources   map[string]driven.Source
	createErr error
}

func newExtractMockFactory() *extractMockFactory {
	return &extractMockFactory{sources: make(map[string]driven.Source)}
}

func (f *extractMockFactory) Create(_ context.Context, cfg domain.SourceConfig) (driven.Source, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if src, ok := f.sources[cfg.ID]; ok {
		return src, nil
	}
	return nil, errors.New("no source configured for " + cfg.ID)
}

func (f *extractMockFactory) Register(_ string, _ driven.SourceBuilder) {}

func (f *extractMockFactory) SupportedTypes() []string { return []string{"mock"} }

// extractWatchSource implements driven.Source and driven.Watcher,
// replaying changes pushed into the changes channel.
type extractWatchSource struct {
	changes  chan domain.BlobChange
	watchErr error
	closed   bool
}

func newExtractWatchSource() *extractWatchSource {
	return &extractWatchSource{changes: make(chan domain.BlobChange)}
}

func (s *extractWatchSource) Type() string                     { return "mock" }
func (s *extractWatchSource) Validate(_ context.Context) error { return nil }

func (s *extractWatchSource) Blobs(_ context.Context) driven.BlobIterator {
	return driven.BlobsFrom(nil)
}

func (s *extractWatchSource) Watch(_ context.Context) (<-chan domain.BlobChange, error) {
	if s.watchErr != nil {
		return nil, s.watchErr
	}
	return s.changes, nil
}

func (s *extractWatchSource) Close() error {
	s.closed = true
	return nil
}

// extractTrimPipeline implements driven.PostProcessorPipeline: trims
// record content and drops records that end up empty.
type extractTrimPipeline struct{}

func (p *extractTrimPipeline) Process(_ context.Context, records []domain.Record) ([]domain.Record, error) {
	var out []domain.Record
	for _, rec := range records {
		trimmed := strings.TrimSpace(rec.Content)
		if trimmed == "" {
			continue
		}
		rec.Content = trimmed
		out = append(out, rec)
	}
	return out, nil
}

// --- Tests ---

func TestNewExtractService(t *testing.T) {
	service := NewExtractService(
		memory.NewSourceStore(), memory.NewRecordStore(), memory.NewRunStore(),
		newExtractMockFactory(), line.New(), nil,
	)

	require.NotNil(t, service)
	assert.NotNil(t, service.sourceStore)
	assert.NotNil(t, service.recordStore)
	assert.NotNil(t, service.runStore)
	assert.NotNil(t, service.active)
}

func TestExtractService_Extract_SourceNotFound(t *testing.T) {
	service := NewExtractService(
		memory.NewSourceStore(), memory.NewRecordStore(), memory.NewRunStore(),
		newExtractMockFactory(), line.New(), nil,
	)

	err := service.Extract(context.Background(), "nonexistent")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "get source")
}

func TestExtractService_Extract_FactoryMissing(t *testing.T) {
	sourceStore := memory.NewSourceStore()
	ctx := context.Background()

	source := domain.SourceConfig{ID: "src-1", Name: "Test", Type: "mock"}
	require.NoError(t, sourceStore.Save(ctx, source))

	service := NewExtractService(
		sourceStore, memory.NewRecordStore(), memory.NewRunStore(),
		nil, // no factory
		line.New(), nil,
	)

	err := service.Extract(ctx, "src-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create source")
}

func TestExtractService_Extract_ValidateFails(t *testing.T) {
	sourceStore := memory.NewSourceStore()
	factory := newExtractMockFactory()
	ctx := context.Background()

	require.NoError(t, sourceStore.Save(ctx, domain.SourceConfig{ID: "src-1", Type: "mock"}))

	closed := memsource.New()
	require.NoError(t, closed.Close())
	factory.sources["src-1"] = closed

	service := NewExtractService(
		sourceStore, memory.NewRecordStore(), memory.NewRunStore(),
		factory, line.New(), nil,
	)

	err := service.Extract(ctx, "src-1")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSourceClosed)
	assert.Contains(t, err.Error(), "validate source")
}

func TestExtractService_Extract_Success(t *testing.T) {
	sourceStore := memory.NewSourceStore()
	recordStore := memory.NewRecordStore()
	runStore := memory.NewRunStore()
	factory := newExtractMockFactory()
	ctx := context.Background()

	require.NoError(t, sourceStore.Save(ctx, domain.SourceConfig{ID: "src-1", Name: "Test", Type: "mock"}))
	factory.sources["src-1"] = memsource.New(
		domain.NewBlob([]byte("a1\na2\n"), domain.WithOrigin("mem://1")),
		domain.NewBlob([]byte("b1\n"), domain.WithOrigin("mem://2")),
	)

	service := NewExtractService(sourceStore, recordStore, runStore, factory, line.New(), nil)

	require.NoError(t, service.Extract(ctx, "src-1"))

	// Records are persisted in extraction order with provenance.
	records, err := recordStore.ListRecords(ctx, "src-1", 0, 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "a1\n", records[0].Content)
	assert.Equal(t, "a2\n", records[1].Content)
	assert.Equal(t, "b1\n", records[2].Content)
	assert.Equal(t, "mem://1", records[0].Origin)
	assert.Equal(t, "mem://2", records[2].Origin)
	assert.Equal(t, records[0].RunID, records[2].RunID)
	assert.Equal(t, "src-1", records[0].SourceID)
	assert.NotEmpty(t, records[0].ID)
	assert.False(t, records[0].CreatedAt.IsZero())

	// The run records the outcome.
	runs, err := runStore.ListBySource(ctx, "src-1", 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, domain.RunStatusSucceeded, runs[0].Status)
	assert.Equal(t, 2, runs[0].BlobsSeen)
	assert.Equal(t, 3, runs[0].RecordsExtracted)
	assert.False(t, runs[0].FinishedAt.IsZero())
	assert.Empty(t, runs[0].Error)

	// Status reports the finished extraction.
	status, err := service.Status(ctx, "src-1")
	require.NoError(t, err)
	assert.False(t, status.Running)
	assert.Equal(t, 2, status.BlobsSeen)
	assert.Equal(t, 3, status.RecordsExtracted)
	assert.Empty(t, status.LastError)
}

func TestExtractService_Extract_PipelineApplied(t *testing.T) {
	sourceStore := memory.NewSourceStore()
	recordStore := memory.NewRecordStore()
	factory := newExtractMockFactory()
	ctx := context.Background()

	require.NoError(t, sourceStore.Save(ctx, domain.SourceConfig{ID: "src-1", Type: "mock"}))
	factory.sources["src-1"] = memsource.New(
		domain.NewBlob([]byte("  x  \n"), domain.WithOrigin("mem://1")),
		domain.NewBlob([]byte("   \n"), domain.WithOrigin("mem://2")),
	)

	service := NewExtractService(
		sourceStore, recordStore, memory.NewRunStore(),
		factory, line.New(), &extractTrimPipeline{},
	)

	require.NoError(t, service.Extract(ctx, "src-1"))

	records, err := recordStore.ListRecords(ctx, "src-1", 0, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "x", records[0].Content)

	status, err := service.Status(ctx, "src-1")
	require.NoError(t, err)
	assert.Equal(t, 2, status.BlobsSeen)
	assert.Equal(t, 1, status.RecordsExtracted)
}

func TestExtractService_Extract_ParseFailure_KeepsPartials(t *testing.T) {
	sourceStore := memory.NewSourceStore()
	recordStore := memory.NewRecordStore()
	runStore := memory.NewRunStore()
	factory := newExtractMockFactory()
	ctx := context.Background()

	require.NoError(t, sourceStore.Save(ctx, domain.SourceConfig{ID: "src-1", Type: "mock"}))
	factory.sources["src-1"] = memsource.New(
		domain.NewBlob(nil, domain.WithOrigin("mem://1")),
		domain.NewBlob(nil, domain.WithOrigin("mem://2")),
	)

	parseErr := errors.New("malformed content")
	parser := &loadMockParser{
		records: map[string][]domain.Record{
			"mem://1": {{Content: "a1"}},
			"mem://2": {{Content: "b1"}},
		},
		failOrigin: "mem://2",
		failErr:    parseErr,
	}

	service := NewExtractService(sourceStore, recordStore, runStore, factory, parser, nil)

	err := service.Extract(ctx, "src-1")

	require.ErrorIs(t, err, parseErr)
	assert.Contains(t, err.Error(), "parse mem://2")

	// Records stored before the failure are kept, including the partial
	// batch from the failing blob.
	records, listErr := recordStore.ListRecords(ctx, "src-1", 0, 0)
	require.NoError(t, listErr)
	require.Len(t, records, 2)
	assert.Equal(t, "a1", records[0].Content)
	assert.Equal(t, "b1", records[1].Content)

	runs, listErr := runStore.ListBySource(ctx, "src-1", 0)
	require.NoError(t, listErr)
	require.Len(t, runs, 1)
	assert.Equal(t, domain.RunStatusFailed, runs[0].Status)
	assert.Contains(t, runs[0].Error, "parse mem://2")
	assert.Equal(t, 2, runs[0].BlobsSeen)
	assert.Equal(t, 2, runs[0].RecordsExtracted)

	status, statusErr := service.Status(ctx, "src-1")
	require.NoError(t, statusErr)
	assert.False(t, status.Running)
	assert.Contains(t, status.LastError, "parse mem://2")
}

func TestExtractService_Extract_AlreadyRunning(t *testing.T) {
	sourceStore := memory.NewSourceStore()
	factory := newExtractMockFactory()
	ctx := context.Background()

	require.NoError(t, sourceStore.Save(ctx, domain.SourceConfig{ID: "src-1", Type: "mock"}))
	factory.sources["src-1"] = memsource.New()

	service := NewExtractService(
		sourceStore, memory.NewRecordStore(), memory.NewRunStore(),
		factory, line.New(), nil,
	)

	// Claim the source as if another extraction were mid-flight.
	_, ok := service.tryStart("src-1")
	require.True(t, ok)

	err := service.Extract(ctx, "src-1")

	assert.ErrorIs(t, err, domain.ErrExtractionInProgress)
}

func TestExtractService_ExtractAll(t *testing.T) {
	t.Run("all sources succeed", func(t *testing.T) {
		sourceStore := memory.NewSourceStore()
		recordStore := memory.NewRecordStore()
		factory := newExtractMockFactory()
		ctx := context.Background()

		require.NoError(t, sourceStore.Save(ctx, domain.SourceConfig{ID: "src-1", Type: "mock"}))
		require.NoError(t, sourceStore.Save(ctx, domain.SourceConfig{ID: "src-2", Type: "mock"}))
		factory.sources["src-1"] = memsource.New(domain.NewBlob([]byte("a\n"), domain.WithOrigin("mem://1")))
		factory.sources["src-2"] = memsource.New(domain.NewBlob([]byte("b\n"), domain.WithOrigin("mem://2")))

		service := NewExtractService(
			sourceStore, recordStore, memory.NewRunStore(),
			factory, line.New(), nil,
		)

		require.NoError(t, service.ExtractAll(ctx))

		count, err := recordStore.CountRecords(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("one failure does not stop the rest", func(t *testing.T) {
		sourceStore := memory.NewSourceStore()
		recordStore := memory.NewRecordStore()
		factory := newExtractMockFactory()
		ctx := context.Background()

		require.NoError(t, sourceStore.Save(ctx, domain.SourceConfig{ID: "src-1", Type: "mock"}))
		require.NoError(t, sourceStore.Save(ctx, domain.SourceConfig{ID: "src-2", Type: "mock"}))
		// Only src-1 has a source behind it; src-2 fails at creation.
		factory.sources["src-1"] = memsource.New(domain.NewBlob([]byte("a\n"), domain.WithOrigin("mem://1")))

		service := NewExtractService(
			sourceStore, recordStore, memory.NewRunStore(),
			factory, line.New(), nil,
		)

		err := service.ExtractAll(ctx)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "extract src-2")

		records, listErr := recordStore.ListRecords(ctx, "src-1", 0, 0)
		require.NoError(t, listErr)
		assert.Len(t, records, 1)
	})
}

func TestExtractService_Loader(t *testing.T) {
	sourceStore := memory.NewSourceStore()
	recordStore := memory.NewRecordStore()
	factory := newExtractMockFactory()
	ctx := context.Background()

	require.NoError(t, sourceStore.Save(ctx, domain.SourceConfig{ID: "src-1", Type: "mock"}))
	factory.sources["src-1"] = memsource.New(
		domain.NewBlob([]byte("a1\na2\n"), domain.WithOrigin("mem://1")),
	)

	service := NewExtractService(
		sourceStore, recordStore, memory.NewRunStore(),
		factory, line.New(), nil,
	)

	loader, err := service.Loader(ctx, "src-1")
	require.NoError(t, err)

	records, err := loader.Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a1\n", records[0].Content)

	// The loader surface extracts without persisting.
	count, err := recordStore.CountRecords(ctx, "")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestExtractService_Loader_SourceNotFound(t *testing.T) {
	service := NewExtractService(
		memory.NewSourceStore(), memory.NewRecordStore(), memory.NewRunStore(),
		newExtractMockFactory(), line.New(), nil,
	)

	_, err := service.Loader(context.Background(), "nonexistent")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExtractService_Status_Idle(t *testing.T) {
	service := NewExtractService(
		memory.NewSourceStore(), memory.NewRecordStore(), memory.NewRunStore(),
		newExtractMockFactory(), line.New(), nil,
	)

	status, err := service.Status(context.Background(), "src-1")

	require.NoError(t, err)
	assert.Equal(t, "src-1", status.SourceID)
	assert.False(t, status.Running)
	assert.Zero(t, status.BlobsSeen)
	assert.Zero(t, status.RecordsExtracted)
}

func TestExtractService_Runs(t *testing.T) {
	sourceStore := memory.NewSourceStore()
	runStore := memory.NewRunStore()
	factory := newExtractMockFactory()
	ctx := context.Background()

	require.NoError(t, sourceStore.Save(ctx, domain.SourceConfig{ID: "src-1", Type: "mock"}))
	factory.sources["src-1"] = memsource.New(
		domain.NewBlob([]byte("a\n"), domain.WithOrigin("mem://1")),
	)

	service := NewExtractService(
		sourceStore, memory.NewRecordStore(), runStore,
		factory, line.New(), nil,
	)

	require.NoError(t, service.Extract(ctx, "src-1"))
	require.NoError(t, service.Extract(ctx, "src-1"))

	runs, err := service.Runs(ctx, "src-1", 0)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	limited, err := service.Runs(ctx, "src-1", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestExtractService_Watch(t *testing.T) {
	sourceStore := memory.NewSourceStore()
	recordStore := memory.NewRecordStore()
	runStore := memory.NewRunStore()
	factory := newExtractMockFactory()
	ctx := context.Background()

	require.NoError(t, sourceStore.Save(ctx, domain.SourceConfig{ID: "src-1", Type: "mock"}))
	source := newExtractWatchSource()
	factory.sources["src-1"] = source

	service := NewExtractService(sourceStore, recordStore, runStore, factory, line.New(), nil)

	events, err := service.Watch(ctx, "src-1")
	require.NoError(t, err)

	// A new origin appears.
	source.changes <- domain.BlobChange{
		Type: domain.ChangeCreated,
		Blob: domain.NewBlob([]byte("x1\nx2\n"), domain.WithOrigin("mem://w1")),
	}
	event := <-events
	require.NoError(t, event.Err)
	assert.Equal(t, 2, event.RecordsExtracted)

	records, err := recordStore.ListRecords(ctx, "src-1", 0, 0)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	// The origin changes; new records supersede the old ones.
	source.changes <- domain.BlobChange{
		Type: domain.ChangeUpdated,
		Blob: domain.NewBlob([]byte("y1\n"), domain.WithOrigin("mem://w1")),
	}
	event = <-events
	require.NoError(t, event.Err)
	assert.Equal(t, 1, event.RecordsExtracted)

	records, err = recordStore.ListRecords(ctx, "src-1", 0, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "y1\n", records[0].Content)

	// The origin disappears.
	source.changes <- domain.BlobChange{
		Type: domain.ChangeDeleted,
		Blob: domain.NewBlob(nil, domain.WithOrigin("mem://w1")),
	}
	event = <-events
	require.NoError(t, event.Err)
	assert.Zero(t, event.RecordsExtracted)

	count, err := recordStore.CountRecords(ctx, "src-1")
	require.NoError(t, err)
	assert.Zero(t, count)

	// Ending the change stream ends the session and closes the run.
	close(source.changes)
	_, open := <-events
	assert.False(t, open)
	assert.True(t, source.closed)

	runs, err := runStore.ListBySource(ctx, "src-1", 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, domain.RunStatusSucceeded, runs[0].Status)
	assert.Equal(t, 2, runs[0].BlobsSeen)
	assert.Equal(t, 3, runs[0].RecordsExtracted)
	assert.False(t, runs[0].FinishedAt.IsZero())
}

func TestExtractService_Watch_Unsupported(t *testing.T) {
	sourceStore := memory.NewSourceStore()
	factory := newExtractMockFactory()
	ctx := context.Background()

	require.NoError(t, sourceStore.Save(ctx, domain.SourceConfig{ID: "src-1", Type: "mock"}))
	factory.sources["src-1"] = memsource.New()

	service := NewExtractService(
		sourceStore, memory.NewRecordStore(), memory.NewRunStore(),
		factory, line.New(), nil,
	)

	_, err := service.Watch(ctx, "src-1")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	assert.Contains(t, err.Error(), "cannot watch")
}

func TestExtractService_Watch_ParseFailure_KeepsPreviousRecords(t *testing.T) {
	sourceStore := memory.NewSourceStore()
	recordStore := memory.NewRecordStore()
	factory := newExtractMockFactory()
	ctx := context.Background()

	require.NoError(t, sourceStore.Save(ctx, domain.SourceConfig{ID: "src-1", Type: "mock"}))
	source := newExtractWatchSource()
	factory.sources["src-1"] = source

	// Records from an earlier extraction of the origin.
	require.NoError(t, recordStore.SaveRecords(ctx, []domain.StoredRecord{
		{ID: "rec-1", SourceID: "src-1", Origin: "mem://w1", Content: "old"},
	}))

	parser := &loadMockParser{
		records:    map[string][]domain.Record{},
		failOrigin: "mem://w1",
		failErr:    errors.New("malformed content"),
	}

	service := NewExtractService(
		sourceStore, recordStore, memory.NewRunStore(),
		factory, parser, nil,
	)

	events, err := service.Watch(ctx, "src-1")
	require.NoError(t, err)

	source.changes <- domain.BlobChange{
		Type: domain.ChangeUpdated,
		Blob: domain.NewBlob(nil, domain.WithOrigin("mem://w1")),
	}
	event := <-events
	require.Error(t, event.Err)

	// The failed change must not wipe what the origin had before.
	records, err := recordStore.ListRecords(ctx, "src-1", 0, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "old", records[0].Content)

	close(source.changes)
	for range events { //nolint:revive // draining until close
	}
}
