package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driven"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driving"
	"github.com/custodia-labs/gleaner-cli/internal/logger"
)

// Ensure ExtractService implements the interface.
var _ driving.ExtractOrchestrator = (*ExtractService)(nil)

// ExtractService coordinates record extraction: enumerate a source's
// blobs, parse each into records, run the post-processor pipeline and
// persist the outcome.
type ExtractService struct {
	sourceStore driven.SourceStore
	recordStore driven.RecordStore
	runStore    driven.RunStore
	factory     driven.SourceFactory
	parser      driven.Parser
	pipeline    driven.PostProcessorPipeline

	// Status tracking
	mu     sync.RWMutex
	active map[string]*driving.ExtractStatus
}

// NewExtractService creates a new extraction orchestrator. The parser
// is typically a parser registry, so every registered format is
// available; pipeline is optional.
func NewExtractService(
	sourceStore driven.SourceStore,
	recordStore driven.RecordStore,
	runStore driven.RunStore,
	factory driven.SourceFactory,
	parser driven.Parser,
	pipeline driven.PostProcessorPipeline,
) *ExtractService {
	return &ExtractService{
		sourceStore: sourceStore,
		recordStore: recordStore,
		runStore:    runStore,
		factory:     factory,
		parser:      parser,
		pipeline:    pipeline,
		active:      make(map[string]*driving.ExtractStatus),
	}
}

// Extract runs the pipeline for a source. Fails fast on the first
// error; records persisted before the failure are kept.
func (s *ExtractService) Extract(ctx context.Context, sourceID string) error {
	// 1. Get source configuration
	cfg, err := s.sourceStore.Get(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("get source: %w", err)
	}

	// 2. Create source from configuration
	if s.factory == nil {
		return fmt.Errorf("create source: source factory not configured")
	}
	source, err := s.factory.Create(ctx, *cfg)
	if err != nil {
		return fmt.Errorf("create source: %w", err)
	}
	defer source.Close()

	// 3. Validate source (configuration, reachability, auth)
	if err := source.Validate(ctx); err != nil {
		return fmt.Errorf("validate source: %w", err)
	}

	// 4. Claim the source for this run
	status, ok := s.tryStart(sourceID)
	if !ok {
		return domain.ErrExtractionInProgress
	}

	// 5. Open a run record
	run := domain.ExtractionRun{
		ID:        uuid.New().String(),
		SourceID:  sourceID,
		Status:    domain.RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	if err := s.runStore.Save(ctx, run); err != nil {
		s.update(status, func(st *driving.ExtractStatus) { st.Running = false })
		return fmt.Errorf("save run: %w", err)
	}

	logger.Info("Starting extraction for source %s", sourceID)

	// 6. Drain the source blob by blob
	cause := s.drainBlobs(ctx, run.ID, sourceID, source, status)

	// 7. Close the run record
	return s.finishRun(ctx, run, status, cause)
}

// ExtractAll runs extraction for all configured sources.
func (s *ExtractService) ExtractAll(ctx context.Context) error {
	sources, err := s.sourceStore.List(ctx)
	if err != nil {
		return fmt.Errorf("list sources: %w", err)
	}

	var errs []error
	for _, cfg := range sources {
		if err := s.Extract(ctx, cfg.ID); err != nil {
			errs = append(errs, fmt.Errorf("extract %s: %w", cfg.ID, err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Loader returns a lazy loader over a configured source. Nothing is
// enumerated, parsed or persisted until the loader is consumed.
func (s *ExtractService) Loader(ctx context.Context, sourceID string) (driving.Loader, error) {
	cfg, err := s.sourceStore.Get(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("get source: %w", err)
	}
	if s.factory == nil {
		return nil, fmt.Errorf("create source: source factory not configured")
	}
	source, err := s.factory.Create(ctx, *cfg)
	if err != nil {
		return nil, fmt.Errorf("create source: %w", err)
	}
	return NewGenericLoader(source, s.parser, nil), nil
}

// Status returns extraction status for a source.
func (s *ExtractService) Status(_ context.Context, sourceID string) (*driving.ExtractStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if status, ok := s.active[sourceID]; ok {
		// Return a copy to avoid race conditions
		return &driving.ExtractStatus{
			SourceID:         status.SourceID,
			Running:          status.Running,
			BlobsSeen:        status.BlobsSeen,
			RecordsExtracted: status.RecordsExtracted,
			LastError:        status.LastError,
		}, nil
	}

	// Never extracted since startup - report idle
	return &driving.ExtractStatus{SourceID: sourceID}, nil
}

// Runs returns recent extraction runs for a source, newest first.
func (s *ExtractService) Runs(ctx context.Context, sourceID string, limit int) ([]domain.ExtractionRun, error) {
	return s.runStore.ListBySource(ctx, sourceID, limit)
}

// Watch extracts changes as the source reports them, until ctx is
// cancelled. Each handled change is reported on the returned channel;
// a change that fails to parse is reported, not fatal.
func (s *ExtractService) Watch(ctx context.Context, sourceID string) (<-chan driving.WatchEvent, error) {
	cfg, err := s.sourceStore.Get(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("get source: %w", err)
	}
	if s.factory == nil {
		return nil, fmt.Errorf("create source: source factory not configured")
	}
	source, err := s.factory.Create(ctx, *cfg)
	if err != nil {
		return nil, fmt.Errorf("create source: %w", err)
	}

	watcher, ok := source.(driven.Watcher)
	if !ok {
		_ = source.Close()
		return nil, fmt.Errorf("%w: %s sources cannot watch", domain.ErrUnsupportedType, cfg.Type)
	}

	changes, err := watcher.Watch(ctx)
	if err != nil {
		_ = source.Close()
		return nil, err
	}

	// One run records the whole watch session.
	run := domain.ExtractionRun{
		ID:        uuid.New().String(),
		SourceID:  sourceID,
		Status:    domain.RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	if err := s.runStore.Save(ctx, run); err != nil {
		_ = source.Close()
		return nil, fmt.Errorf("save run: %w", err)
	}

	events := make(chan driving.WatchEvent)
	go func() {
		defer close(events)
		defer source.Close()

		logger.Info("Watching source %s", sourceID)
		for change := range changes {
			event := s.handleChange(ctx, &run, cfg, change)

			select {
			case <-ctx.Done():
				s.finishWatch(&run)
				return
			case events <- event:
			}
		}
		s.finishWatch(&run)
	}()

	return events, nil
}

// drainBlobs enumerates the source and persists what each blob parses
// into. Returns the first failure; records stored before it are kept.
func (s *ExtractService) drainBlobs(
	ctx context.Context,
	runID, sourceID string,
	source driven.Source,
	status *driving.ExtractStatus,
) error {
	blobs := source.Blobs(ctx)
	defer blobs.Close()

	for {
		blob, err := blobs.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("enumerate blobs: %w", err)
		}

		s.update(status, func(st *driving.ExtractStatus) { st.BlobsSeen++ })
		logger.Debug("Extracting: %s", blob.Origin())

		records, parseErr := driven.CollectRecords(ctx, s.parser.Parse(blob))

		// Records parsed before a mid-blob failure are still persisted;
		// the failure halts the run afterwards.
		if len(records) > 0 {
			stored, err := s.persistRecords(ctx, runID, sourceID, blob.Origin(), records)
			if err != nil {
				return err
			}
			s.update(status, func(st *driving.ExtractStatus) { st.RecordsExtracted += stored })
		}

		if parseErr != nil {
			return fmt.Errorf("parse %s: %w", blob.Origin(), parseErr)
		}
	}
}

// persistRecords post-processes one blob's records and saves them.
// Returns how many records were stored.
func (s *ExtractService) persistRecords(
	ctx context.Context,
	runID, sourceID, origin string,
	records []domain.Record,
) (int, error) {
	if s.pipeline != nil {
		processed, err := s.pipeline.Process(ctx, records)
		if err != nil {
			return 0, fmt.Errorf("post-process %s: %w", origin, err)
		}
		records = processed
	}
	if len(records) == 0 {
		return 0, nil
	}
	stored := storedRecords(runID, sourceID, origin, records)
	if err := s.recordStore.SaveRecords(ctx, stored); err != nil {
		return 0, fmt.Errorf("save records: %w", err)
	}
	return len(stored), nil
}

// handleChange extracts or removes records for one watched change.
func (s *ExtractService) handleChange(
	ctx context.Context,
	run *domain.ExtractionRun,
	cfg *domain.SourceConfig,
	change domain.BlobChange,
) driving.WatchEvent {
	event := driving.WatchEvent{Change: change}
	origin := change.Blob.Origin()

	switch change.Type {
	case domain.ChangeCreated, domain.ChangeUpdated:
		logger.Debug("Re-extracting: %s", origin)
		records, err := driven.CollectRecords(ctx, s.parser.Parse(change.Blob))
		if err != nil {
			// Keep the origin's previous records rather than
			// half-replacing them.
			event.Err = err
			return event
		}

		// The change supersedes whatever the origin produced before.
		if err := s.recordStore.DeleteRecordsByOrigin(ctx, cfg.ID, origin); err != nil {
			event.Err = err
			return event
		}
		stored, err := s.persistRecords(ctx, run.ID, cfg.ID, origin, records)
		if err != nil {
			event.Err = err
			return event
		}
		event.RecordsExtracted = stored
		run.BlobsSeen++
		run.RecordsExtracted += stored

	case domain.ChangeDeleted:
		logger.Debug("Removing records for: %s", origin)
		if err := s.recordStore.DeleteRecordsByOrigin(ctx, cfg.ID, origin); err != nil {
			event.Err = err
			return event
		}
	}

	if err := s.runStore.Save(ctx, *run); err != nil {
		logger.Debug("Failed to update watch run: %v", err)
	}
	return event
}

// finishRun closes the run record and reports the outcome.
func (s *ExtractService) finishRun(
	ctx context.Context,
	run domain.ExtractionRun,
	status *driving.ExtractStatus,
	cause error,
) error {
	s.mu.Lock()
	run.BlobsSeen = status.BlobsSeen
	run.RecordsExtracted = status.RecordsExtracted
	status.Running = false
	if cause != nil {
		status.LastError = cause.Error()
	}
	s.mu.Unlock()

	run.FinishedAt = time.Now().UTC()
	if cause != nil {
		run.Status = domain.RunStatusFailed
		run.Error = cause.Error()
	} else {
		run.Status = domain.RunStatusSucceeded
	}

	if err := s.runStore.Save(ctx, run); err != nil {
		if cause != nil {
			return cause
		}
		return fmt.Errorf("save run: %w", err)
	}

	if cause != nil {
		logger.Info("Extraction failed after %d blobs, %d records: %v",
			run.BlobsSeen, run.RecordsExtracted, cause)
		return cause
	}

	logger.Info("Extraction complete: %d blobs, %d records", run.BlobsSeen, run.RecordsExtracted)
	return nil
}

func (s *ExtractService) finishWatch(run *domain.ExtractionRun) {
	run.Status = domain.RunStatusSucceeded
	run.FinishedAt = time.Now().UTC()
	// The watch ctx is already cancelled by the time the session ends.
	if err := s.runStore.Save(context.Background(), *run); err != nil {
		logger.Debug("Failed to record watch run: %v", err)
	}
}

// tryStart claims status tracking for a source. Reports false when an
// extraction is already running.
func (s *ExtractService) tryStart(sourceID string) (*driving.ExtractStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.active[sourceID]; ok && st.Running {
		return nil, false
	}
	status := &driving.ExtractStatus{SourceID: sourceID, Running: true}
	s.active[sourceID] = status
	return status, true
}

// update mutates a tracked status under the lock.
func (s *ExtractService) update(status *driving.ExtractStatus, fn func(*driving.ExtractStatus)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(status)
}

// storedRecords binds one blob's records to a run for persistence.
func storedRecords(runID, sourceID, origin string, records []domain.Record) []domain.StoredRecord {
	now := time.Now().UTC()
	out := make([]domain.StoredRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, domain.StoredRecord{
			ID:        uuid.New().String(),
			RunID:     runID,
			SourceID:  sourceID,
			Origin:    origin,
			Content:   rec.Content,
			Metadata:  rec.Metadata,
			CreatedAt: now,
		})
	}
	return out
}
