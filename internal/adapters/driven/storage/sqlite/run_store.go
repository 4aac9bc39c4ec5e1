package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driven"
)

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

// Save stores or updates a run.
func (s *runStore) Save(ctx context.Context, run domain.ExtractionRun) error {
	if run.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO runs
			(id, source_id, status, started_at, finished_at, blobs_seen, records_extracted, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_id = excluded.source_id,
			status = excluded.status,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at,
			blobs_seen = excluded.blobs_seen,
			records_extracted = excluded.records_extracted,
			error = excluded.error
	`, run.ID, run.SourceID, string(run.Status), run.StartedAt,
		nullTime(run.FinishedAt), run.BlobsSeen, run.RecordsExtracted,
		nullString(run.Error))

	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// Get retrieves a run by ID.
func (s *runStore) Get(ctx context.Context, id string) (*domain.ExtractionRun, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, source_id, status, started_at, finished_at, blobs_seen, records_extracted, error
		FROM runs WHERE id = ?
	`, id)

	var run domain.ExtractionRun
	var status string
	var finishedAt sql.NullTime
	var runErr sql.NullString
	if err := row.Scan(&run.ID, &run.SourceID, &status, &run.StartedAt,
		&finishedAt, &run.BlobsSeen, &run.RecordsExtracted, &runErr); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	run.Status = domain.RunStatus(status)
	if finishedAt.Valid {
		run.FinishedAt = finishedAt.Time
	}
	run.Error = runErr.String

	return &run, nil
}

// ListBySource returns runs for a source, most recent first.
// limit <= 0 means no limit.
func (s *runStore) ListBySource(ctx context.Context, sourceID string, limit int) ([]domain.ExtractionRun, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, source_id, status, started_at, finished_at, blobs_seen, records_extracted, error
		FROM runs WHERE source_id = ?
		ORDER BY started_at DESC
		LIMIT ?
	`, sourceID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// List returns recent runs across all sources, most recent first.
// limit <= 0 means no limit.
func (s *runStore) List(ctx context.Context, limit int) ([]domain.ExtractionRun, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, source_id, status, started_at, finished_at, blobs_seen, records_extracted, error
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// DeleteBySource removes run history for a source.
func (s *runStore) DeleteBySource(ctx context.Context, sourceID string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM runs WHERE source_id = ?", sourceID)
	if err != nil {
		return fmt.Errorf("deleting runs: %w", err)
	}
	return nil
}

// scanRuns scans multiple run rows.
func scanRuns(rows *sql.Rows) ([]domain.ExtractionRun, error) {
	var runs []domain.ExtractionRun //nolint:prealloc // size unknown from query
	for rows.Next() {
		var run domain.ExtractionRun
		var status string
		var finishedAt sql.NullTime
		var runErr sql.NullString
		if err := rows.Scan(&run.ID, &run.SourceID, &status, &run.StartedAt,
			&finishedAt, &run.BlobsSeen, &run.RecordsExtracted, &runErr); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}

		run.Status = domain.RunStatus(status)
		if finishedAt.Valid {
			run.FinishedAt = finishedAt.Time
		}
		run.Error = runErr.String
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	return runs, nil
}
