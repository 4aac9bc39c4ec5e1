package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/gleaner-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// all metadata store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.gleaner/data/gleaner.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".gleaner", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "gleaner.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SourceStore returns a SourceStore interface backed by this store.
func (s *Store) SourceStore() driven.SourceStore {
	return &sourceStore{store: s}
}

// RecordStore returns a RecordStore interface backed by this store.
func (s *Store) RecordStore() driven.RecordStore {
	return &recordStore{store: s}
}

// RunStore returns a RunStore interface backed by this store.
func (s *Store) RunStore() driven.RunStore {
	return &runStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Source Store ====================

// sourceStore implements driven.SourceStore.
type sourceStore struct {
	store *Store
}

var _ driven.SourceStore = (*sourceStore)(nil)

// Save stores or updates a source.
func (s *sourceStore) Save(ctx context.Context, source domain.SourceConfig) error {
	configJSON, err := json.Marshal(source.Config)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	now := time.Now().UTC()
	if source.CreatedAt.IsZero() {
		source.CreatedAt = now
	}
	source.UpdatedAt = now

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO sources (id, type, name, config, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			name = excluded.name,
			config = excluded.config,
			updated_at = excluded.updated_at
	`, source.ID, source.Type, source.Name, string(configJSON),
		source.CreatedAt, source.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving source: %w", err)
	}
	return nil
}

// Get retrieves a source by ID.
func (s *sourceStore) Get(ctx context.Context, id string) (*domain.SourceConfig, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, type, name, config, created_at, updated_at
		FROM sources WHERE id = ?
	`, id)

	var source domain.SourceConfig
	var configJSON string
	var createdAt, updatedAt sql.NullTime
	if err := row.Scan(&source.ID, &source.Type, &source.Name, &configJSON,
		&createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning source: %w", err)
	}

	if err := json.Unmarshal([]byte(configJSON), &source.Config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if createdAt.Valid {
		source.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		source.UpdatedAt = updatedAt.Time
	}

	return &source, nil
}

// Delete removes a source.
func (s *sourceStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM sources WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting source: %w", err)
	}
	return nil
}

// List returns all configured sources.
func (s *sourceStore) List(ctx context.Context) ([]domain.SourceConfig, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, type, name, config, created_at, updated_at
		FROM sources
	`)
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	var sources []domain.SourceConfig //nolint:prealloc // size unknown from query
	for rows.Next() {
		var source domain.SourceConfig
		var configJSON string
		var createdAt, updatedAt sql.NullTime
		if err := rows.Scan(&source.ID, &source.Type, &source.Name, &configJSON,
			&createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning source: %w", err)
		}

		if err := json.Unmarshal([]byte(configJSON), &source.Config); err != nil {
			return nil, fmt.Errorf("unmarshaling config: %w", err)
		}

		if createdAt.Valid {
			source.CreatedAt = createdAt.Time
		}
		if updatedAt.Valid {
			source.UpdatedAt = updatedAt.Time
		}
		sources = append(sources, source)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sources: %w", err)
	}

	return sources, nil
}

// ==================== Record Store ====================

// recordStore implements driven.RecordStore. Extraction order is kept
// via rowid, which follows insertion order.
type recordStore struct {
	store *Store
}

var _ driven.RecordStore = (*recordStore)(nil)

// SaveRecords stores a batch of records, preserving order.
func (s *recordStore) SaveRecords(ctx context.Context, records []domain.StoredRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (id, run_id, source_id, origin, content, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			run_id = excluded.run_id,
			source_id = excluded.source_id,
			origin = excluded.origin,
			content = excluded.content,
			metadata = excluded.metadata,
			created_at = excluded.created_at
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		metadataJSON, err := json.Marshal(rec.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling metadata: %w", err)
		}

		if _, err := stmt.ExecContext(ctx, rec.ID, rec.RunID, rec.SourceID,
			rec.Origin, rec.Content, string(metadataJSON), rec.CreatedAt); err != nil {
			return fmt.Errorf("saving record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetRecord retrieves a record by ID.
func (s *recordStore) GetRecord(ctx context.Context, id string) (*domain.StoredRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, run_id, source_id, origin, content, metadata, created_at
		FROM records WHERE id = ?
	`, id)

	var rec domain.StoredRecord
	var metadataJSON string
	var createdAt sql.NullTime
	if err := row.Scan(&rec.ID, &rec.RunID, &rec.SourceID, &rec.Origin,
		&rec.Content, &metadataJSON, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning record: %w", err)
	}

	if err := unmarshalMetadata(metadataJSON, &rec); err != nil {
		return nil, err
	}
	if createdAt.Valid {
		rec.CreatedAt = createdAt.Time
	}

	return &rec, nil
}

// ListRecords returns records for a source, in extraction order.
// limit <= 0 means no limit.
func (s *recordStore) ListRecords(ctx context.Context, sourceID string, limit, offset int) ([]domain.StoredRecord, error) {
	if limit <= 0 {
		limit = -1 // SQLite treats negative LIMIT as unlimited
	}
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, run_id, source_id, origin, content, metadata, created_at
		FROM records WHERE source_id = ?
		ORDER BY rowid
		LIMIT ? OFFSET ?
	`, sourceID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// ListRecordsByRun returns records produced by a run, in extraction order.
func (s *recordStore) ListRecordsByRun(ctx context.Context, runID string) ([]domain.StoredRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, run_id, source_id, origin, content, metadata, created_at
		FROM records WHERE run_id = ?
		ORDER BY rowid
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying records by run: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// CountRecords returns the number of records for a source.
func (s *recordStore) CountRecords(ctx context.Context, sourceID string) (int, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM records WHERE source_id = ?", sourceID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return count, nil
}

// DeleteRecords removes all records for a source.
func (s *recordStore) DeleteRecords(ctx context.Context, sourceID string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM records WHERE source_id = ?", sourceID)
	if err != nil {
		return fmt.Errorf("deleting records: %w", err)
	}
	return nil
}

// DeleteRecordsByOrigin removes a source's records extracted from one origin.
func (s *recordStore) DeleteRecordsByOrigin(ctx context.Context, sourceID, origin string) error {
	_, err := s.store.db.ExecContext(ctx,
		"DELETE FROM records WHERE source_id = ? AND origin = ?", sourceID, origin)
	if err != nil {
		return fmt.Errorf("deleting records by origin: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

// scanRecords scans multiple record rows.
func scanRecords(rows *sql.Rows) ([]domain.StoredRecord, error) {
	var records []domain.StoredRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var rec domain.StoredRecord
		var metadataJSON string
		var createdAt sql.NullTime
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.SourceID, &rec.Origin,
			&rec.Content, &metadataJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}

		if err := unmarshalMetadata(metadataJSON, &rec); err != nil {
			return nil, err
		}
		if createdAt.Valid {
			rec.CreatedAt = createdAt.Time
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}

	return records, nil
}

// unmarshalMetadata fills a record's metadata from its JSON column.
// "null" round-trips to nil metadata.
func unmarshalMetadata(metadataJSON string, rec *domain.StoredRecord) error {
	if metadataJSON == "" || metadataJSON == "null" {
		return nil
	}
	if err := json.Unmarshal([]byte(metadataJSON), &rec.Metadata); err != nil {
		return fmt.Errorf("unmarshaling metadata: %w", err)
	}
	return nil
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// nullTime returns nil for zero times, otherwise the time.
func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
