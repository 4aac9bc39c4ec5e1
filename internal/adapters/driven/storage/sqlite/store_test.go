package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})

	return store
}

// createTestSource stores a minimal source configuration.
func createTestSource(t *testing.T, store *Store, sourceID string) {
	t.Helper()
	ctx := context.Background()
	source := domain.SourceConfig{
		ID:     sourceID,
		Type:   "filesystem",
		Name:   "Test Source " + sourceID,
		Config: map[string]string{"path": "/tmp"},
	}
	require.NoError(t, store.SourceStore().Save(ctx, source))
}

// testRecords builds n records for a source in extraction order.
func testRecords(sourceID, runID string, n int) []domain.StoredRecord {
	now := time.Now().UTC().Truncate(time.Second)
	records := make([]domain.StoredRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, domain.StoredRecord{
			ID:       sourceID + "-rec-" + string(rune('a'+i)),
			RunID:    runID,
			SourceID: sourceID,
			Origin:   "/tmp/file.txt",
			Content:  "line " + string(rune('a'+i)),
			Metadata: map[string]any{
				domain.MetaOrigin: "/tmp/file.txt",
				domain.MetaLine:   float64(i + 1), // JSON round-trips numbers as float64
			},
			CreatedAt: now,
		})
	}
	return records
}

// ==================== Store Creation and Initialization Tests ====================

func TestNewStore_ErrorHandling(t *testing.T) {
	// Invalid path should fail to create directory
	_, err := NewStore("/invalid\x00path")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestNewStore_Success(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	// Verify database file was created
	dbPath := filepath.Join(tempDir, "gleaner.db")
	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)

	// Verify database connection is working
	err = store.db.Ping()
	assert.NoError(t, err)
}

func TestNewStore_MigrationsAreIdempotent(t *testing.T) {
	tempDir := t.TempDir()

	store1, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store1.Close())

	// Reopening the same database must not re-run applied migrations.
	store2, err := NewStore(tempDir)
	require.NoError(t, err)
	defer store2.Close()

	var version int
	err = store2.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

// ==================== Source Store Tests ====================

func TestSourceStore_SaveAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	source := domain.SourceConfig{
		ID:   "src-1",
		Type: "filesystem",
		Name: "Notes",
		Config: map[string]string{
			"path":    "/home/user/notes",
			"pattern": "*.md",
		},
	}
	require.NoError(t, store.SourceStore().Save(ctx, source))

	got, err := store.SourceStore().Get(ctx, "src-1")
	require.NoError(t, err)
	assert.Equal(t, "src-1", got.ID)
	assert.Equal(t, "filesystem", got.Type)
	assert.Equal(t, "Notes", got.Name)
	assert.Equal(t, source.Config, got.Config)
	assert.False(t, got.CreatedAt.IsZero())
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestSourceStore_Get_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.SourceStore().Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSourceStore_Save_Upsert(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	createTestSource(t, store, "src-1")

	updated := domain.SourceConfig{
		ID:     "src-1",
		Type:   "filesystem",
		Name:   "Renamed",
		Config: map[string]string{"path": "/elsewhere"},
	}
	require.NoError(t, store.SourceStore().Save(ctx, updated))

	got, err := store.SourceStore().Get(ctx, "src-1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "/elsewhere", got.Config["path"])

	// Upserting must not create a second row
	sources, err := store.SourceStore().List(ctx)
	require.NoError(t, err)
	assert.Len(t, sources, 1)
}

func TestSourceStore_List(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	createTestSource(t, store, "src-1")
	createTestSource(t, store, "src-2")

	sources, err := store.SourceStore().List(ctx)
	require.NoError(t, err)
	assert.Len(t, sources, 2)
}

func TestSourceStore_Delete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	createTestSource(t, store, "src-1")
	require.NoError(t, store.SourceStore().Delete(ctx, "src-1"))

	_, err := store.SourceStore().Get(ctx, "src-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Deleting a missing source is not an error
	assert.NoError(t, store.SourceStore().Delete(ctx, "src-1"))
}

// ==================== Record Store Tests ====================

func TestRecordStore_SaveAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	records := testRecords("src-1", "run-1", 1)
	require.NoError(t, store.RecordStore().SaveRecords(ctx, records))

	got, err := store.RecordStore().GetRecord(ctx, records[0].ID)
	require.NoError(t, err)
	assert.Equal(t, records[0].Content, got.Content)
	assert.Equal(t, records[0].Origin, got.Origin)
	assert.Equal(t, records[0].Metadata, got.Metadata)
	assert.Equal(t, "run-1", got.RunID)
}

func TestRecordStore_GetRecord_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.RecordStore().GetRecord(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordStore_SaveRecords_Empty(t *testing.T) {
	store := setupTestStore(t)

	assert.NoError(t, store.RecordStore().SaveRecords(context.Background(), nil))
}

func TestRecordStore_ListRecords_PreservesExtractionOrder(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	records := testRecords("src-1", "run-1", 5)
	require.NoError(t, store.RecordStore().SaveRecords(ctx, records))

	got, err := store.RecordStore().ListRecords(ctx, "src-1", 0, 0)
	require.NoError(t, err)
	require.Len(t, got, 5)
	for i, rec := range got {
		assert.Equal(t, records[i].ID, rec.ID, "record %d out of order", i)
	}
}

func TestRecordStore_ListRecords_LimitAndOffset(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordStore().SaveRecords(ctx, testRecords("src-1", "run-1", 5)))

	page, err := store.RecordStore().ListRecords(ctx, "src-1", 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "src-1-rec-c", page[0].ID)
	assert.Equal(t, "src-1-rec-d", page[1].ID)
}

func TestRecordStore_ListRecordsByRun(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordStore().SaveRecords(ctx, testRecords("src-1", "run-1", 2)))
	require.NoError(t, store.RecordStore().SaveRecords(ctx, testRecords("src-2", "run-2", 3)))

	got, err := store.RecordStore().ListRecordsByRun(ctx, "run-2")
	require.NoError(t, err)
	assert.Len(t, got, 3)
	for _, rec := range got {
		assert.Equal(t, "run-2", rec.RunID)
	}
}

func TestRecordStore_CountRecords(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordStore().SaveRecords(ctx, testRecords("src-1", "run-1", 3)))

	count, err := store.RecordStore().CountRecords(ctx, "src-1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = store.RecordStore().CountRecords(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRecordStore_DeleteRecords(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordStore().SaveRecords(ctx, testRecords("src-1", "run-1", 3)))
	require.NoError(t, store.RecordStore().SaveRecords(ctx, testRecords("src-2", "run-2", 2)))

	require.NoError(t, store.RecordStore().DeleteRecords(ctx, "src-1"))

	count, err := store.RecordStore().CountRecords(ctx, "src-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Other sources untouched
	count, err = store.RecordStore().CountRecords(ctx, "src-2")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRecordStore_DeleteRecordsByOrigin(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	records := testRecords("src-1", "run-1", 2)
	other := domain.StoredRecord{
		ID:       "src-1-other",
		RunID:    "run-1",
		SourceID: "src-1",
		Origin:   "/tmp/other.txt",
		Content:  "kept",
	}
	require.NoError(t, store.RecordStore().SaveRecords(ctx, append(records, other)))

	require.NoError(t, store.RecordStore().DeleteRecordsByOrigin(ctx, "src-1", "/tmp/file.txt"))

	got, err := store.RecordStore().ListRecords(ctx, "src-1", 0, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "src-1-other", got[0].ID)
}

func TestRecordStore_NilMetadataRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	rec := domain.StoredRecord{
		ID:       "bare",
		SourceID: "src-1",
		Content:  "no metadata",
	}
	require.NoError(t, store.RecordStore().SaveRecords(ctx, []domain.StoredRecord{rec}))

	got, err := store.RecordStore().GetRecord(ctx, "bare")
	require.NoError(t, err)
	assert.Nil(t, got.Metadata)
}
