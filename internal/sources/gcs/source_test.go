package gcs

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	storage "google.golang.org/api/storage/v1"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driven"
)

func TestNew(t *testing.T) {
	t.Run("creates source with valid parameters", func(t *testing.T) {
		src := New("test-source", &Config{Bucket: "my-bucket"})

		require.NotNil(t, src)
		assert.Equal(t, "test-source", src.sourceID)
		assert.Equal(t, "my-bucket", src.config.Bucket)
	})

	t.Run("implements Source interface", func(t *testing.T) {
		src := New("test", &Config{Bucket: "b"})
		var _ driven.Source = src
	})
}

func TestSource_Type(t *testing.T) {
	assert.Equal(t, "gcs", New("test", &Config{Bucket: "b"}).Type())
}

func TestSource_Close(t *testing.T) {
	t.Run("close is idempotent", func(t *testing.T) {
		src := New("test", &Config{Bucket: "b"})

		assert.NoError(t, src.Close())
		assert.NoError(t, src.Close())
	})

	t.Run("closed source fails enumeration", func(t *testing.T) {
		src := New("test", &Config{Bucket: "b"})
		require.NoError(t, src.Close())

		it := src.Blobs(context.Background())
		defer it.Close()

		_, err := it.Next(context.Background())
		assert.ErrorIs(t, err, domain.ErrSourceClosed)
	})

	t.Run("closed source fails count", func(t *testing.T) {
		src := New("test", &Config{Bucket: "b"})
		require.NoError(t, src.Close())

		_, err := src.Count(context.Background())
		assert.ErrorIs(t, err, domain.ErrSourceClosed)
	})
}

func TestSource_WantObject(t *testing.T) {
	src := New("test", &Config{Bucket: "b", IncludePatterns: []string{"*.csv"}, MaxBlobSize: 1024})

	t.Run("accepts matching object", func(t *testing.T) {
		assert.True(t, src.wantObject(&storage.Object{Name: "exports/data.csv", Size: 100}))
	})

	t.Run("rejects directory placeholders", func(t *testing.T) {
		assert.False(t, src.wantObject(&storage.Object{Name: "exports/", Size: 0}))
	})

	t.Run("rejects pattern misses", func(t *testing.T) {
		assert.False(t, src.wantObject(&storage.Object{Name: "exports/data.json", Size: 100}))
	})

	t.Run("rejects oversized objects", func(t *testing.T) {
		assert.False(t, src.wantObject(&storage.Object{Name: "big.csv", Size: 2048}))
	})
}

func TestSource_BlobFor(t *testing.T) {
	src := New("test", &Config{Bucket: "my-bucket"})

	obj := &storage.Object{
		Name:        "exports/2026/data.csv",
		Size:        512,
		ContentType: "text/csv",
		Updated:     "2026-08-01T10:00:00Z",
		Generation:  7,
	}

	blob := src.blobFor(obj)

	assert.Equal(t, "gs://my-bucket/exports/2026/data.csv", blob.Origin())
	assert.Equal(t, "text/csv", blob.MIMEType())
	assert.True(t, blob.Deferred(), "payload must not be downloaded at enumeration time")

	meta := blob.Metadata()
	assert.Equal(t, "data.csv", meta[domain.MetaFilename])
	assert.Equal(t, "csv", meta[domain.MetaExtension])
	assert.Equal(t, "my-bucket", meta["bucket"])
	assert.Equal(t, "exports/2026/data.csv", meta["path"])
	assert.Equal(t, int64(512), meta["size"])
	assert.Equal(t, "2026-08-01T10:00:00Z", meta["updated"])
	assert.Equal(t, int64(7), meta["generation"])
}

func TestObjectMIMEType(t *testing.T) {
	tests := []struct {
		name string
		obj  *storage.Object
		want string
	}{
		{"uses stored content type", &storage.Object{Name: "x.bin", ContentType: "text/csv"}, "text/csv"},
		{"strips parameters", &storage.Object{Name: "x.bin", ContentType: "text/csv; charset=utf-8"}, "text/csv"},
		{"falls back for octet-stream", &storage.Object{Name: "notes.md", ContentType: "application/octet-stream"}, "text/markdown"},
		{"falls back for empty", &storage.Object{Name: "events.jsonl", ContentType: ""}, "application/jsonl"},
		{"plain text for unknown extension", &storage.Object{Name: "LICENSE", ContentType: ""}, "text/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, objectMIMEType(tt.obj))
		})
	}
}

func TestBuildOrigin(t *testing.T) {
	assert.Equal(t, "gs://bucket/a/b/c.txt", buildOrigin("bucket", "a/b/c.txt"))
}

func TestObjectIterator_CloseBeforeNext(t *testing.T) {
	src := New("test", &Config{Bucket: "b"})
	it := src.Blobs(context.Background())

	require.NoError(t, it.Close())

	_, err := it.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}
