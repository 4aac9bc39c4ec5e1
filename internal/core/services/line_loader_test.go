package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
)

func writeTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestNewLineLoader(t *testing.T) {
	loader := NewLineLoader("/tmp/notes.txt", "")

	require.NotNil(t, loader)
	assert.Equal(t, "/tmp/notes.txt", loader.path)
	assert.NotNil(t, loader.parser)
}

func TestLineLoader_Load(t *testing.T) {
	path := writeTempFile(t, "notes.txt", []byte("a\nb\nc"))
	loader := NewLineLoader(path, "")

	records, err := loader.Load(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "a\n", records[0].Content)
	assert.Equal(t, "b\n", records[1].Content)
	assert.Equal(t, "c", records[2].Content)

	assert.Equal(t, path, records[0].Origin())
	assert.Equal(t, 1, records[0].Metadata[domain.MetaLine])
	assert.Equal(t, 2, records[1].Metadata[domain.MetaLine])
	assert.Equal(t, 3, records[2].Metadata[domain.MetaLine])
	assert.Equal(t, "notes.txt", records[0].Metadata[domain.MetaFilename])
}

func TestLineLoader_MissingFile_SurfacesOnFirstNext(t *testing.T) {
	loader := NewLineLoader(filepath.Join(t.TempDir(), "absent.txt"), "")

	// Construction and LazyLoad do not touch the filesystem.
	it := loader.LazyLoad(context.Background())
	defer it.Close()

	_, err := it.Next(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEnumeration)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLineLoader_Load_Latin1(t *testing.T) {
	// "café" with an ISO-8859-1 e-acute byte.
	path := writeTempFile(t, "menu.txt", []byte{'c', 'a', 'f', 0xE9, '\n'})
	loader := NewLineLoader(path, "ISO-8859-1")

	records, err := loader.Load(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "café\n", records[0].Content)
}

func TestLineLoader_Load_UnknownEncoding(t *testing.T) {
	path := writeTempFile(t, "notes.txt", []byte("a\n"))
	loader := NewLineLoader(path, "no-such-charset")

	_, err := loader.Load(context.Background())

	assert.ErrorIs(t, err, domain.ErrDecode)
}

func TestLineLoader_Stream(t *testing.T) {
	path := writeTempFile(t, "notes.txt", []byte("a\nb\n"))
	loader := NewLineLoader(path, "")

	records, errs := loader.Stream(context.Background())
	var contents []string
	for rec := range records {
		contents = append(contents, rec.Content)
	}

	require.NoError(t, <-errs)
	assert.Equal(t, []string{"a\n", "b\n"}, contents)
}
