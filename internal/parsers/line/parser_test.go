package line

import (
	"context"
	"io"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driven"
)

func TestNew(t *testing.T) {
	parser := New()
	require.NotNil(t, parser)
	assert.IsType(t, &Parser{}, parser)
}

func TestMIMETypes(t *testing.T) {
	parser := New()
	assert.Equal(t, []string{"*/*"}, parser.MIMETypes())
}

func TestPriority(t *testing.T) {
	parser := New()
	assert.Equal(t, 5, parser.Priority())
}

func TestParse_TerminatorsKept(t *testing.T) {
	parser := New()
	blob := domain.NewBlob([]byte("a\nb\nc"), domain.WithOrigin("/tmp/abc.txt"))

	records, err := driven.CollectRecords(context.Background(), parser.Parse(blob))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "a\n", records[0].Content)
	assert.Equal(t, "b\n", records[1].Content)
	assert.Equal(t, "c", records[2].Content)

	assert.Equal(t, 1, records[0].Metadata[domain.MetaLine])
	assert.Equal(t, 2, records[1].Metadata[domain.MetaLine])
	assert.Equal(t, 3, records[2].Metadata[domain.MetaLine])

	for _, rec := range records {
		assert.Equal(t, "/tmp/abc.txt", rec.Metadata[domain.MetaOrigin])
	}
}

func TestParse_TrailingNewline(t *testing.T) {
	parser := New()
	blob := domain.NewBlob([]byte("a\nb\n"))

	records, err := driven.CollectRecords(context.Background(), parser.Parse(blob))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a\n", records[0].Content)
	assert.Equal(t, "b\n", records[1].Content)
}

func TestParse_ConcatenationReproducesPayload(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"unterminated final line", "one\ntwo\nthree"},
		{"terminated final line", "one\ntwo\nthree\n"},
		{"crlf terminators", "one\r\ntwo\r\n"},
		{"blank lines", "\n\nmiddle\n\n"},
		{"single newline", "\n"},
	}

	parser := New()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			records, err := driven.CollectRecords(context.Background(),
				parser.Parse(domain.NewBlob([]byte(tc.payload))))
			require.NoError(t, err)

			var sb strings.Builder
			for _, rec := range records {
				sb.WriteString(rec.Content)
			}
			assert.Equal(t, tc.payload, sb.String())
		})
	}
}

func TestParse_EmptyPayload(t *testing.T) {
	parser := New()
	records, err := driven.CollectRecords(context.Background(),
		parser.Parse(domain.NewBlob(nil)))

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParse_ArbitraryBytesPassThrough(t *testing.T) {
	parser := New()
	payload := []byte{0xFF, 0xFE, '\n', 0x00, 0x01}

	records, err := driven.CollectRecords(context.Background(),
		parser.Parse(domain.NewBlob(payload)))

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, string([]byte{0xFF, 0xFE, '\n'}), records[0].Content)
	assert.Equal(t, string([]byte{0x00, 0x01}), records[1].Content)
}

func TestParse_PayloadNotOpenedUntilNext(t *testing.T) {
	var opened atomic.Int32
	blob := domain.NewBlobFromOpener(func(ctx context.Context) (io.ReadCloser, error) {
		opened.Add(1)
		return io.NopCloser(strings.NewReader("lazy\nlines\n")), nil
	})

	it := New().Parse(blob)
	assert.Equal(t, int32(0), opened.Load(), "Parse must not touch the payload")

	_, err := it.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), opened.Load())

	require.NoError(t, it.Close())
}

func TestParse_Restartable(t *testing.T) {
	parser := New()
	blob := domain.NewBlob([]byte("x\ny\n"))

	first, err := driven.CollectRecords(context.Background(), parser.Parse(blob))
	require.NoError(t, err)
	second, err := driven.CollectRecords(context.Background(), parser.Parse(blob))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParse_OpenErrorSurfacesOnFirstNext(t *testing.T) {
	blob := domain.NewBlobFromOpener(func(ctx context.Context) (io.ReadCloser, error) {
		return nil, io.ErrUnexpectedEOF
	}, domain.WithOrigin("gs://missing"))

	it := New().Parse(blob)
	defer it.Close()

	_, err := it.Next(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEnumeration)
}

func TestParse_NextAfterClose(t *testing.T) {
	it := New().Parse(domain.NewBlob([]byte("a\nb\n")))
	require.NoError(t, it.Close())

	_, err := it.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)

	// Close is idempotent.
	assert.NoError(t, it.Close())
}

func TestParse_BlobMetadataPropagated(t *testing.T) {
	parser := New()
	blob := domain.NewBlob([]byte("hello\n"),
		domain.WithOrigin("/srv/data.log"),
		domain.WithMetadata(map[string]any{"team": "ops"}))

	records, err := driven.CollectRecords(context.Background(), parser.Parse(blob))
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "ops", records[0].Metadata["team"])
	assert.Equal(t, "/srv/data.log", records[0].Metadata[domain.MetaOrigin])
	assert.Equal(t, 1, records[0].Metadata[domain.MetaLine])
}
