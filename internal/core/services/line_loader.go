package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driven"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driving"
	"github.com/custodia-labs/gleaner-cli/internal/parsers/line"
)

// Ensure LineLoader implements the interface.
var _ driving.Loader = (*LineLoader)(nil)

// LineLoader reads one file and yields a record per line, stamped with
// the file origin and a 1-based line number. It is the smallest useful
// loader: a path fixed at construction, no source or registry wiring.
type LineLoader struct {
	path     string
	encoding string
	parser   driven.Parser
}

// NewLineLoader builds a loader over the file at path. encoding is an
// IANA charset name the payload is decoded from while reading; empty
// means UTF-8.
func NewLineLoader(path, encoding string) *LineLoader {
	return &LineLoader{
		path:     path,
		encoding: encoding,
		parser:   line.New(),
	}
}

// LazyLoad returns an iterator over the file's lines. The file is not
// opened until the first Next call; a missing file or unknown encoding
// surfaces there.
func (l *LineLoader) LazyLoad(_ context.Context) driven.RecordIterator {
	return l.parser.Parse(l.blob())
}

// Load drains LazyLoad into a slice.
func (l *LineLoader) Load(ctx context.Context) ([]domain.Record, error) {
	return driven.CollectRecords(ctx, l.LazyLoad(ctx))
}

// Stream delivers the file's lines over a channel.
func (l *LineLoader) Stream(ctx context.Context) (<-chan domain.Record, <-chan error) {
	return streamRecords(ctx, l.LazyLoad(ctx))
}

func (l *LineLoader) blob() domain.Blob {
	meta := domain.WithMetadata(map[string]any{
		domain.MetaFilename: filepath.Base(l.path),
	})
	if l.encoding == "" {
		return domain.NewBlobFromFile(l.path, domain.WithMIMEType("text/plain"), meta)
	}

	// The line parser passes bytes through undecoded, so a non-UTF-8
	// file is decoded in the opener instead.
	open := func(ctx context.Context) (io.ReadCloser, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		enc, err := ianaindex.IANA.Encoding(l.encoding)
		if err != nil || enc == nil {
			return nil, fmt.Errorf("%w: unknown encoding %q", domain.ErrDecode, l.encoding)
		}
		f, err := os.Open(l.path)
		if err != nil {
			return nil, err
		}
		return decodingReader{Reader: transform.NewReader(f, enc.NewDecoder()), closer: f}, nil
	}
	return domain.NewBlobFromOpener(open,
		domain.WithOrigin(l.path),
		domain.WithMIMEType("text/plain"),
		meta,
	)
}

type decodingReader struct {
	io.Reader
	closer io.Closer
}

func (r decodingReader) Close() error { return r.closer.Close() }
