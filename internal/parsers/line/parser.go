package line

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Parser splits a blob into one record per line.
//
// Lines keep their terminator; only a trailing line without one is
// yielded bare, so concatenating all records reproduces the payload
// byte-for-byte. Each record is stamped with its 1-based line number
// under domain.MetaLine.
//
// Content passes through undecoded, so parsing itself never fails;
// only payload I/O can. This makes line the fallback for blobs no
// other parser claims.
type Parser struct{}

// New creates a new line parser.
func New() *Parser {
	return &Parser{}
}

// MIMETypes returns the MIME types this parser handles.
func (p *Parser) MIMETypes() []string {
	return []string{"*/*"}
}

// Priority returns the selection priority.
func (p *Parser) Priority() int {
	return 5 // Fallback parser
}

// Parse returns a lazy iterator over the blob's lines. The payload is
// not opened until the first Next call, and each Parse reads the blob
// afresh from the start.
func (p *Parser) Parse(blob domain.Blob) driven.RecordIterator {
	return &iterator{blob: blob}
}

type iterator struct {
	blob domain.Blob
	rc   io.ReadCloser
	r    *bufio.Reader
	line int
	done bool
}

func (it *iterator) Next(ctx context.Context) (domain.Record, error) {
	if it.done {
		return domain.Record{}, io.EOF
	}
	if err := ctx.Err(); err != nil {
		return domain.Record{}, err
	}

	if it.r == nil {
		rc, err := it.blob.Reader(ctx)
		if err != nil {
			it.done = true
			return domain.Record{}, err
		}
		it.rc = rc
		it.r = bufio.NewReader(rc)
	}

	text, err := it.r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		it.done = true
		return domain.Record{}, fmt.Errorf("%w: reading %s: %v", domain.ErrEnumeration, origin(it.blob), err)
	}
	if text == "" {
		it.done = true
		return domain.Record{}, io.EOF
	}
	if errors.Is(err, io.EOF) {
		// Final line without terminator; yield it, then stop.
		it.done = true
	}

	it.line++
	return domain.Record{
		Content:  text,
		Metadata: lineMetadata(it.blob, it.line),
	}, nil
}

func (it *iterator) Close() error {
	it.done = true
	if it.rc == nil {
		return nil
	}
	rc := it.rc
	it.rc = nil
	return rc.Close()
}

func lineMetadata(blob domain.Blob, line int) map[string]any {
	meta := blob.Metadata()
	if meta == nil {
		meta = make(map[string]any, 2)
	}
	meta[domain.MetaOrigin] = blob.Origin()
	meta[domain.MetaLine] = line
	return meta
}

func origin(blob domain.Blob) string {
	if blob.Origin() == "" {
		return "in-memory blob"
	}
	return blob.Origin()
}
