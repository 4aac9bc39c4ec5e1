package text

import (
	"context"
	"io"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Parser turns a whole blob into exactly one record.
//
// The payload is decoded under the blob's declared encoding; content
// that cannot be decoded fails with domain.ErrDecode.
type Parser struct{}

// New creates a new text parser.
func New() *Parser {
	return &Parser{}
}

// MIMETypes returns the MIME types this parser handles.
func (p *Parser) MIMETypes() []string {
	return []string{"text/plain"}
}

// Priority returns the selection priority.
func (p *Parser) Priority() int {
	return 50 // Generic format parser
}

// Parse returns a single-record iterator. The payload is not resolved
// until the first Next call.
func (p *Parser) Parse(blob domain.Blob) driven.RecordIterator {
	return &iterator{blob: blob}
}

type iterator struct {
	blob domain.Blob
	done bool
}

func (it *iterator) Next(ctx context.Context) (domain.Record, error) {
	if it.done {
		return domain.Record{}, io.EOF
	}
	if err := ctx.Err(); err != nil {
		return domain.Record{}, err
	}
	it.done = true

	content, err := it.blob.Text(ctx)
	if err != nil {
		return domain.Record{}, err
	}

	meta := it.blob.Metadata()
	if meta == nil {
		meta = make(map[string]any, 1)
	}
	meta[domain.MetaOrigin] = it.blob.Origin()

	return domain.Record{Content: content, Metadata: meta}, nil
}

func (it *iterator) Close() error {
	it.done = true
	return nil
}
