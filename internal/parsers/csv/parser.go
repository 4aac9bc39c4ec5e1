// Package csv parses delimiter-separated blobs into one record per row.
package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Parser turns each CSV row into a record.
//
// With a header row (the default), the first row names the columns and
// every data row becomes "column: value" lines. Without one, rows
// become their fields joined with ", ". Rows are stamped with their
// 1-based data row number under domain.MetaRow.
//
// Malformed CSV fails fast with domain.ErrDecode; rows yielded before
// the bad row remain valid.
type Parser struct {
	comma  rune
	header bool
}

// Option configures a Parser at construction.
type Option func(*Parser)

// WithComma sets the field delimiter. Default is ','.
func WithComma(comma rune) Option {
	return func(p *Parser) { p.comma = comma }
}

// WithHeader controls whether the first row names the columns.
// Default is true.
func WithHeader(header bool) Option {
	return func(p *Parser) { p.header = header }
}

// New creates a new CSV parser.
func New(opts ...Option) *Parser {
	p := &Parser{comma: ',', header: true}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// MIMETypes returns the MIME types this parser handles. A parser
// configured for tabs claims TSV instead of CSV.
func (p *Parser) MIMETypes() []string {
	if p.comma == '\t' {
		return []string{"text/tab-separated-values"}
	}
	return []string{"text/csv"}
}

// Priority returns the selection priority.
func (p *Parser) Priority() int {
	return 60 // Generic format parser, above plain text
}

// Parse returns a lazy iterator over the blob's rows. The payload is
// not resolved until the first Next call.
func (p *Parser) Parse(blob domain.Blob) driven.RecordIterator {
	return &iterator{blob: blob, comma: p.comma, header: p.header}
}

type iterator struct {
	blob    domain.Blob
	comma   rune
	header  bool
	reader  *csv.Reader
	columns []string
	row     int
	done    bool
}

func (it *iterator) Next(ctx context.Context) (domain.Record, error) {
	if it.done {
		return domain.Record{}, io.EOF
	}
	if err := ctx.Err(); err != nil {
		return domain.Record{}, err
	}

	if it.reader == nil {
		if err := it.start(ctx); err != nil {
			it.done = true
			return domain.Record{}, err
		}
	}

	fields, err := it.reader.Read()
	if err != nil {
		it.done = true
		if errors.Is(err, io.EOF) {
			return domain.Record{}, io.EOF
		}
		return domain.Record{}, fmt.Errorf("%w: parsing %s: %v", domain.ErrDecode, origin(it.blob), err)
	}

	it.row++
	return domain.Record{
		Content:  it.rowContent(fields),
		Metadata: it.rowMetadata(),
	}, nil
}

// start resolves and decodes the payload, then consumes the header row
// if one is expected.
func (it *iterator) start(ctx context.Context) error {
	text, err := it.blob.Text(ctx)
	if err != nil {
		return err
	}

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = it.comma
	it.reader = r

	if !it.header {
		return nil
	}
	columns, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			// Empty payload: no header, no rows.
			return nil
		}
		return fmt.Errorf("%w: parsing %s header: %v", domain.ErrDecode, origin(it.blob), err)
	}
	it.columns = columns
	return nil
}

func (it *iterator) rowContent(fields []string) string {
	if len(it.columns) == 0 {
		return strings.Join(fields, ", ")
	}
	lines := make([]string, 0, len(fields))
	for i, field := range fields {
		lines = append(lines, it.columns[i]+": "+field)
	}
	return strings.Join(lines, "\n")
}

func (it *iterator) rowMetadata() map[string]any {
	meta := it.blob.Metadata()
	if meta == nil {
		meta = make(map[string]any, 2)
	}
	meta[domain.MetaOrigin] = it.blob.Origin()
	meta[domain.MetaRow] = it.row
	return meta
}

func (it *iterator) Close() error {
	it.done = true
	return nil
}

func origin(blob domain.Blob) string {
	if blob.Origin() == "" {
		return "in-memory blob"
	}
	return blob.Origin()
}
