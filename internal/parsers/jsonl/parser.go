// Package jsonl parses JSON Lines blobs into one record per line.
package jsonl

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Parser turns each JSON line into a record.
//
// The configured content field becomes the record content and the
// remaining top-level fields become metadata. Lines whose content
// field is missing or not a string keep the raw JSON as content.
// Blank lines are skipped but still counted, so domain.MetaLine always
// matches the physical line number.
//
// Invalid JSON fails fast with domain.ErrDecode; WithSkipInvalid opts
// into skipping bad lines instead.
type Parser struct {
	contentField string
	skipInvalid  bool
}

// Option configures a Parser at construction.
type Option func(*Parser)

// WithContentField names the top-level field used as record content.
// Default is "content".
func WithContentField(field string) Option {
	return func(p *Parser) { p.contentField = field }
}

// WithSkipInvalid makes the parser skip lines that are not valid JSON
// objects instead of failing the iteration.
func WithSkipInvalid(skip bool) Option {
	return func(p *Parser) { p.skipInvalid = skip }
}

// New creates a new JSON Lines parser.
func New(opts ...Option) *Parser {
	p := &Parser{contentField: "content"}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// MIMETypes returns the MIME types this parser handles.
func (p *Parser) MIMETypes() []string {
	return []string{"application/jsonl", "application/x-ndjson"}
}

// Priority returns the selection priority.
func (p *Parser) Priority() int {
	return 60 // Generic format parser, above plain text
}

// Parse returns a lazy iterator over the blob's JSON lines. The
// payload is not resolved until the first Next call.
func (p *Parser) Parse(blob domain.Blob) driven.RecordIterator {
	return &iterator{blob: blob, contentField: p.contentField, skipInvalid: p.skipInvalid}
}

type iterator struct {
	blob         domain.Blob
	contentField string
	skipInvalid  bool
	rc           io.ReadCloser
	r            *bufio.Reader
	line         int
	done         bool
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

	for {
		text, err := it.r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			it.done = true
			return domain.Record{}, fmt.Errorf("%w: reading %s: %v", domain.ErrEnumeration, origin(it.blob), err)
		}
		last := errors.Is(err, io.EOF)
		if text == "" && last {
			it.done = true
			return domain.Record{}, io.EOF
		}

		it.line++
		if last {
			it.done = true
		}

		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			if last {
				return domain.Record{}, io.EOF
			}
			continue
		}

		rec, err := it.decodeLine(trimmed)
		if err != nil {
			if it.skipInvalid {
				if last {
					return domain.Record{}, io.EOF
				}
				continue
			}
			it.done = true
			return domain.Record{}, err
		}
		return rec, nil
	}
}

// decodeLine unmarshals one JSON object and splits it into content and
// metadata.
func (it *iterator) decodeLine(text string) (domain.Record, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return domain.Record{}, fmt.Errorf("%w: %s line %d: %v", domain.ErrDecode, origin(it.blob), it.line, err)
	}

	content := text
	if v, ok := obj[it.contentField].(string); ok {
		content = v
		delete(obj, it.contentField)
	}

	meta := it.blob.Metadata()
	if meta == nil {
		meta = make(map[string]any, len(obj)+2)
	}
	for k, v := range obj {
		meta[k] = v
	}
	meta[domain.MetaOrigin] = it.blob.Origin()
	meta[domain.MetaLine] = it.line

	return domain.Record{Content: content, Metadata: meta}, nil
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

func origin(blob domain.Blob) string {
	if blob.Origin() == "" {
		return "in-memory blob"
	}
	return blob.Origin()
}
