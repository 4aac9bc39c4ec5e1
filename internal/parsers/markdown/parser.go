package markdown

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Parser turns a markdown blob into one record of plain text.
//
// Markdown syntax is stripped from the content and the first H1
// heading, when present, is stored under domain.MetaTitle. Parsing
// never fails: payloads that cannot be decoded under the declared
// encoding pass through byte-for-byte instead. Only payload I/O
// errors surface.
type Parser struct{}

// New creates a new markdown parser.
func New() *Parser {
	return &Parser{}
}

// MIMETypes returns the MIME types this parser handles.
func (p *Parser) MIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Priority returns the selection priority.
func (p *Parser) Priority() int {
	return 55 // Generic format parser, above plain text
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

	text, err := it.blob.Text(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrDecode) {
			return domain.Record{}, err
		}
		// Undecodable under the declared encoding: pass bytes through.
		data, berr := it.blob.Bytes(ctx)
		if berr != nil {
			return domain.Record{}, berr
		}
		text = string(data)
	}

	meta := it.blob.Metadata()
	if meta == nil {
		meta = make(map[string]any, 2)
	}
	meta[domain.MetaOrigin] = it.blob.Origin()
	if title := extractTitle(text); title != "" {
		meta[domain.MetaTitle] = title
	}

	return domain.Record{Content: stripMarkdown(text), Metadata: meta}, nil
}

func (it *iterator) Close() error {
	it.done = true
	return nil
}

// extractTitle returns the first H1 heading, or "" when there is none.
func extractTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}
	return ""
}

var (
	codeBlockRe    = regexp.MustCompile("(?s)```[^`]*```")
	inlineCodeRe   = regexp.MustCompile("`[^`]+`")
	imageRe        = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	linkRe         = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headingRe      = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	blockquoteRe   = regexp.MustCompile(`(?m)^>\s*`)
	hrRe           = regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)
	listMarkerRe   = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	numberedListRe = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	multiNewlineRe = regexp.MustCompile(`\n{3,}`)
)

// stripMarkdown removes common markdown formatting for plain text
// content. This is a simplified implementation that handles common
// cases.
func stripMarkdown(content string) string {
	content = codeBlockRe.ReplaceAllString(content, "")
	content = inlineCodeRe.ReplaceAllString(content, "")
	content = imageRe.ReplaceAllString(content, "")
	content = linkRe.ReplaceAllString(content, "$1")
	content = headingRe.ReplaceAllString(content, "")
	content = blockquoteRe.ReplaceAllString(content, "")
	content = hrRe.ReplaceAllString(content, "")
	content = listMarkerRe.ReplaceAllString(content, "")
	content = numberedListRe.ReplaceAllString(content, "")

	content = strings.ReplaceAll(content, "**", "")
	content = strings.ReplaceAll(content, "__", "")
	content = strings.ReplaceAll(content, "*", "")
	content = strings.ReplaceAll(content, "_", " ")

	content = multiNewlineRe.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
