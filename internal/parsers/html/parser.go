package html

import (
	"context"
	"errors"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Parser turns an HTML blob into one record of readable text.
//
// Script, style and head sections are removed, remaining tags are
// stripped, entities are decoded, and the <title> text (when present)
// is stored under domain.MetaTitle. Parsing never fails: payloads that
// cannot be decoded under the declared encoding pass through
// byte-for-byte instead. Only payload I/O errors surface.
type Parser struct{}

// New creates a new HTML parser.
func New() *Parser {
	return &Parser{}
}

// MIMETypes returns the MIME types this parser handles.
func (p *Parser) MIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
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

	return domain.Record{Content: stripHTML(text), Metadata: meta}, nil
}

func (it *iterator) Close() error {
	it.done = true
	return nil
}

// Pre-compiled regular expressions for HTML parsing performance.
var (
	titleTag          = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	scriptTag         = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag          = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag       = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headTag           = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	svgTag            = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)
	htmlComments      = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockElements     = regexp.MustCompile(`(?i)</(p|div|br|hr|h[1-6]|li|tr|blockquote|pre|table|section|article)>`)
	openBlockElements = regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)[^>]*>`)
	brTags            = regexp.MustCompile(`(?i)<br\s*/?>`)
	hrTags            = regexp.MustCompile(`(?i)<hr\s*/?>`)
	allTags           = regexp.MustCompile(`<[^>]+>`)
	multiSpaces       = regexp.MustCompile(`[ \t]+`)
	multiNewlines     = regexp.MustCompile(`\n{3,}`)
)

// extractTitle returns the decoded <title> text, or "" when there is none.
func extractTitle(content string) string {
	matches := titleTag.FindStringSubmatch(content)
	if len(matches) < 2 {
		return ""
	}
	return html.UnescapeString(strings.TrimSpace(matches[1]))
}

// stripHTML removes HTML tags and extracts readable text content.
func stripHTML(content string) string {
	// Remove script, style, noscript, head, and svg sections entirely
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = noscriptTag.ReplaceAllString(content, "")
	content = headTag.ReplaceAllString(content, "")
	content = svgTag.ReplaceAllString(content, "")

	// Remove HTML comments
	content = htmlComments.ReplaceAllString(content, "")

	// Add newlines around block elements for readability
	content = openBlockElements.ReplaceAllString(content, "\n")
	content = blockElements.ReplaceAllString(content, "\n")

	// Convert <br> and <hr> to newlines
	content = brTags.ReplaceAllString(content, "\n")
	content = hrTags.ReplaceAllString(content, "\n")

	// Strip all remaining HTML tags
	content = allTags.ReplaceAllString(content, "")

	// Decode HTML entities
	content = html.UnescapeString(content)

	// Collapse multiple spaces (but preserve newlines)
	content = multiSpaces.ReplaceAllString(content, " ")
	content = multiNewlines.ReplaceAllString(content, "\n\n")

	// Trim each line and remove empty lines
	lines := strings.Split(content, "\n")
	var result []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}
