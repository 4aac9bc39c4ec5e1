package parsers

import (
	"github.com/custodia-labs/gleaner-cli/internal/parsers/csv"
	"github.com/custodia-labs/gleaner-cli/internal/parsers/html"
	"github.com/custodia-labs/gleaner-cli/internal/parsers/jsonl"
	"github.com/custodia-labs/gleaner-cli/internal/parsers/line"
	"github.com/custodia-labs/gleaner-cli/internal/parsers/markdown"
	"github.com/custodia-labs/gleaner-cli/internal/parsers/registry"
	"github.com/custodia-labs/gleaner-cli/internal/parsers/text"
)

// Defaults returns a registry with every built-in parser registered:
// the format parsers for text, CSV, TSV, JSON Lines, Markdown and HTML,
// and the line parser as the universal fallback.
func Defaults() *registry.Registry {
	reg := registry.New()
	reg.Register(text.New())
	reg.Register(csv.New())
	reg.Register(csv.New(csv.WithComma('\t')))
	reg.Register(jsonl.New())
	reg.Register(markdown.New())
	reg.Register(html.New())
	reg.Register(line.New())
	return reg
}
