package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driven"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driving"
	"github.com/custodia-labs/gleaner-cli/internal/core/services"
	"github.com/custodia-labs/gleaner-cli/internal/parsers"
)

// defaultExtractLimit bounds extract tool output when no limit is given.
const defaultExtractLimit = 100

// ExtractInput is the input schema for the extract tool.
// Exactly one of source_id or path selects the input.
type ExtractInput struct {
	SourceID string `json:"source_id,omitempty" jsonschema:"ID of a configured source to extract from"`
	Path     string `json:"path,omitempty" jsonschema:"local directory to extract from ad hoc"`
	Pattern  string `json:"pattern,omitempty" jsonschema:"glob pattern to match file names (e.g. *.csv)"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of records to return (default 100)"`
}

// ExtractOutput is the output schema for the extract tool.
type ExtractOutput struct {
	Records   []RecordOutput `json:"records"`
	Count     int            `json:"count"`
	Truncated bool           `json:"truncated"`
}

// RecordOutput represents a single extracted record.
type RecordOutput struct {
	Origin   string         `json:"origin"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ListSourcesOutput is the output schema for the list_sources tool.
type ListSourcesOutput struct {
	Sources []SourceOutput `json:"sources"`
	Count   int            `json:"count"`
}

// SourceOutput represents a configured source.
type SourceOutput struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract",
		Description: "Extract records from a configured source or an ad-hoc directory",
	}, s.handleExtract)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_sources",
		Description: "List all configured data sources",
	}, s.handleListSources)
}

// handleExtract handles the extract tool invocation.
func (s *Server) handleExtract(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractInput,
) (*mcp.CallToolResult, ExtractOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultExtractLimit
	}

	loader, err := s.buildLoader(ctx, input)
	if err != nil {
		return nil, ExtractOutput{}, err
	}

	it := loader.LazyLoad(ctx)
	defer it.Close()

	output := ExtractOutput{Records: []RecordOutput{}}
	for len(output.Records) < limit {
		rec, err := it.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, ExtractOutput{}, fmt.Errorf("extracting records: %w", err)
		}

		origin, _ := rec.Metadata[domain.MetaOrigin].(string)
		output.Records = append(output.Records, RecordOutput{
			Origin:   origin,
			Content:  rec.Content,
			Metadata: rec.Metadata,
		})
	}
	output.Count = len(output.Records)

	// One extra pull tells us whether the limit cut the sequence short.
	if output.Count == limit {
		if _, err := it.Next(ctx); err == nil {
			output.Truncated = true
		}
	}

	return nil, output, nil
}

// buildLoader resolves the tool input to a loader: a configured source
// by ID, or an ad-hoc filesystem loader for a path.
func (s *Server) buildLoader(ctx context.Context, input ExtractInput) (driving.Loader, error) {
	switch {
	case input.SourceID != "":
		return s.ports.Extract.Loader(ctx, input.SourceID)
	case input.Path != "":
		factory := func() (driven.Parser, error) { return parsers.Defaults(), nil }
		return services.NewFilesystemLoader(input.Path, input.Pattern, services.NopProgress{}, factory)
	default:
		return nil, fmt.Errorf("%w: extract needs source_id or path", domain.ErrInvalidInput)
	}
}

// handleListSources handles the list_sources tool invocation.
func (s *Server) handleListSources(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ListSourcesOutput, error) {
	output := ListSourcesOutput{Sources: []SourceOutput{}}
	if s.ports.Source == nil {
		return nil, output, nil
	}

	sources, err := s.ports.Source.List(ctx)
	if err != nil {
		return nil, ListSourcesOutput{}, fmt.Errorf("listing sources: %w", err)
	}

	for i := range sources {
		output.Sources = append(output.Sources, SourceOutput{
			ID:   sources[i].ID,
			Name: sources[i].DisplayName(),
			Type: sources[i].Type,
		})
	}
	output.Count = len(output.Sources)

	return nil, output, nil
}
