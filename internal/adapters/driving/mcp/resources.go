package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for Gleaner resources.
	uriScheme = "gleaner://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing sources.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sources",
		Name:        "sources",
		Description: "List of all configured data sources",
		MIMEType:    "application/json",
	}, s.handleSourcesResource)

	// Template for source records.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "sources/{sourceId}/records",
		Name:        "source-records",
		Description: "Records extracted from a specific source",
		MIMEType:    "application/json",
	}, s.handleRecordsResource)

	// Template for record content.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "records/{recordId}",
		Name:        "record-content",
		Description: "A single extracted record with its metadata",
		MIMEType:    "application/json",
	}, s.handleRecordContentResource)
}

// handleSourcesResource returns a list of all configured sources.
func (s *Server) handleSourcesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Source == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	sources, err := s.ports.Source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}

	// Build simplified source list.
	type sourceInfo struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"`
		URI  string `json:"uri"`
	}

	infos := make([]sourceInfo, len(sources))
	for i, src := range sources {
		// Get path from config if available (filesystem sources).
		uri := ""
		if path, ok := src.Config["path"]; ok {
			uri = path
		}
		infos[i] = sourceInfo{
			ID:   src.ID,
			Name: src.Name,
			Type: src.Type,
			URI:  uri,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling sources: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleRecordsResource returns records for a specific source.
func (s *Server) handleRecordsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Records == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract sourceId from URI: gleaner://sources/{sourceId}/records
	sourceID := extractSourceID(req.Params.URI)
	if sourceID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	records, err := s.ports.Records.ListBySource(ctx, sourceID, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}

	// Build simplified record list.
	type recordInfo struct {
		ID     string `json:"id"`
		Origin string `json:"origin"`
	}

	infos := make([]recordInfo, len(records))
	for i := range records {
		infos[i] = recordInfo{
			ID:     records[i].ID,
			Origin: records[i].Origin,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling records: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleRecordContentResource returns one record with its metadata.
func (s *Server) handleRecordContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Records == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract recordId from URI: gleaner://records/{recordId}
	recordID := extractRecordID(req.Params.URI)
	if recordID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	rec, err := s.ports.Records.Get(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("getting record: %w", err)
	}

	data, err := json.MarshalIndent(RecordOutput{
		Origin:   rec.Origin,
		Content:  rec.Content,
		Metadata: rec.Metadata,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling record: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractSourceID extracts the source ID from a URI like gleaner://sources/{sourceId}/records.
func extractSourceID(uri string) string {
	const prefix = uriScheme + "sources/"
	const suffix = "/records"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}

// extractRecordID extracts the record ID from a URI like gleaner://records/{recordId}.
func extractRecordID(uri string) string {
	const prefix = uriScheme + "records/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
