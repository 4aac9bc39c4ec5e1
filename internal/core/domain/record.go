package domain

import "time"

// Well-known metadata keys stamped onto records during extraction.
const (
	// MetaOrigin carries the origin of the blob a record came from.
	MetaOrigin = "origin"

	// MetaLine is the 1-based line number for line-oriented parsers.
	MetaLine = "line"

	// MetaRow is the 1-based data row number for tabular parsers.
	MetaRow = "row"

	// MetaTitle is a title extracted from structured content.
	MetaTitle = "title"

	// MetaMIMEType records the format a blob was parsed as.
	MetaMIMEType = "mime_type"

	// MetaFilename is the base name of a file-backed blob.
	MetaFilename = "filename"

	// MetaExtension is the lowercase file extension, without the dot.
	MetaExtension = "extension"

	// MetaTags holds caller-supplied labels stamped by the tag processor.
	MetaTags = "tags"
)

// Record is a unit of extracted content plus metadata.
// It is the parser's output and the pipeline's unit of exchange.
// Records are not mutated after construction.
type Record struct {
	// Content is the extracted text.
	Content string

	// Metadata contains arbitrary key-value pairs describing the
	// content: provenance, position, format, caller-supplied tags.
	Metadata map[string]any
}

// NewRecord builds a Record with its own copy of metadata, so later
// mutation of the argument cannot reach the record.
func NewRecord(content string, metadata map[string]any) Record {
	r := Record{Content: content}
	if len(metadata) > 0 {
		r.Metadata = make(map[string]any, len(metadata))
		for k, v := range metadata {
			r.Metadata[k] = v
		}
	}
	return r
}

// Origin returns the record's provenance, or "" when untracked.
func (r Record) Origin() string {
	if v, ok := r.Metadata[MetaOrigin].(string); ok {
		return v
	}
	return ""
}

// StoredRecord is a Record persisted with identity and provenance.
type StoredRecord struct {
	// ID is the unique identifier for the record.
	ID string

	// RunID links to the ExtractionRun that produced this record.
	RunID string

	// SourceID links to the SourceConfig that produced this record.
	SourceID string

	// Origin is the blob origin the record was extracted from.
	Origin string

	// Content is the extracted text.
	Content string

	// Metadata contains the record's key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the record was extracted.
	CreatedAt time.Time
}
