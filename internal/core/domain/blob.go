package domain

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/ianaindex"
)

// OpenFunc resolves a blob's payload on demand. It is called once per
// read, so implementations must be restartable: each call returns a
// fresh reader positioned at the start of the content.
type OpenFunc func(ctx context.Context) (io.ReadCloser, error)

// Blob represents raw content by reference. The payload is not touched
// until Bytes, Reader or Text is called, which keeps enumeration cheap
// even when the origin is large or remote.
type Blob struct {
	origin   string
	mimeType string
	encoding string
	metadata map[string]any
	data     []byte
	open     OpenFunc
}

// BlobOption configures a Blob at construction.
type BlobOption func(*Blob)

// WithOrigin sets the origin (file path, URL, logical name).
func WithOrigin(origin string) BlobOption {
	return func(b *Blob) { b.origin = origin }
}

// WithMIMEType sets the content type hint (e.g., "text/csv").
func WithMIMEType(mimeType string) BlobOption {
	return func(b *Blob) { b.mimeType = mimeType }
}

// WithEncoding sets the character encoding hint as an IANA name
// (e.g., "latin-1"). Empty means UTF-8.
func WithEncoding(encoding string) BlobOption {
	return func(b *Blob) { b.encoding = encoding }
}

// WithMetadata merges key-value pairs into the blob's metadata.
func WithMetadata(metadata map[string]any) BlobOption {
	return func(b *Blob) {
		if b.metadata == nil {
			b.metadata = make(map[string]any, len(metadata))
		}
		for k, v := range metadata {
			b.metadata[k] = v
		}
	}
}

// NewBlob wraps bytes already held in memory.
func NewBlob(data []byte, opts ...BlobOption) Blob {
	b := Blob{data: data}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// NewBlobFromFile references a file on disk without opening it. The
// file is opened on each payload read. Origin defaults to the path.
func NewBlobFromFile(path string, opts ...BlobOption) Blob {
	b := Blob{
		origin: path,
		open: func(ctx context.Context) (io.ReadCloser, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			f, err := os.Open(path)
			if err != nil {
				return nil, err
			}
			return f, nil
		},
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// NewBlobFromOpener references content resolved by open.
func NewBlobFromOpener(open OpenFunc, opts ...BlobOption) Blob {
	b := Blob{open: open}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Origin returns the blob's origin, or "" for purely in-memory content.
func (b Blob) Origin() string { return b.origin }

// MIMEType returns the content type hint, or "" when unknown.
func (b Blob) MIMEType() string { return b.mimeType }

// Encoding returns the character encoding hint, or "" for UTF-8.
func (b Blob) Encoding() string { return b.encoding }

// Deferred reports whether the payload still lives at the origin
// rather than in memory.
func (b Blob) Deferred() bool { return b.open != nil }

// Metadata returns a copy of the blob's metadata. Mutating the copy
// does not affect the blob.
func (b Blob) Metadata() map[string]any {
	if b.metadata == nil {
		return nil
	}
	out := make(map[string]any, len(b.metadata))
	for k, v := range b.metadata {
		out[k] = v
	}
	return out
}

// Reader returns the payload as a stream. Deferred payloads are
// resolved on each call; the caller owns the returned reader.
func (b Blob) Reader(ctx context.Context) (io.ReadCloser, error) {
	if b.open == nil {
		return io.NopCloser(bytes.NewReader(b.data)), nil
	}
	rc, err := b.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", ErrEnumeration, b.describe(), err)
	}
	return rc, nil
}

// Bytes returns the payload, resolving it if deferred. Each call on a
// deferred blob re-reads the origin.
func (b Blob) Bytes(ctx context.Context) ([]byte, error) {
	if b.open == nil {
		return b.data, nil
	}
	rc, err := b.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", ErrEnumeration, b.describe(), err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrEnumeration, b.describe(), err)
	}
	return data, nil
}

// Text returns the payload decoded according to the encoding hint.
func (b Blob) Text(ctx context.Context) (string, error) {
	data, err := b.Bytes(ctx)
	if err != nil {
		return "", err
	}

	name := strings.ToLower(strings.TrimSpace(b.encoding))
	switch name {
	case "", "utf-8", "utf8":
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: %s is not valid UTF-8", ErrDecode, b.describe())
		}
		return string(data), nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return "", fmt.Errorf("%w: unknown encoding %q", ErrDecode, b.encoding)
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%w: decoding %s as %s: %v", ErrDecode, b.describe(), b.encoding, err)
	}
	return string(decoded), nil
}

func (b Blob) describe() string {
	if b.origin == "" {
		return "in-memory blob"
	}
	return b.origin
}

// ChangeType represents the type of blob change.
type ChangeType int

const (
	// ChangeCreated indicates new content at an origin.
	ChangeCreated ChangeType = iota

	// ChangeUpdated indicates modified content.
	ChangeUpdated

	// ChangeDeleted indicates a removed origin.
	ChangeDeleted
)

// BlobChange represents a change event from a watching source.
// For deletions the blob carries only the origin.
type BlobChange struct {
	// Type is the kind of change.
	Type ChangeType

	// Blob is the affected content.
	Blob Blob
}
