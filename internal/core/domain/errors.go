package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates an unknown source or parser type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrExtractionInProgress indicates an extraction is already running.
	ErrExtractionInProgress = errors.New("extraction in progress")

	// Pipeline Errors.

	// ErrConfiguration indicates a source or parser was constructed
	// with missing or inconsistent parameters. Raised at construction
	// or validation time, never mid-iteration.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrEnumeration indicates listing blobs or resolving a payload
	// failed (storage unreachable, permission denied). Iteration halts
	// immediately; blobs already yielded remain valid.
	ErrEnumeration = errors.New("enumeration failed")

	// ErrDecode indicates content could not be interpreted under the
	// declared encoding or format. Whether a parser fails fast or skips
	// the offending input is documented per parser.
	ErrDecode = errors.New("decode failed")

	// ErrSourceClosed indicates the source has been closed.
	ErrSourceClosed = errors.New("source closed")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrAuthRequired indicates the source requires authentication but
	// none is configured.
	ErrAuthRequired = errors.New("authentication required")
)
