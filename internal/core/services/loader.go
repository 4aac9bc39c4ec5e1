package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driven"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driving"
	"github.com/custodia-labs/gleaner-cli/internal/parsers/line"
	"github.com/custodia-labs/gleaner-cli/internal/sources/filesystem"
	"github.com/custodia-labs/gleaner-cli/internal/sources/gcs"
)

// Ensure GenericLoader implements the interface.
var _ driving.Loader = (*GenericLoader)(nil)

// ParserFactory constructs the parser a named loader feeds blobs into.
// A nil factory selects the line parser.
type ParserFactory func() (driven.Parser, error)

// GenericLoader composes one Source with one Parser, both fixed at
// construction. Every consumption surface replays the same sequence:
// each blob in enumeration order, each of its records in parse order.
// No reordering, no deduplication, no batching.
//
// A GenericLoader is not safe for concurrent consumption; callers
// wanting parallel extraction construct independent loaders.
type GenericLoader struct {
	source   driven.Source
	parser   driven.Parser
	progress driven.ProgressSink
}

// NewGenericLoader pairs a source with a parser. progress receives one
// Advance per enumerated blob; nil disables reporting.
func NewGenericLoader(source driven.Source, parser driven.Parser, progress driven.ProgressSink) *GenericLoader {
	return &GenericLoader{source: source, parser: parser, progress: progress}
}

// LazyLoad returns a pull iterator over the loader's records. No blob
// is enumerated and no payload resolved before the first Next call, so
// abandoning the iterator early skips the remaining work entirely.
func (l *GenericLoader) LazyLoad(ctx context.Context) driven.RecordIterator {
	if l.progress != nil {
		// Total is unknown up front; counting would enumerate twice.
		l.progress.Start("extract", -1)
	}
	return &loadIterator{
		source:   l.source,
		parser:   l.parser,
		progress: l.progress,
	}
}

// Load drains LazyLoad into a slice. On failure the records extracted
// before the error are returned alongside it.
func (l *GenericLoader) Load(ctx context.Context) ([]domain.Record, error) {
	return driven.CollectRecords(ctx, l.LazyLoad(ctx))
}

// Stream drains LazyLoad on a goroutine and delivers records over a
// channel. At most one error is sent; both channels are closed when
// the sequence ends. Cancel ctx to stop early.
func (l *GenericLoader) Stream(ctx context.Context) (<-chan domain.Record, <-chan error) {
	return streamRecords(ctx, l.LazyLoad(ctx))
}

// loadIterator walks blobs in enumeration order, draining each blob's
// records before touching the next blob. The first failure latches:
// every subsequent Next returns the same error. The source is not
// asked for blobs until the first Next call.
type loadIterator struct {
	source   driven.Source
	parser   driven.Parser
	progress driven.ProgressSink
	blobs    driven.BlobIterator
	records  driven.RecordIterator
	err      error
	done     bool
}

func (it *loadIterator) Next(ctx context.Context) (domain.Record, error) {
	if it.err != nil {
		return domain.Record{}, it.err
	}
	if it.blobs == nil {
		it.blobs = it.source.Blobs(ctx)
	}

	for {
		if it.records != nil {
			rec, err := it.records.Next(ctx)
			if err == nil {
				return rec, nil
			}
			if !errors.Is(err, io.EOF) {
				it.err = err
				return domain.Record{}, err
			}
			_ = it.records.Close()
			it.records = nil
		}

		blob, err := it.blobs.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				it.err = io.EOF
				it.markDone()
			} else {
				it.err = err
			}
			return domain.Record{}, it.err
		}
		if it.progress != nil {
			it.progress.Advance(1)
		}
		it.records = it.parser.Parse(blob)
	}
}

func (it *loadIterator) Close() error {
	if it.records != nil {
		_ = it.records.Close()
		it.records = nil
	}
	var err error
	if it.blobs != nil {
		err = it.blobs.Close()
	}
	it.markDone()
	return err
}

func (it *loadIterator) markDone() {
	if it.done {
		return
	}
	it.done = true
	if it.progress != nil {
		it.progress.Done()
	}
}

// streamRecords drains it on a goroutine. At most one error is sent,
// after which both channels are closed.
func streamRecords(ctx context.Context, it driven.RecordIterator) (<-chan domain.Record, <-chan error) {
	records := make(chan domain.Record)
	errs := make(chan error, 1)

	go func() {
		defer close(records)
		defer close(errs)
		defer it.Close()

		for {
			rec, err := it.Next(ctx)
			if err != nil {
				if !errors.Is(err, io.EOF) {
					errs <- err
				}
				return
			}

			select {
			case <-ctx.Done():
				return
			case records <- rec:
			}
		}
	}()

	return records, errs
}

// LoaderOption adjusts optional settings on the named loader
// constructors.
type LoaderOption func(*loaderOptions)

type loaderOptions struct {
	excludePatterns []string
	followHidden    bool
	maxBlobSize     int64
	token           string
	anonymous       bool
}

// WithExcludePatterns skips files and directories matching the
// patterns.
func WithExcludePatterns(patterns ...string) LoaderOption {
	return func(o *loaderOptions) { o.excludePatterns = patterns }
}

// WithFollowHidden includes hidden files and directories when walking.
func WithFollowHidden(follow bool) LoaderOption {
	return func(o *loaderOptions) { o.followHidden = follow }
}

// WithMaxBlobSize skips blobs larger than size bytes.
func WithMaxBlobSize(size int64) LoaderOption {
	return func(o *loaderOptions) { o.maxBlobSize = size }
}

// WithToken authenticates bucket access with an OAuth token.
func WithToken(token string) LoaderOption {
	return func(o *loaderOptions) { o.token = token }
}

// WithAnonymousAccess disables bucket authentication. Public buckets
// only.
func WithAnonymousAccess() LoaderOption {
	return func(o *loaderOptions) { o.anonymous = true }
}

func applyLoaderOptions(opts []LoaderOption) loaderOptions {
	var o loaderOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewFilesystemLoader builds a loader over a directory tree. Files
// matching pattern (all files when empty) are fed to the factory's
// parser.
func NewFilesystemLoader(root, pattern string, progress driven.ProgressSink, factory ParserFactory, opts ...LoaderOption) (*GenericLoader, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: filesystem loader requires a root directory", domain.ErrConfiguration)
	}

	o := applyLoaderOptions(opts)
	cfg := &filesystem.Config{
		Root:            root,
		ExcludePatterns: o.excludePatterns,
		FollowHidden:    o.followHidden,
		MaxBlobSize:     o.maxBlobSize,
	}
	if pattern != "" {
		cfg.IncludePatterns = []string{pattern}
	}

	parser, err := buildParser(factory)
	if err != nil {
		return nil, err
	}
	return NewGenericLoader(filesystem.New(root, cfg), parser, progress), nil
}

// NewBucketLoader builds a loader over objects under prefix in a GCS
// bucket. Objects matching pattern (all objects when empty) are fed to
// the factory's parser.
func NewBucketLoader(bucket, prefix, pattern string, progress driven.ProgressSink, factory ParserFactory, opts ...LoaderOption) (*GenericLoader, error) {
	if bucket == "" {
		return nil, fmt.Errorf("%w: bucket loader requires a bucket", domain.ErrConfiguration)
	}

	o := applyLoaderOptions(opts)
	cfg := &gcs.Config{
		Bucket:      bucket,
		Prefix:      prefix,
		Token:       o.token,
		Anonymous:   o.anonymous,
		MaxBlobSize: o.maxBlobSize,
	}
	if pattern != "" {
		cfg.IncludePatterns = []string{pattern}
	}

	parser, err := buildParser(factory)
	if err != nil {
		return nil, err
	}
	return NewGenericLoader(gcs.New(bucket, cfg), parser, progress), nil
}

func buildParser(factory ParserFactory) (driven.Parser, error) {
	if factory == nil {
		return line.New(), nil
	}
	parser, err := factory()
	if err != nil {
		return nil, fmt.Errorf("construct parser: %w", err)
	}
	if parser == nil {
		return nil, fmt.Errorf("%w: parser factory returned no parser", domain.ErrConfiguration)
	}
	return parser, nil
}
