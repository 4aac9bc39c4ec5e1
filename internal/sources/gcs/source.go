// Package gcs implements a blob source over a Google Cloud Storage
// bucket.
//
// Enumeration pages through the bucket listing lazily: a page of
// object metadata is fetched only when the consumer has drained the
// previous one, and object payloads are downloaded only when first
// read. Origins use the gs://bucket/name form.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	storage "google.golang.org/api/storage/v1"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driven"
)

// Ensure Source implements the interfaces.
var (
	_ driven.Source  = (*Source)(nil)
	_ driven.Counter = (*Source)(nil)
)

// pageSize is the listing page size.
const pageSize = 1000

// Source enumerates objects in a GCS bucket.
type Source struct {
	sourceID string
	config   *Config
	limiter  *rateLimiter

	mu     sync.Mutex
	svc    *storage.Service
	closed bool
}

// New creates a new GCS source.
func New(sourceID string, cfg *Config) *Source {
	return &Source{
		sourceID: sourceID,
		config:   cfg,
		limiter:  newRateLimiter(),
	}
}

// Type returns the source type identifier.
func (s *Source) Type() string {
	return "gcs"
}

// ensureService initialises the storage service if not already done.
func (s *Source) ensureService(ctx context.Context) (*storage.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, domain.ErrSourceClosed
	}
	if s.svc != nil {
		return s.svc, nil
	}

	var opts []option.ClientOption
	switch {
	case s.config.Token != "":
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: s.config.Token})
		opts = append(opts, option.WithTokenSource(ts))
	case s.config.Anonymous:
		opts = append(opts, option.WithoutAuthentication())
	}

	svc, err := storage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: creating storage client: %v", domain.ErrAuthRequired, err)
	}
	s.svc = svc
	return svc, nil
}

// Validate checks the bucket exists and is accessible.
func (s *Source) Validate(ctx context.Context) error {
	svc, err := s.ensureService(ctx)
	if err != nil {
		return err
	}

	if err := s.limiter.wait(ctx); err != nil {
		return err
	}

	_, err = svc.Buckets.Get(s.config.Bucket).Context(ctx).Do()
	switch {
	case err == nil:
		return nil
	case statusCode(err) == 404:
		return fmt.Errorf("%w: bucket %s not found", domain.ErrConfiguration, s.config.Bucket)
	case statusCode(err) == 401 || statusCode(err) == 403:
		return fmt.Errorf("%w: %v", domain.ErrAuthRequired, err)
	default:
		return err
	}
}

// Blobs pages through the bucket listing and yields one blob per
// matching object. Pages are fetched on demand; payloads are
// downloaded only when read.
func (s *Source) Blobs(_ context.Context) driven.BlobIterator {
	return &objectIterator{src: s}
}

// Count pages through the listing and counts matching objects.
func (s *Source) Count(ctx context.Context) (int, error) {
	count := 0
	pageToken := ""
	for {
		objects, next, err := s.listPage(ctx, pageToken)
		if err != nil {
			return 0, err
		}
		count += len(objects)
		if next == "" {
			return count, nil
		}
		pageToken = next
	}
}

// Close releases resources. Idempotent.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// listPage fetches one page of matching objects.
func (s *Source) listPage(ctx context.Context, pageToken string) ([]*storage.Object, string, error) {
	svc, err := s.ensureService(ctx)
	if err != nil {
		return nil, "", err
	}

	if err := s.limiter.wait(ctx); err != nil {
		return nil, "", err
	}

	call := svc.Objects.List(s.config.Bucket).
		MaxResults(pageSize).
		Context(ctx)
	if s.config.Prefix != "" {
		call = call.Prefix(s.config.Prefix)
	}
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Do()
	if err != nil {
		if statusCode(err) == 429 {
			s.limiter.recordRateLimitError(retryAfterSeconds(err))
			return nil, "", fmt.Errorf("%w: listing gs://%s: %v", domain.ErrRateLimited, s.config.Bucket, err)
		}
		return nil, "", fmt.Errorf("%w: listing gs://%s: %v", domain.ErrEnumeration, s.config.Bucket, err)
	}

	objects := make([]*storage.Object, 0, len(resp.Items))
	for _, obj := range resp.Items {
		if !s.wantObject(obj) {
			continue
		}
		objects = append(objects, obj)
	}
	return objects, resp.NextPageToken, nil
}

// wantObject applies the listing filters: pattern match and size cap.
// Zero-byte names ending in "/" are directory placeholders.
func (s *Source) wantObject(obj *storage.Object) bool {
	if strings.HasSuffix(obj.Name, "/") && obj.Size == 0 {
		return false
	}
	if !matchesPatterns(obj.Name, s.config.IncludePatterns) {
		return false
	}
	if s.config.MaxBlobSize > 0 && obj.Size > uint64(s.config.MaxBlobSize) {
		return false
	}
	return true
}

// blobFor builds a deferred-payload blob for an object.
func (s *Source) blobFor(obj *storage.Object) domain.Blob {
	bucket := s.config.Bucket
	name := obj.Name
	base := filepath.Base(name)

	open := func(ctx context.Context) (io.ReadCloser, error) {
		svc, err := s.ensureService(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.limiter.wait(ctx); err != nil {
			return nil, err
		}
		resp, err := svc.Objects.Get(bucket, name).Context(ctx).Download()
		if err != nil {
			if statusCode(err) == 429 {
				s.limiter.recordRateLimitError(retryAfterSeconds(err))
			}
			return nil, err
		}
		return resp.Body, nil
	}

	return domain.NewBlobFromOpener(open,
		domain.WithOrigin(buildOrigin(bucket, name)),
		domain.WithMIMEType(objectMIMEType(obj)),
		domain.WithMetadata(map[string]any{
			domain.MetaFilename:  base,
			domain.MetaExtension: strings.TrimPrefix(filepath.Ext(base), "."),
			"bucket":             bucket,
			"path":               name,
			"size":               int64(obj.Size),
			"updated":            obj.Updated,
			"generation":         obj.Generation,
		}),
	)
}

// objectMIMEType prefers the stored content type, falling back to the
// extension for missing or generic values.
func objectMIMEType(obj *storage.Object) string {
	ct := strings.TrimSpace(obj.ContentType)
	if idx := strings.Index(ct, ";"); idx != -1 {
		ct = strings.TrimSpace(ct[:idx])
	}
	if ct != "" && ct != "application/octet-stream" {
		return ct
	}
	return detectMIMEType(obj.Name)
}

// buildOrigin creates the canonical origin for an object.
func buildOrigin(bucket, name string) string {
	return fmt.Sprintf("gs://%s/%s", bucket, name)
}

// statusCode extracts the HTTP status from a googleapi error.
func statusCode(err error) int {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}

// retryAfterSeconds extracts a Retry-After hint from a googleapi error.
func retryAfterSeconds(err error) int {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Header != nil {
		if retry := apiErr.Header.Get("Retry-After"); retry != "" {
			var seconds int
			if _, scanErr := fmt.Sscanf(retry, "%d", &seconds); scanErr == nil {
				return seconds
			}
		}
	}
	return 0
}

// objectIterator yields blobs page by page. The first page is fetched
// on the first Next call.
type objectIterator struct {
	src       *Source
	buffer    []*storage.Object
	pos       int
	pageToken string
	started   bool
	done      bool
}

func (it *objectIterator) Next(ctx context.Context) (domain.Blob, error) {
	if it.done {
		return domain.Blob{}, io.EOF
	}
	if err := ctx.Err(); err != nil {
		return domain.Blob{}, err
	}

	for {
		if it.pos < len(it.buffer) {
			obj := it.buffer[it.pos]
			it.pos++
			return it.src.blobFor(obj), nil
		}

		if it.started && it.pageToken == "" {
			it.done = true
			return domain.Blob{}, io.EOF
		}

		objects, next, err := it.src.listPage(ctx, it.pageToken)
		if err != nil {
			it.done = true
			return domain.Blob{}, err
		}
		it.buffer = objects
		it.pos = 0
		it.pageToken = next
		it.started = true
	}
}

func (it *objectIterator) Close() error {
	it.done = true
	it.buffer = nil
	return nil
}
