package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driven"
)

// Ensure Source implements the interfaces.
var (
	_ driven.Source  = (*Source)(nil)
	_ driven.Counter = (*Source)(nil)
)

// maxFileSize skips files above 1MB; the blob API inlines content only
// up to that size.
const maxFileSize = 1024 * 1024

// Source enumerates files from a GitHub repository tree.
type Source struct {
	sourceID string
	config   *Config

	mu     sync.Mutex
	api    *client
	closed bool
}

// New creates a new GitHub source.
func New(sourceID string, cfg *Config) *Source {
	return &Source{sourceID: sourceID, config: cfg}
}

// Type returns the source type identifier.
func (s *Source) Type() string {
	return "github"
}

// ensureClient initialises the API client if not already done.
func (s *Source) ensureClient(ctx context.Context) (*client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, domain.ErrSourceClosed
	}
	if s.api == nil {
		s.api = newClient(ctx, s.config.Token)
	}
	return s.api, nil
}

// Validate checks the repository exists and is accessible.
func (s *Source) Validate(ctx context.Context) error {
	api, err := s.ensureClient(ctx)
	if err != nil {
		return err
	}

	_, err = api.getRepository(ctx, s.config.Owner, s.config.Repo)
	switch {
	case err == nil:
		return nil
	case IsNotFound(err):
		return fmt.Errorf("%w: repository %s/%s not found", domain.ErrConfiguration, s.config.Owner, s.config.Repo)
	case IsUnauthorized(err):
		return fmt.Errorf("%w: %v", domain.ErrAuthRequired, err)
	default:
		return err
	}
}

// Blobs lists the repository tree and yields one blob per matching
// file, in tree order. The tree is fetched on the first Next call;
// file contents are fetched only when a payload is read.
func (s *Source) Blobs(_ context.Context) driven.BlobIterator {
	return &treeIterator{src: s}
}

// Count fetches the tree and counts matching files.
func (s *Source) Count(ctx context.Context) (int, error) {
	entries, _, err := s.listEntries(ctx)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// Close releases resources. Idempotent.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// listEntries resolves the ref and fetches the filtered tree.
func (s *Source) listEntries(ctx context.Context) ([]*gh.TreeEntry, string, error) {
	api, err := s.ensureClient(ctx)
	if err != nil {
		return nil, "", err
	}

	ref := s.config.Ref
	if ref == "" {
		repo, err := api.getRepository(ctx, s.config.Owner, s.config.Repo)
		if err != nil {
			return nil, "", fmt.Errorf("%w: resolving %s/%s: %v", domain.ErrEnumeration, s.config.Owner, s.config.Repo, err)
		}
		ref = repo.GetDefaultBranch()
	}

	tree, err := api.getTree(ctx, s.config.Owner, s.config.Repo, ref)
	if err != nil {
		return nil, "", fmt.Errorf("%w: listing %s/%s@%s: %v", domain.ErrEnumeration, s.config.Owner, s.config.Repo, ref, err)
	}

	entries := make([]*gh.TreeEntry, 0, len(tree.Entries))
	for _, entry := range tree.Entries {
		if !s.wantEntry(entry) {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, ref, nil
}

// wantEntry applies the tree-level filters: files only, pattern match,
// no binaries, size cap.
func (s *Source) wantEntry(entry *gh.TreeEntry) bool {
	if entry.GetType() != "blob" {
		return false
	}
	path := entry.GetPath()
	if !matchesPatterns(path, s.config.FilePatterns) {
		return false
	}
	if isBinaryExtension(path) {
		return false
	}
	if entry.GetSize() > maxFileSize {
		return false
	}
	return true
}

// blobFor builds a deferred-payload blob for a tree entry.
func (s *Source) blobFor(entry *gh.TreeEntry, ref string) domain.Blob {
	owner := s.config.Owner
	repo := s.config.Repo
	path := entry.GetPath()
	sha := entry.GetSHA()
	name := filepath.Base(path)

	open := func(ctx context.Context) (io.ReadCloser, error) {
		api, err := s.ensureClient(ctx)
		if err != nil {
			return nil, err
		}
		ghBlob, err := api.getBlob(ctx, owner, repo, sha)
		if err != nil {
			return nil, err
		}
		data, err := decodeBlobContent(ghBlob)
		if err != nil {
			return nil, fmt.Errorf("decode blob %s: %w", sha, err)
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	}

	return domain.NewBlobFromOpener(open,
		domain.WithOrigin(buildOrigin(owner, repo, ref, path)),
		domain.WithMIMEType(detectMIMEType(path)),
		domain.WithMetadata(map[string]any{
			domain.MetaFilename:  name,
			domain.MetaExtension: strings.TrimPrefix(filepath.Ext(name), "."),
			"owner":              owner,
			"repo":               repo,
			"ref":                ref,
			"path":               path,
			"sha":                sha,
			"size":               int64(entry.GetSize()),
			"html_url": fmt.Sprintf(
				"https://github.com/%s/%s/blob/%s/%s",
				owner, repo, ref, path,
			),
		}),
	)
}

// decodeBlobContent decodes a git blob's content.
func decodeBlobContent(blob *gh.Blob) ([]byte, error) {
	if blob.GetEncoding() == "base64" {
		// Remove any whitespace from base64 content
		content := strings.ReplaceAll(blob.GetContent(), "\n", "")
		return base64.StdEncoding.DecodeString(content)
	}
	return []byte(blob.GetContent()), nil
}

// buildOrigin creates the canonical origin for a file.
func buildOrigin(owner, repo, ref, path string) string {
	return fmt.Sprintf("github://%s/%s/blob/%s/%s", owner, repo, ref, path)
}

// treeIterator yields blobs for the filtered tree entries. The tree
// API call happens on the first Next.
type treeIterator struct {
	src     *Source
	entries []*gh.TreeEntry
	ref     string
	pos     int
	started bool
	done    bool
}

func (it *treeIterator) Next(ctx context.Context) (domain.Blob, error) {
	if it.done {
		return domain.Blob{}, io.EOF
	}
	if err := ctx.Err(); err != nil {
		return domain.Blob{}, err
	}

	if !it.started {
		entries, ref, err := it.src.listEntries(ctx)
		if err != nil {
			it.done = true
			return domain.Blob{}, err
		}
		it.entries = entries
		it.ref = ref
		it.started = true
	}

	if it.pos >= len(it.entries) {
		it.done = true
		return domain.Blob{}, io.EOF
	}

	entry := it.entries[it.pos]
	it.pos++
	return it.src.blobFor(entry, it.ref), nil
}

func (it *treeIterator) Close() error {
	it.done = true
	it.entries = nil
	return nil
}
