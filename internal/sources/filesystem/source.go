// Package filesystem implements a blob source over a local directory
// tree.
//
// Enumeration walks the root in lexical order and emits one blob per
// matching file. Payloads are never read during enumeration: each blob
// carries an opener that reads the file when the payload is first
// needed, so a consumer that stops early never touches the remaining
// files.
package filesystem

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driven"
)

// Ensure Source implements the interfaces.
var (
	_ driven.Source  = (*Source)(nil)
	_ driven.Counter = (*Source)(nil)
	_ driven.Watcher = (*Source)(nil)
)

// Source enumerates files under a root directory.
type Source struct {
	sourceID string
	config   *Config

	mu     sync.Mutex
	closed bool
}

// New creates a new filesystem source.
func New(sourceID string, cfg *Config) *Source {
	return &Source{sourceID: sourceID, config: cfg}
}

// Type returns the source type identifier.
func (s *Source) Type() string {
	return "filesystem"
}

// Validate checks that the root exists and is a directory.
func (s *Source) Validate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrSourceClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Stat(s.config.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: root path does not exist: %s", domain.ErrConfiguration, s.config.Root)
		}
		return fmt.Errorf("%w: root path error: %v", domain.ErrConfiguration, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: root path is not a directory: %s", domain.ErrConfiguration, s.config.Root)
	}
	return nil
}

// Blobs walks the root and yields one blob per matching file, in
// lexical walk order. The walk runs in a goroutine and stays one file
// ahead of the consumer at most; closing the iterator stops it.
func (s *Source) Blobs(ctx context.Context) driven.BlobIterator {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return driven.FailBlobs(domain.ErrSourceClosed)
	}
	s.mu.Unlock()

	walkCtx, cancel := context.WithCancel(ctx)
	it := &walkIterator{
		items:  make(chan walkItem),
		cancel: cancel,
	}

	go func() {
		defer close(it.items)
		err := s.walk(walkCtx, func(blob domain.Blob) error {
			select {
			case <-walkCtx.Done():
				return walkCtx.Err()
			case it.items <- walkItem{blob: blob}:
				return nil
			}
		})
		if err != nil && walkCtx.Err() == nil {
			select {
			case <-walkCtx.Done():
			case it.items <- walkItem{err: err}:
			}
		}
	}()

	return it
}

// Count walks the root and counts matching files without building
// blobs or reading payloads.
func (s *Source) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0, domain.ErrSourceClosed
	}
	s.mu.Unlock()

	count := 0
	err := s.walk(ctx, func(domain.Blob) error {
		count++
		return nil
	})
	return count, err
}

// Close releases resources. Idempotent.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// walk visits matching files under the root in lexical order, calling
// yield with a deferred-payload blob for each.
func (s *Source) walk(ctx context.Context, yield func(domain.Blob) error) error {
	if err := s.Validate(ctx); err != nil {
		return err
	}

	root := s.config.Root
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("%w: walking %s: %v", domain.ErrEnumeration, path, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if entry.IsDir() {
			if path == root {
				return nil
			}
			if s.skipDir(entry.Name(), rel) {
				return filepath.SkipDir
			}
			return nil
		}

		blob, ok, err := s.blobFor(path, rel, entry)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		return yield(blob)
	})
	return err
}

// skipDir reports whether a directory should be pruned from the walk.
func (s *Source) skipDir(name, rel string) bool {
	if !s.config.FollowHidden && strings.HasPrefix(name, ".") {
		return true
	}
	return matchesExclude(rel, s.config.ExcludePatterns)
}

// blobFor builds a deferred-payload blob for a file, or reports that
// the file is filtered out.
func (s *Source) blobFor(path, rel string, entry fs.DirEntry) (domain.Blob, bool, error) {
	name := entry.Name()

	if !s.config.FollowHidden && strings.HasPrefix(name, ".") {
		return domain.Blob{}, false, nil
	}
	if matchesExclude(rel, s.config.ExcludePatterns) {
		return domain.Blob{}, false, nil
	}
	if !matchesPatterns(rel, s.config.IncludePatterns) {
		return domain.Blob{}, false, nil
	}

	info, err := entry.Info()
	if err != nil {
		return domain.Blob{}, false, fmt.Errorf("%w: stat %s: %v", domain.ErrEnumeration, path, err)
	}
	if !info.Mode().IsRegular() {
		return domain.Blob{}, false, nil
	}
	if s.config.MaxBlobSize > 0 && info.Size() > s.config.MaxBlobSize {
		return domain.Blob{}, false, nil
	}

	blob := domain.NewBlobFromFile(path,
		domain.WithMIMEType(detectMIMEType(path)),
		domain.WithMetadata(fileMetadata(rel, name, info)),
	)
	return blob, true, nil
}

// fileMetadata builds the per-file metadata map.
func fileMetadata(rel, name string, info fs.FileInfo) map[string]any {
	return map[string]any{
		domain.MetaFilename:  name,
		domain.MetaExtension: strings.TrimPrefix(filepath.Ext(name), "."),
		"path":               rel,
		"size":               info.Size(),
		"mod_time":           info.ModTime().UTC().Format(time.RFC3339),
	}
}

// matchesExclude checks a relative path against the exclude patterns.
func matchesExclude(rel string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	return matchesPatterns(rel, patterns)
}

// walkItem carries either a blob or a terminal walk error.
type walkItem struct {
	blob domain.Blob
	err  error
}

// walkIterator adapts the channel-fed walk to the BlobIterator shape.
type walkIterator struct {
	items  chan walkItem
	cancel context.CancelFunc

	closeOnce sync.Once
	done      bool
}

func (it *walkIterator) Next(ctx context.Context) (domain.Blob, error) {
	if it.done {
		return domain.Blob{}, io.EOF
	}

	select {
	case <-ctx.Done():
		return domain.Blob{}, ctx.Err()
	case item, ok := <-it.items:
		if !ok {
			it.done = true
			return domain.Blob{}, io.EOF
		}
		if item.err != nil {
			it.done = true
			return domain.Blob{}, item.err
		}
		return item.blob, nil
	}
}

func (it *walkIterator) Close() error {
	it.closeOnce.Do(func() {
		it.done = true
		// Unblocks the walker whether it is sending or mid-walk.
		it.cancel()
	})
	return nil
}
