package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
)

// Watch emits a change event per file created, modified or removed
// under the root. Subdirectories are watched recursively; directories
// created while watching are added to the watch set. The channel
// closes when the context is cancelled.
func (s *Source) Watch(ctx context.Context) (<-chan domain.BlobChange, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, domain.ErrSourceClosed
	}
	s.mu.Unlock()

	if err := s.Validate(ctx); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := s.addWatchDirs(watcher); err != nil {
		watcher.Close()
		return nil, err
	}

	changes := make(chan domain.BlobChange)

	go func() {
		defer close(changes)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				change, emit := s.changeFor(watcher, event)
				if !emit {
					continue
				}
				select {
				case <-ctx.Done():
					return
				case changes <- change:
				}

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Watch errors are transient; keep watching.
			}
		}
	}()

	return changes, nil
}

// addWatchDirs registers the root and every non-pruned subdirectory.
func (s *Source) addWatchDirs(watcher *fsnotify.Watcher) error {
	root := s.config.Root
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("%w: walking %s: %v", domain.ErrEnumeration, path, err)
		}
		if !entry.IsDir() {
			return nil
		}
		if path != root {
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}
			if s.skipDir(entry.Name(), filepath.ToSlash(rel)) {
				return filepath.SkipDir
			}
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("%w: watching %s: %v", domain.ErrEnumeration, path, err)
		}
		return nil
	})
}

// changeFor translates an fsnotify event into a blob change. New
// directories are added to the watch set without emitting.
func (s *Source) changeFor(watcher *fsnotify.Watcher, event fsnotify.Event) (domain.BlobChange, bool) {
	path := event.Name
	name := filepath.Base(path)

	rel, err := filepath.Rel(s.config.Root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)

	if !s.config.FollowHidden && strings.HasPrefix(name, ".") {
		return domain.BlobChange{}, false
	}
	if matchesExclude(rel, s.config.ExcludePatterns) {
		return domain.BlobChange{}, false
	}

	switch {
	case event.Op.Has(fsnotify.Create):
		info, statErr := os.Stat(path)
		if statErr != nil {
			return domain.BlobChange{}, false
		}
		if info.IsDir() {
			// Watch new directories so nested changes are seen.
			_ = watcher.Add(path)
			return domain.BlobChange{}, false
		}
		if !matchesPatterns(rel, s.config.IncludePatterns) {
			return domain.BlobChange{}, false
		}
		return domain.BlobChange{
			Type: domain.ChangeCreated,
			Blob: s.watchBlob(path, rel, name, info),
		}, true

	case event.Op.Has(fsnotify.Write):
		info, statErr := os.Stat(path)
		if statErr != nil || info.IsDir() {
			return domain.BlobChange{}, false
		}
		if !matchesPatterns(rel, s.config.IncludePatterns) {
			return domain.BlobChange{}, false
		}
		return domain.BlobChange{
			Type: domain.ChangeUpdated,
			Blob: s.watchBlob(path, rel, name, info),
		}, true

	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		if !matchesPatterns(rel, s.config.IncludePatterns) {
			return domain.BlobChange{}, false
		}
		// The file is gone; the blob carries only its identity.
		blob := domain.NewBlob(nil,
			domain.WithOrigin(path),
			domain.WithMetadata(map[string]any{
				domain.MetaFilename:  name,
				domain.MetaExtension: strings.TrimPrefix(filepath.Ext(name), "."),
				"path":               rel,
			}),
		)
		return domain.BlobChange{Type: domain.ChangeDeleted, Blob: blob}, true
	}

	return domain.BlobChange{}, false
}

// watchBlob builds a deferred-payload blob for a live file.
func (s *Source) watchBlob(path, rel, name string, info fs.FileInfo) domain.Blob {
	return domain.NewBlobFromFile(path,
		domain.WithMIMEType(detectMIMEType(path)),
		domain.WithMetadata(fileMetadata(rel, name, info)),
	)
}
