package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reports writes to the snapshot file made by anything other than
// this store. onChange receives nil when the new content verifies and
// the integrity error otherwise. It blocks until ctx is cancelled.
func (s *Store) Watch(ctx context.Context, onChange func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, snapshotDirPerm); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	// The directory is watched because saves replace the file by rename.
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("fsnotify events channel closed")
			}

			if filepath.Clean(event.Name) != filepath.Clean(s.path) {
				continue
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			s.handleEvent(onChange)

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("fsnotify errors channel closed")
			}

			s.logger.Debug("snapshot: watcher error", slog.String("error", err.Error()))
		}
	}
}

func (s *Store) handleEvent(onChange func(error)) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return
	}

	if err != nil {
		s.logger.Debug("snapshot: reading after change", slog.String("error", err.Error()))
		return
	}

	data, stored, extractErr := extract(raw)

	s.mu.Lock()
	own := extractErr == nil && stored == s.lastHash && digest(data) == stored
	s.mu.Unlock()

	if own {
		return
	}

	verr := s.Verify()
	if verr != nil {
		s.logger.Warn("snapshot: file modified externally and failed verification",
			slog.String("path", s.path),
			slog.String("error", verr.Error()),
		)
	} else {
		s.logger.Info("snapshot: file replaced externally", slog.String("path", s.path))
	}

	if onChange != nil {
		onChange(verr)
	}
}
