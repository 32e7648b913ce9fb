package server

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/relcat/pkg/errors"
)

// DefaultDebounce is how long Watch waits for further events before
// rebuilding.
const DefaultDebounce = 500 * time.Millisecond

// Watch rebuilds the catalog whenever a file under dataDir changes. Bursts of
// events within debounce collapse into one rebuild. Watch blocks until ctx
// is done.
//
// fsnotify does not watch recursively, so every non-hidden directory below
// dataDir is registered, including ones created while watching.
func (s *Server) Watch(ctx context.Context, dataDir string, debounce time.Duration) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create watcher")
	}
	defer watcher.Close()

	if err := addTree(watcher, dataDir); err != nil {
		return err
	}
	s.logger.Info("watching for descriptor changes", "dir", dataDir)

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if isHiddenPath(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				// A new directory may hold new descriptors.
				if err := addTree(watcher, ev.Name); err != nil {
					s.logger.Debug("watch new path", "path", ev.Name, "err", err)
				}
			}
			s.logger.Debug("descriptor change", "path", ev.Name, "op", ev.Op.String())
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watch error", "err", err)

		case <-timer.C:
			_ = s.Rebuild(ctx)
		}
	}
}

// addTree registers root and every non-hidden directory below it. A path
// that is not a directory is ignored.
func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return errors.Wrap(errors.ErrCodeInvalidPath, err, "watch %s", root)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}
		if err := w.Add(path); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "watch %s", path)
		}
		return nil
	})
}

func isHiddenPath(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
