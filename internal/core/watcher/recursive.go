// Package watcher re-runs generation when configuration or sources change.
package watcher

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/xzzpig/levelgate/internal/core/errs"
	"github.com/xzzpig/levelgate/internal/core/logger"
	"github.com/xzzpig/levelgate/internal/core/modpath"
)

// RecursiveWatcher wraps fsnotify.Watcher to provide recursive directory watching
// and reference counting for shared paths.
type RecursiveWatcher struct {
	fsWatcher *fsnotify.Watcher
	logger    *zap.Logger
	mu        sync.Mutex

	// watchedDirs tracks usage count for each directory path
	// path -> count
	watchedDirs map[string]int

	// Events and Errors channels forward events from fsnotify
	events chan fsnotify.Event
	errors chan error

	done      chan struct{}
	closeOnce sync.Once
}

// NewRecursiveWatcher creates a new RecursiveWatcher instance.
func NewRecursiveWatcher() (*RecursiveWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	rw := &RecursiveWatcher{
		fsWatcher:   fsWatcher,
		logger:      logger.Named("watcher.recursive"),
		watchedDirs: make(map[string]int),
		events:      make(chan fsnotify.Event),
		errors:      make(chan error),
		done:        make(chan struct{}),
	}

	go rw.loop()

	return rw, nil
}

// Events returns the channel for receiving file system events.
func (rw *RecursiveWatcher) Events() chan fsnotify.Event {
	return rw.events
}

// Errors returns the channel for receiving watcher errors.
func (rw *RecursiveWatcher) Errors() chan error {
	return rw.errors
}

// Close stops the watcher and releases resources. It may be called more than once.
func (rw *RecursiveWatcher) Close() error {
	var err error
	rw.closeOnce.Do(func() {
		close(rw.done)
		err = rw.fsWatcher.Close()
	})
	return err
}

// Add recursively watches a directory and its subdirectories
func (rw *RecursiveWatcher) Add(root string) error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory: %w", root, errs.ErrInvalidInput)
	}

	return rw.addRecursiveLocked(filepath.Clean(root))
}

// Remove stops watching a directory (decrementing reference count)
// It recursively removes watches for subdirectories based on internal state.
func (rw *RecursiveWatcher) Remove(root string) error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	// This handles cases where the directory was deleted before we could walk it.
	root = filepath.Clean(root)
	for path := range rw.watchedDirs {
		if path == root || strings.HasPrefix(path, root+string(os.PathSeparator)) {
			rw.removeDirLocked(path)
		}
	}

	return nil
}

// addRecursiveLocked recursively adds a directory and its subdirectories.
// Caller must hold rw.mu.
func (rw *RecursiveWatcher) addRecursiveLocked(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			rw.logger.Warn("Error walking path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && modpath.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		return rw.addDirLocked(path)
	})
}

// addDirLocked adds a directory to fsnotify and increments count
func (rw *RecursiveWatcher) addDirLocked(path string) error {
	count := rw.watchedDirs[path]
	rw.watchedDirs[path] = count + 1

	if count == 0 {
		if err := rw.fsWatcher.Add(path); err != nil {
			// If we fail to add, rollback count
			delete(rw.watchedDirs, path)
			return err
		}
		rw.logger.Debug("Added watch", zap.String("path", path))
	}
	return nil
}

// removeDirLocked decrements count and removes from fsnotify if 0
func (rw *RecursiveWatcher) removeDirLocked(path string) {
	count, ok := rw.watchedDirs[path]
	if !ok {
		return
	}

	if count <= 1 {
		_ = rw.fsWatcher.Remove(path)
		delete(rw.watchedDirs, path)
		rw.logger.Debug("Removed watch", zap.String("path", path))
	} else {
		rw.watchedDirs[path] = count - 1
	}
}

func (rw *RecursiveWatcher) loop() {
	defer close(rw.events)
	defer close(rw.errors)

	for {
		select {
		case <-rw.done:
			return
		case event, ok := <-rw.fsWatcher.Events:
			if !ok {
				return
			}
			if modpath.SkipDir(filepath.Base(event.Name)) {
				continue
			}

			// New directories are watched as they appear
			if event.Has(fsnotify.Create) {
				info, err := os.Stat(event.Name)
				if err == nil && info.IsDir() {
					rw.mu.Lock()
					_ = rw.addRecursiveLocked(event.Name)
					rw.mu.Unlock()
				}
			}
			// fsnotify drops watches of removed directories itself; forget them and their children
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				rw.mu.Lock()
				if _, ok := rw.watchedDirs[event.Name]; ok {
					delete(rw.watchedDirs, event.Name)
					for path := range rw.watchedDirs {
						if strings.HasPrefix(path, event.Name+string(os.PathSeparator)) {
							delete(rw.watchedDirs, path)
						}
					}
				}
				rw.mu.Unlock()
			}

			select {
			case rw.events <- event:
			case <-rw.done:
				return
			}

		case err, ok := <-rw.fsWatcher.Errors:
			if !ok {
				return
			}
			select {
			case rw.errors <- err:
			case <-rw.done:
				return
			}
		}
	}
}
