package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/xzzpig/levelgate/internal/core/logger"
)

// DefaultDelay is how long a target must stay quiet before its handler runs.
const DefaultDelay = 500 * time.Millisecond

// FileWatcher defines the interface for watching files.
type FileWatcher interface {
	Add(string) error
	Remove(string) error
	Close() error
	Events() chan fsnotify.Event
	Errors() chan error
}

// Handler runs once per burst of changes to a watched target. Calls never
// overlap.
type Handler func(ctx context.Context, key string)

// Filter reports whether an event path under a target should be ignored.
type Filter func(path string) bool

type target struct {
	path   string
	dir    string // directory registered with the FileWatcher
	ignore Filter
}

type Watcher struct {
	fw       FileWatcher
	handler  Handler
	delay    time.Duration
	logger   *zap.Logger
	mu       sync.Mutex
	runMu    sync.Mutex
	targets  map[string]target
	debounce map[string]*time.Timer
	running  bool
	cancel   context.CancelFunc
	ctx      context.Context
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDelay overrides DefaultDelay.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) { w.delay = d }
}

// New returns a Watcher backed by a RecursiveWatcher.
func New(handler Handler, opts ...Option) (*Watcher, error) {
	fw, err := NewRecursiveWatcher()
	if err != nil {
		return nil, err
	}
	return newWatcher(fw, handler, opts...), nil
}

func newWatcher(fw FileWatcher, handler Handler, opts ...Option) *Watcher {
	w := &Watcher{
		fw:       fw,
		handler:  handler,
		delay:    DefaultDelay,
		logger:   logger.Named("watcher"),
		targets:  make(map[string]target),
		debounce: make(map[string]*time.Timer),
		ctx:      context.Background(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch registers path under key. A directory is watched recursively; a file
// is watched through its directory so that editors replacing it on save are
// still seen. Watching an existing key replaces it.
func (w *Watcher) Watch(key, path string, ignore Filter) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	dir := path
	if !info.IsDir() {
		dir = filepath.Dir(path)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fw == nil {
		return os.ErrClosed
	}
	if _, ok := w.targets[key]; ok {
		w.unwatchLocked(key)
	}
	if err := w.fw.Add(dir); err != nil {
		return err
	}
	w.targets[key] = target{path: path, dir: dir, ignore: ignore}
	w.logger.Info("Watching path", zap.String("key", key), zap.String("path", path))
	return nil
}

// Unwatch drops the target registered under key.
func (w *Watcher) Unwatch(key string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.unwatchLocked(key)
}

func (w *Watcher) unwatchLocked(key string) {
	t, ok := w.targets[key]
	if !ok {
		return
	}
	if w.fw != nil {
		_ = w.fw.Remove(t.dir)
	}
	if timer, ok := w.debounce[key]; ok {
		timer.Stop()
		delete(w.debounce, key)
	}
	delete(w.targets, key)
	w.logger.Info("Stopped watching path", zap.String("key", key), zap.String("path", t.path))
}

// Start begins the file watching process. It is idempotent and will do nothing
// if the watcher is already running. Cancelling ctx stops the watcher. Once the
// watcher is stopped it cannot be restarted.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fw == nil {
		w.logger.Warn("Watcher has been stopped and cannot be restarted")
		return
	}
	if w.running {
		w.logger.Debug("Watcher is already running")
		return
	}

	w.ctx, w.cancel = context.WithCancel(ctx)
	go w.watchLoop(w.ctx, w.fw)
	w.running = true
}

// Stop halts the file watching process and drops pending triggers. It is
// idempotent.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fw == nil {
		return
	}
	if w.cancel != nil {
		w.cancel()
	}
	for key, timer := range w.debounce {
		timer.Stop()
		delete(w.debounce, key)
	}
	if err := w.fw.Close(); err != nil {
		w.logger.Warn("Failed to close file watcher", zap.Error(err))
	}
	w.fw = nil
	w.running = false
}

func (w *Watcher) watchLoop(ctx context.Context, fw FileWatcher) {
	defer w.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.Events():
			if !ok {
				return
			}
			// Ignore CHMOD events to reduce noise
			if event.Op == fsnotify.Chmod {
				continue
			}
			w.handleEvent(event)
		case err, ok := <-fw.Errors():
			if !ok {
				return
			}
			w.logger.Error("Watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for key, t := range w.targets {
		rel, err := filepath.Rel(t.path, event.Name)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if t.ignore != nil && t.ignore(event.Name) {
			continue
		}
		w.logger.Debug("Change detected", zap.String("key", key), zap.Stringer("event", event))
		w.trigger(key)
	}
}

// trigger (re)arms the debounce timer of key. Caller must hold w.mu.
func (w *Watcher) trigger(key string) {
	if timer, ok := w.debounce[key]; ok {
		timer.Stop()
	}
	ctx := w.ctx
	w.debounce[key] = time.AfterFunc(w.delay, func() {
		if ctx.Err() != nil {
			return
		}
		w.runMu.Lock()
		defer w.runMu.Unlock()
		w.logger.Info("Triggering regeneration", zap.String("key", key))
		w.handler(ctx, key)
	})
}
