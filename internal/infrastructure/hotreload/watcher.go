// Package hotreload reloads the catalog when its backing file changes on disk
package hotreload

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/alchemorsel/recipebook/internal/ports/inbound"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounceDelay coalesces the burst of events an editor save produces
const DefaultDebounceDelay = 250 * time.Millisecond

// Reloader is the part of the catalog the watcher drives
type Reloader interface {
	Reload(ctx context.Context) (*inbound.LoadReport, error)
}

// ReloadObserver is told the outcome of every reload
type ReloadObserver interface {
	ReloadCompleted(err error)
}

// Option configures a CatalogWatcher
type Option func(*CatalogWatcher)

// WithDebounceDelay overrides DefaultDebounceDelay
func WithDebounceDelay(d time.Duration) Option {
	return func(w *CatalogWatcher) {
		w.debounceDelay = d
	}
}

// WithObserver registers an observer for reload outcomes
func WithObserver(o ReloadObserver) Option {
	return func(w *CatalogWatcher) {
		w.observer = o
	}
}

// CatalogWatcher watches the catalog file and reloads the catalog after writes.
// The parent directory is watched so that editors replacing the file are seen too.
type CatalogWatcher struct {
	path     string
	catalog  Reloader
	observer ReloadObserver
	logger   *zap.Logger
	watcher  *fsnotify.Watcher

	debounceDelay time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
}

// NewCatalogWatcher creates a watcher for the file at path
func NewCatalogWatcher(path string, catalog Reloader, logger *zap.Logger, opts ...Option) (*CatalogWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalog path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	w := &CatalogWatcher{
		path:          abs,
		catalog:       catalog,
		logger:        logger.Named("hotreload"),
		watcher:       watcher,
		debounceDelay: DefaultDebounceDelay,
	}
	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Path returns the absolute path being watched
func (w *CatalogWatcher) Path() string {
	return w.path
}

// Run processes file events until ctx is done or the watcher is closed
func (w *CatalogWatcher) Run(ctx context.Context) {
	w.logger.Info("Watching catalog file", zap.String("path", w.path))

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.relevant(event) {
				w.schedule(ctx)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("File watcher error", zap.Error(err))
		}
	}
}

// Close stops watching and cancels any pending reload
func (w *CatalogWatcher) Close() error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()

	w.stopTimer()
	return w.watcher.Close()
}

func (w *CatalogWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// schedule restarts the debounce timer
func (w *CatalogWatcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounceDelay, func() {
		w.reload(ctx)
	})
}

func (w *CatalogWatcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

func (w *CatalogWatcher) reload(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	report, err := w.catalog.Reload(ctx)
	if w.observer != nil {
		w.observer.ReloadCompleted(err)
	}
	if err != nil {
		w.logger.Error("Catalog reload failed", zap.String("path", w.path), zap.Error(err))
		return
	}

	w.logger.Debug("Reload triggered by file change",
		zap.String("path", w.path),
		zap.Int("loaded", report.Loaded),
	)
}
