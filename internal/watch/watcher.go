package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"ozymandias/internal/apperr"
	"ozymandias/internal/domain"
)

// DefaultDebounce is how long a path must stay quiet before it is handled.
const DefaultDebounce = 250 * time.Millisecond

// Handler receives settled file changes.
type Handler interface {
	Ingest(ctx context.Context, path string) (domain.IngestResult, error)
	RemoveSource(ctx context.Context, source string) (bool, error)
}

// Options configures a Watcher.
type Options struct {
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	// Accept filters the files handed to the Handler. Nil accepts all.
	Accept func(path string) bool
	Logger *zap.Logger
}

// Stats counts handled events.
type Stats struct {
	Ingested int
	Removed  int
	Errors   int
}

// Watcher watches a directory tree and forwards settled changes to a Handler.
// Created or modified files are ingested; files that are gone when their
// events settle are removed.
type Watcher struct {
	root     string
	handler  Handler
	accept   func(string) bool
	debounce time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	pending map[string]time.Time
	stats   Stats
	ready   chan struct{}
}

// New returns a Watcher for root. Call Run to start it.
func New(root string, h Handler, opts Options) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Accept == nil {
		opts.Accept = func(string) bool { return true }
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Watcher{
		root:     root,
		handler:  h,
		accept:   opts.Accept,
		debounce: opts.Debounce,
		logger:   opts.Logger,
		pending:  make(map[string]time.Time),
		ready:    make(chan struct{}),
	}
}

// Ready is closed once the initial directory watches are in place.
func (w *Watcher) Ready() <-chan struct{} { return w.ready }

// Stats returns a snapshot of the handled-event counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// Run watches until ctx is done and may be called once. Pending changes that
// have not settled when ctx ends are dropped.
func (w *Watcher) Run(ctx context.Context) error {
	info, err := os.Stat(w.root)
	if err != nil || !info.IsDir() {
		return apperr.NewValidationError("watch target is not a directory").
			WithCause(err).WithDetail("path", w.root)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return apperr.NewCommandError("failed to start file watcher").WithCause(err)
	}
	defer fw.Close()

	if err := w.addTree(fw, w.root); err != nil {
		return err
	}
	close(w.ready)
	w.logger.Info("watching directory", zap.String("path", w.root))

	tick := time.NewTicker(max(w.debounce/4, 10*time.Millisecond))
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped", zap.String("path", w.root))
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fw, event)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-tick.C:
			w.flush(ctx)
		}
	}
}

// addTree watches dir and every non-hidden directory beneath it.
func (w *Watcher) addTree(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Directories can vanish between the event and the walk.
			if errors.Is(err, fs.ErrNotExist) && path != dir {
				return nil
			}
			return apperr.NewCommandError("failed to walk directory").
				WithCause(err).WithDetail("path", path)
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			return apperr.NewCommandError("failed to watch directory").
				WithCause(err).WithDetail("path", path)
		}
		return nil
	})
}

func (w *Watcher) handleEvent(fw *fsnotify.Watcher, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.addNewDir(fw, event.Name)
			return
		}
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") || !w.accept(event.Name) {
		return
	}

	w.logger.Debug("file event", zap.String("path", event.Name), zap.String("op", event.Op.String()))
	w.mark(event.Name)
}

// addNewDir starts watching a directory created after Run began and queues
// the files already inside it.
func (w *Watcher) addNewDir(fw *fsnotify.Watcher, dir string) {
	if strings.HasPrefix(filepath.Base(dir), ".") {
		return
	}
	if err := w.addTree(fw, dir); err != nil {
		w.logger.Warn("failed to watch new directory", zap.String("path", dir), zap.Error(err))
		return
	}
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if !d.IsDir() && w.accept(path) {
			w.mark(path)
		}
		return nil
	})
}

func (w *Watcher) mark(path string) {
	w.mu.Lock()
	w.pending[path] = time.Now()
	w.mu.Unlock()
}

// flush handles every path that has been quiet for the debounce window.
// Paths that still exist go first so a rename re-points the stored record
// before the old path is removed.
func (w *Watcher) flush(ctx context.Context) {
	now := time.Now()
	var settled []string
	w.mu.Lock()
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			settled = append(settled, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	var present, removed []string
	for _, path := range settled {
		if gone(path) {
			removed = append(removed, path)
		} else {
			present = append(present, path)
		}
	}
	for _, path := range slices.Concat(present, removed) {
		if ctx.Err() != nil {
			return
		}
		w.apply(ctx, path)
	}
}

func gone(path string) bool {
	_, err := os.Stat(path)
	return errors.Is(err, fs.ErrNotExist)
}

func (w *Watcher) apply(ctx context.Context, path string) {
	if gone(path) {
		removed, err := w.handler.RemoveSource(ctx, path)
		w.record(err, func(s *Stats) {
			if removed {
				s.Removed++
			}
		})
		if err != nil {
			w.logger.Warn("remove failed", zap.String("path", path), zap.Error(err))
		}
		return
	}

	res, err := w.handler.Ingest(ctx, path)
	w.record(err, func(s *Stats) { s.Ingested++ })
	if err != nil {
		w.logger.Warn("ingest failed", zap.String("path", path), zap.Error(err))
		return
	}
	w.logger.Info("file synced",
		zap.String("path", path),
		zap.String("status", res.Status.String()),
		zap.String("id", res.Document.ID.String()),
	)
}

func (w *Watcher) record(err error, ok func(*Stats)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.stats.Errors++
		return
	}
	ok(&w.stats)
}
