// Package watch re-runs a conversion whenever the source tree changes.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docconvert/internal/foundation/errors"
	"git.home.luguber.info/inful/docconvert/internal/logfields"
)

// DefaultDebounce is the quiet window before a change triggers a run.
const DefaultDebounce = 300 * time.Millisecond

// RunFunc performs one conversion.
type RunFunc func(ctx context.Context) error

// Watcher watches a source tree and coalesces bursts of changes into runs.
// At most one run is in flight and at most one more is pending.
type Watcher struct {
	root     string
	ignore   []string
	run      RunFunc
	debounce time.Duration

	newFSWatcher func() (*fsnotify.Watcher, error)

	readyOnce sync.Once
	ready     chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet window.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithIgnore excludes directories, typically an output root nested in the source.
func WithIgnore(dirs ...string) Option {
	return func(w *Watcher) {
		for _, d := range dirs {
			if d == "" {
				continue
			}
			if abs, err := filepath.Abs(d); err == nil {
				w.ignore = append(w.ignore, abs)
			}
		}
	}
}

// New creates a watcher for root.
func New(root string, run RunFunc, opts ...Option) *Watcher {
	w := &Watcher{
		root:         root,
		run:          run,
		debounce:     DefaultDebounce,
		newFSWatcher: fsnotify.NewWatcher,
		ready:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Ready is closed once the tree is watched and the initial run is queued.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run performs an initial conversion and then one per settled change until
// ctx is cancelled. Run failures are logged; only setup failures are returned.
func (w *Watcher) Run(ctx context.Context) error {
	if w.run == nil {
		return errors.ValidationError("run function is required").Build()
	}
	root, err := filepath.Abs(w.root)
	if err != nil {
		return errors.PathError("cannot resolve watch root").WithCause(err).WithContext("path", w.root).Build()
	}
	if st, statErr := os.Stat(root); statErr != nil || !st.IsDir() {
		return errors.NotFoundError("watch root not found or not a directory").WithCause(statErr).WithContext("path", root).Build()
	}

	// Cancelled on every return so the worker stops with the event loop.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fsw, err := w.newFSWatcher()
	if err != nil {
		return errors.InternalError("fsnotify").WithCause(err).Build()
	}
	defer func() { _ = fsw.Close() }()
	w.addDirsRecursive(fsw, root)

	requests := make(chan struct{}, 1)
	request := func() {
		select {
		case requests <- struct{}{}:
		default:
		}
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.worker(ctx, requests)
	}()
	defer wg.Wait()
	defer cancel()

	var mu sync.Mutex
	var timer *time.Timer
	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(w.debounce, request)
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	request()
	w.readyOnce.Do(func() { close(w.ready) })
	slog.Info("Watching for changes", logfields.Source(root))

	for {
		select {
		case <-ctx.Done():
			slog.Info("Watch stopped")
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fsw, ev, trigger)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// worker serializes runs. The buffered request channel holds the single
// pending run while one is in flight.
func (w *Watcher) worker(ctx context.Context, requests <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-requests:
			start := time.Now()
			if err := w.run(ctx); err != nil {
				slog.Warn("Conversion failed", logfields.Error(err))
				continue
			}
			slog.Info("Conversion finished", logfields.DurationMS(float64(time.Since(start).Milliseconds())))
		}
	}
}

func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if w.ignored(ev.Name) || shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			w.addDirsRecursive(fsw, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

// ignored reports whether path lies in an excluded directory.
func (w *Watcher) ignored(path string) bool {
	for _, dir := range w.ignore {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) addDirsRecursive(fsw *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if w.ignored(path) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// shouldIgnoreEvent filters hidden, editor swap and OS metadata files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}
