package ingest

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// visitFileExt is the extension of watched visit files.
const visitFileExt = ".vst"

// Watcher re-processes visit files as they appear or change under the
// data directory. Changes are debounced: rapid writes to the same file
// collapse into one re-parse.
type Watcher struct {
	runner   *Runner
	dir      string
	debounce time.Duration
	logger   *slog.Logger

	fsw *fsnotify.Watcher

	pendingMu sync.Mutex
	pending   map[string]struct{}
	timer     *time.Timer
}

// NewWatcher creates a watcher over the data directory and its
// subdirectories.
func NewWatcher(runner *Runner, dir string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	w := &Watcher{
		runner:   runner,
		dir:      dir,
		debounce: debounce,
		logger:   logger,
		fsw:      fsw,
		pending:  make(map[string]struct{}),
	}

	if err := w.addRecursive(dir); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run watches until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()
	w.logger.Info("watching for visit files",
		slog.String("dir", w.dir),
		slog.Duration("debounce", w.debounce))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", slog.String("error", err.Error()))
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	// New directories must be watched too.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(event.Name); err != nil {
				w.logger.Warn("failed to watch new directory",
					slog.String("dir", event.Name), slog.String("error", err.Error()))
			}
			return
		}
	}

	if !strings.EqualFold(filepath.Ext(event.Name), visitFileExt) {
		return
	}
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return
	}

	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()
	w.pending[event.Name] = struct{}{}
	if w.timer == nil {
		w.timer = time.AfterFunc(w.debounce, func() { w.flush(ctx) })
	} else {
		w.timer.Reset(w.debounce)
	}
}

// flush processes every pending file once the debounce window closes.
func (w *Watcher) flush(ctx context.Context) {
	w.pendingMu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]struct{})
	w.timer = nil
	w.pendingMu.Unlock()

	for _, path := range paths {
		if ctx.Err() != nil {
			return
		}
		result := w.runner.ProcessFile(ctx, "", path)
		if result.Err != nil {
			w.logger.Warn("re-parse failed",
				slog.String("path", path), slog.String("error", result.Err.Error()))
		} else {
			w.logger.Info("visit file re-parsed",
				slog.String("path", path), slog.String("visit", result.VisitID))
		}
	}
}

// addRecursive watches dir and every subdirectory beneath it.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fsw.Add(path)
		}
		return nil
	})
}
