package catalog

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 300 * time.Millisecond

// Watcher keeps a Registry's user layer in sync with a directory of
// definition files.
type Watcher struct {
	dir      string
	registry *Registry
	logger   *log.Logger
	debounce time.Duration

	mu       sync.Mutex
	onReload func()
	cancel   context.CancelFunc
	fsw      *fsnotify.Watcher
	done     chan struct{}
}

func NewWatcher(dir string, registry *Registry, logger *log.Logger) *Watcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Watcher{dir: dir, registry: registry, logger: logger, debounce: defaultDebounce}
}

// OnReload registers fn to run after every reload.
func (w *Watcher) OnReload(fn func()) {
	w.mu.Lock()
	w.onReload = fn
	w.mu.Unlock()
}

// Reload loads the directory into the registry. Broken files are logged
// and skipped.
func (w *Watcher) Reload() {
	defs, err := LoadDir(w.dir)
	if err != nil {
		w.logger.Warn("[catalog] some definitions were skipped", "dir", w.dir, "err", err)
	}
	w.registry.SetUserDefinitions(defs)
	w.logger.Debug("[catalog] reloaded", "dir", w.dir, "definitions", len(defs))

	w.mu.Lock()
	fn := w.onReload
	w.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Start performs an initial load and then watches the directory until
// ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	if err := ensureDir(w.dir); err != nil {
		return err
	}
	w.Reload()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return err
	}

	watchCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	w.mu.Lock()
	w.fsw = fsw
	w.cancel = cancel
	w.done = done
	w.mu.Unlock()

	go w.loop(watchCtx, fsw, done)
	w.logger.Info("[catalog] watching", "dir", w.dir)
	return nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Ext(event.Name) != ".toml" {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.Reload)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("[catalog] watcher error", "err", err)
		}
	}
}

// Stop ends the watch loop and waits for it to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	cancel, fsw, done := w.cancel, w.fsw, w.done
	w.cancel, w.fsw, w.done = nil, nil, nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if fsw != nil {
		fsw.Close()
	}
	if done != nil {
		<-done
	}
}
