package cache

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the cache file and calls back when it changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	filePath string
	onChange func()
	logger   *slog.Logger
	done     chan struct{}
	exited   chan struct{}
	mu       sync.Mutex
	running  bool
	stopped  bool
}

// NewWatcher creates a watcher for filePath. onChange runs on the watcher
// goroutine and must not block.
func NewWatcher(filePath string, onChange func(), logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:  watcher,
		filePath: filePath,
		onChange: onChange,
		logger:   logger,
		done:     make(chan struct{}),
		exited:   make(chan struct{}),
	}, nil
}

// Start begins watching the file for changes.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running || w.stopped {
		return nil
	}

	// Watch the directory containing the file; hypr-minimizer replaces the
	// file rather than writing in place.
	dir := filepath.Dir(w.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if err := w.watcher.Add(dir); err != nil {
		return err
	}

	w.running = true
	go w.watch()
	w.logger.Debug("cache watcher started", "dir", dir)
	return nil
}

// watch is the main watch loop.
func (w *Watcher) watch() {
	defer close(w.exited)
	filename := filepath.Base(w.filePath)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// Only care about our file
			if filepath.Base(event.Name) != filename {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				w.logger.Debug("cache file changed", "file", w.filePath, "op", event.Op.String())
				if w.onChange != nil {
					w.onChange()
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("cache watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}

// Stop stops the watcher and releases it. Safe to call more than once; a
// stopped watcher cannot be restarted.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	wasRunning := w.running
	w.running = false
	if wasRunning {
		close(w.done)
	}
	w.mu.Unlock()

	err := w.watcher.Close()
	if wasRunning {
		<-w.exited
	}
	return err
}
