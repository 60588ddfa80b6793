package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultPollInterval is used when fsnotify is unavailable.
const DefaultPollInterval = time.Second

// FileWatcher reports debounced changes to a single file.
//
// The parent directory is watched rather than the file itself so editors that
// save by rename-and-replace keep being observed. When fsnotify cannot be
// used the watcher falls back to polling the file's size and modification time.
type FileWatcher struct {
	path         string
	onChange     func(path string)
	debouncer    *Debouncer
	pollInterval time.Duration
	logger       *slog.Logger

	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	cancel   context.CancelFunc
	done     chan struct{}
	polling  bool
	started  bool
	lastStat fileStamp
}

type fileStamp struct {
	exists  bool
	size    int64
	modTime time.Time
}

// FileWatcherOption configures a FileWatcher.
type FileWatcherOption func(*FileWatcher)

// WithDebouncer replaces the default debouncer (useful with a FakeClock).
func WithDebouncer(d *Debouncer) FileWatcherOption {
	return func(w *FileWatcher) {
		w.debouncer = d
	}
}

// WithPollInterval sets the interval of the polling fallback.
func WithPollInterval(d time.Duration) FileWatcherOption {
	return func(w *FileWatcher) {
		if d > 0 {
			w.pollInterval = d
		}
	}
}

// WithForcePolling skips fsnotify and always polls.
func WithForcePolling() FileWatcherOption {
	return func(w *FileWatcher) {
		w.polling = true
	}
}

// WithWatcherLogger sets the logger used for watch errors.
func WithWatcherLogger(logger *slog.Logger) FileWatcherOption {
	return func(w *FileWatcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewFileWatcher creates a watcher for path. onChange runs once per burst of changes.
func NewFileWatcher(path string, onChange func(path string), opts ...FileWatcherOption) (*FileWatcher, error) {
	if path == "" {
		return nil, fmt.Errorf("file watcher: empty path")
	}
	if onChange == nil {
		return nil, fmt.Errorf("file watcher: nil change handler")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("file watcher: resolve %s: %w", path, err)
	}

	w := &FileWatcher{
		path:         abs,
		onChange:     onChange,
		pollInterval: DefaultPollInterval,
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.debouncer == nil {
		w.debouncer = NewDebouncer(DefaultDebounceDuration)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *FileWatcher) Path() string {
	return w.path
}

// Polling reports whether the watcher uses the polling fallback.
func (w *FileWatcher) Polling() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.polling
}

// Start begins watching in a background goroutine until ctx is done or Stop is called.
func (w *FileWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return fmt.Errorf("file watcher: already started")
	}

	if !w.polling {
		fw, err := fsnotify.NewWatcher()
		if err == nil {
			err = fw.Add(filepath.Dir(w.path))
			if err != nil {
				fw.Close()
			}
		}
		if err != nil {
			w.logger.Warn("fsnotify unavailable, polling instead", "path", w.path, "error", err)
			w.polling = true
		} else {
			w.watcher = fw
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})
	w.started = true
	w.lastStat = stat(w.path)

	if w.polling {
		go w.pollLoop(ctx, w.done)
	} else {
		go w.eventLoop(ctx, w.watcher, w.done)
	}
	return nil
}

// Stop ends watching and cancels any pending change notification.
func (w *FileWatcher) Stop() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	w.started = false
	cancel, done, fw := w.cancel, w.done, w.watcher
	w.watcher = nil
	w.mu.Unlock()

	cancel()
	<-done
	if fw != nil {
		fw.Close()
	}
	w.debouncer.Cancel()
}

func (w *FileWatcher) eventLoop(ctx context.Context, fw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove) {
				w.schedule()
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watch error", "path", w.path, "error", err)
		}
	}
}

func (w *FileWatcher) pollLoop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			current := stat(w.path)
			w.mu.Lock()
			changed := current != w.lastStat
			w.lastStat = current
			w.mu.Unlock()
			if changed {
				w.schedule()
			}
		}
	}
}

func (w *FileWatcher) schedule() {
	w.debouncer.Trigger(func() {
		w.onChange(w.path)
	})
}

func stat(path string) fileStamp {
	info, err := os.Stat(path)
	if err != nil {
		return fileStamp{}
	}
	return fileStamp{exists: true, size: info.Size(), modTime: info.ModTime()}
}
