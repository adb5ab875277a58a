package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// debounceDelay collapses the events of one editor save into one reload.
const debounceDelay = 500 * time.Millisecond

// Watcher reloads the config file when it changes and passes valid new
// options to the registered callbacks. Callbacks run on the watcher's
// goroutine.
type Watcher struct {
	path      string
	log       *zap.Logger
	mu        sync.RWMutex
	current   *Options
	callbacks []func(*Options)
	watcher   *fsnotify.Watcher
	stopCh    chan struct{}
	done      chan struct{}
}

// NewWatcher watches path, starting from initial. The directory is
// watched rather than the file, since editors often replace the file.
func NewWatcher(path string, initial *Options, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	w := &Watcher{
		path:    path,
		log:     log,
		current: initial,
		watcher: fsw,
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.watchLoop()
	log.Info("watching configuration", zap.String("path", path))
	return w, nil
}

// OnChange registers fn to receive reloaded options.
func (w *Watcher) OnChange(fn func(*Options)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, fn)
}

// Current returns the last valid options.
func (w *Watcher) Current() *Options {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Close stops watching and waits for the watcher goroutine to exit.
func (w *Watcher) Close() error {
	close(w.stopCh)
	<-w.done
	return nil
}

func (w *Watcher) watchLoop() {
	defer close(w.done)
	defer w.watcher.Close()

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.log.Debug("configuration file changed",
				zap.String("file", event.Name),
				zap.String("operation", event.Op.String()),
			)
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("config watcher error", zap.Error(err))

		case <-w.stopCh:
			return
		}
	}
}

// reload reads the file again. Invalid or unchanged options are ignored.
func (w *Watcher) reload() {
	next, err := Load(w.path)
	if err != nil {
		w.log.Error("invalid configuration after reload", zap.Error(err))
		return
	}

	w.mu.Lock()
	if *next == *w.current {
		w.mu.Unlock()
		w.log.Debug("configuration unchanged after reload")
		return
	}
	w.current = next
	callbacks := append([]func(*Options){}, w.callbacks...)
	w.mu.Unlock()

	w.log.Info("configuration reloaded", zap.Int("callbacks", len(callbacks)))
	for _, fn := range callbacks {
		fn(next)
	}
}
