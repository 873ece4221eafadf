package config

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Event carries a config reloaded after a change on disk. Err is set when
// the new file could not be loaded.
type Event struct {
	Config *Config
	Err    error
}

// Watcher reloads the config file whenever it is written.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	Events  chan Event
	done    chan struct{}
	mu      sync.Mutex
	running bool
}

// NewWatcher watches the directory holding path; editors often replace the
// file instead of writing it in place.
func NewWatcher(path string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create config watcher: %w", err)
	}
	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("watch config dir: %w", err)
	}
	return &Watcher{
		path:    path,
		watcher: fsWatcher,
		Events:  make(chan Event, 8),
		done:    make(chan struct{}),
	}, nil
}

// Start begins delivering events.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.running = true
	go w.loop()
}

func (w *Watcher) loop() {
	target := filepath.Clean(w.path)
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Chmod) == 0 {
				continue
			}
			cfg, err := LoadFrom(w.path)
			select {
			case w.Events <- Event{Config: cfg, Err: err}:
			default:
				// reader is behind; it will see the next write
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Events <- Event{Err: fmt.Errorf("watch config: %w", err)}:
			default:
			}
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		close(w.done)
		w.running = false
	}
	return w.watcher.Close()
}
