// Package watcher watches the client directory for daemon and settings
// changes.
package watcher

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/seadrive-io/seadrive-tray/internal/config"
)

// EventType represents the type of file system event.
type EventType int

// Event types for file system changes.
const (
	EventDaemonStarted EventType = iota // daemon.yaml written
	EventDaemonStopped                  // daemon.yaml removed
	EventSettingsChanged
	EventAccountsChanged
)

func (t EventType) String() string {
	switch t {
	case EventDaemonStarted:
		return "daemon-started"
	case EventDaemonStopped:
		return "daemon-stopped"
	case EventSettingsChanged:
		return "settings-changed"
	case EventAccountsChanged:
		return "accounts-changed"
	default:
		return "unknown"
	}
}

// Event represents a file system change event.
type Event struct {
	Type EventType
	Path string
}

// DefaultDebounce is how long a path must stay quiet before its event fires.
const DefaultDebounce = 100 * time.Millisecond

// Watcher watches a single directory for the client's well-known files.
type Watcher struct {
	dir        string
	delay      time.Duration
	log        *zap.Logger
	fsWatcher  *fsnotify.Watcher
	eventsChan chan Event
	done       chan struct{}
	stopOnce   sync.Once
	debounce   map[string]*time.Timer
	debounceMu sync.Mutex
}

// New creates a watcher for dir. Pass an empty dir to watch the global
// client directory.
func New(dir string, log *zap.Logger) (*Watcher, error) {
	if dir == "" {
		var err error
		if dir, err = config.GlobalDir(); err != nil {
			return nil, err
		}
	}
	if log == nil {
		log = zap.NewNop()
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		dir:        dir,
		delay:      DefaultDebounce,
		log:        log.With(zap.String("component", "watcher")),
		fsWatcher:  fsWatcher,
		eventsChan: make(chan Event, 100),
		done:       make(chan struct{}),
		debounce:   make(map[string]*time.Timer),
	}, nil
}

// Events returns the channel for receiving events.
func (w *Watcher) Events() <-chan Event {
	return w.eventsChan
}

// Start starts the watcher. The directory must exist.
func (w *Watcher) Start() error {
	if err := w.fsWatcher.Add(w.dir); err != nil {
		return err
	}
	go w.processEvents()
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		_ = w.fsWatcher.Close()

		w.debounceMu.Lock()
		for path, timer := range w.debounce {
			timer.Stop()
			delete(w.debounce, path)
		}
		w.debounceMu.Unlock()
	})
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.log.Debug("fsnotify", zap.Stringer("op", event.Op), zap.String("path", event.Name))
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Atomic saves rename a temp file onto the target, which shows up as
	// Create on the target. Remove and Rename mean the target went away.
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}
	if _, ok := eventTypeFor(filepath.Base(event.Name)); !ok {
		return
	}

	w.debounceEvent(event.Name, func() {
		w.processFileChange(event.Name)
	})
}

func (w *Watcher) debounceEvent(path string, fn func()) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, ok := w.debounce[path]; ok {
		timer.Stop()
	}
	w.debounce[path] = time.AfterFunc(w.delay, func() {
		w.debounceMu.Lock()
		delete(w.debounce, path)
		w.debounceMu.Unlock()
		fn()
	})
}

// processFileChange emits the event for a debounced path. The file's
// presence at fire time decides between started and stopped, so a burst of
// events collapses to the final state.
func (w *Watcher) processFileChange(path string) {
	eventType, _ := eventTypeFor(filepath.Base(path))
	if eventType == EventDaemonStarted && !config.FileExists(path) {
		eventType = EventDaemonStopped
	}

	select {
	case w.eventsChan <- Event{Type: eventType, Path: path}:
	case <-w.done:
	}
}

func eventTypeFor(filename string) (EventType, bool) {
	switch filename {
	case config.DaemonFileName:
		return EventDaemonStarted, true
	case config.SettingsFileName:
		return EventSettingsChanged, true
	case config.AccountsFileName:
		return EventAccountsChanged, true
	}
	return 0, false
}
