package server

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce coalesces the bursts of events editors emit on save.
const reloadDebounce = 100 * time.Millisecond

// Watcher watches the config file and triggers reload when it changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	file     string
	onReload func(filePath string) error
	done     chan bool
	debug    bool

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher creates a watcher for file. The parent directory is watched
// because editors often replace files rather than write them in place.
func NewWatcher(file string, onReload func(string) error, debug bool) (*Watcher, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", file, err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(abs)
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	if debug {
		log.Printf("[Watch] Added directory: %s", dir)
	}

	return &Watcher{
		watcher:  fsWatcher,
		file:     abs,
		onReload: onReload,
		done:     make(chan bool),
		debug:    debug,
	}, nil
}

// Start begins watching for file changes.
func (w *Watcher) Start() {
	go func() {
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				name, err := filepath.Abs(event.Name)
				if err != nil || name != w.file {
					continue
				}
				if w.debug {
					log.Printf("[Watch] %s: %s", event.Op, name)
				}
				w.schedule()

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[Watch] Error: %v", err)

			case <-w.done:
				return
			}
		}
	}()
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(reloadDebounce, func() {
		select {
		case <-w.done:
			return
		default:
		}
		name := filepath.Base(w.file)
		if err := w.onReload(name); err != nil {
			log.Printf("[Watch] Reload failed for %s: %v", name, err)
		}
	})
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	return w.watcher.Close()
}
