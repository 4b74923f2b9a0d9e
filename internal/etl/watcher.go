package etl

import (
	"errors"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay is the time to wait after a file event before triggering a
// run. This coalesces rapid successive writes into a single pass.
var debounceDelay = 500 * time.Millisecond

// newWatcherFunc creates an fsnotify watcher; tests may replace it to inject
// errors.
type newWatcherFunc func() (*fsnotify.Watcher, error)

// DirWatcher watches the ETL source directory for new or changed documents
// and invokes a callback (normally one pipeline run) after each burst of
// events settles.
type DirWatcher struct {
	dir          string
	watcher      *fsnotify.Watcher
	done         chan struct{}
	mu           sync.Mutex
	running      bool
	newWatcherFn newWatcherFunc // nil means use fsnotify.NewWatcher
}

// NewDirWatcher creates a watcher for the given directory. Call Start to
// begin watching and Stop to release resources.
func NewDirWatcher(dir string) *DirWatcher {
	return &DirWatcher{dir: dir}
}

// Start begins watching. The callback runs on a separate goroutine after the
// debounce window closes. Start must not be called again without an
// intervening Stop.
func (w *DirWatcher) Start(callback func()) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if callback == nil {
		return errors.New("dir watcher: callback must not be nil")
	}
	if w.running {
		return errors.New("dir watcher: already running")
	}

	newWatcher := w.newWatcherFn
	if newWatcher == nil {
		newWatcher = fsnotify.NewWatcher
	}
	watcher, err := newWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(w.dir); err != nil {
		watcher.Close()
		return err
	}

	w.watcher = watcher
	w.done = make(chan struct{})
	w.running = true

	go loop(watcher, w.done, callback)
	return nil
}

// loop coalesces write/create events and fires the callback once per burst.
// It owns its watcher and done channel so a concurrent Stop only has to close
// them; the closed channels end the loop.
func loop(watcher *fsnotify.Watcher, done chan struct{}, callback func()) {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-done:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDelay, func() {
				// A pending debounce must not trigger a run after Stop.
				select {
				case <-done:
				default:
					callback()
				}
			})
		case _, ok := <-watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// Stop halts the watcher and releases the underlying fsnotify resources.
// Safe to call when not running.
func (w *DirWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	close(w.done)
	w.watcher.Close()
	w.running = false
}
