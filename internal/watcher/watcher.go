// Package watcher monitors deal stage directories for workbook changes
// and delivers debounced batches of changed and removed paths.
package watcher

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Batch is one debounced set of filesystem changes.
type Batch struct {
	// Changed holds paths that were written or created and pass the
	// filter. They should be re-extracted.
	Changed []string
	// Removed holds paths that were deleted or renamed away. Their rows
	// should be pruned.
	Removed []string
}

// Callback receives each debounced batch.
type Callback func(batch Batch)

// Watcher watches directories recursively and coalesces change events.
type Watcher struct {
	fsw          *fsnotify.Watcher
	dirs         []string
	filter       func(path string) bool // which files are interesting
	debounceTime time.Duration
	callback     Callback

	ctx    context.Context
	cancel context.CancelFunc

	paused   bool
	pausedMu sync.RWMutex

	changed       map[string]bool
	removed       map[string]bool
	accumulatedMu sync.Mutex

	debounceTimer *time.Timer
	timerMu       sync.Mutex

	stopOnce sync.Once
	doneCh   chan struct{}
}

// New creates a watcher over the given directories. filter decides which
// file paths are interesting (typically the discovery criteria); it is
// consulted for write/create events, while remove events pass through on
// extension alone since the file is already gone.
func New(dirs []string, filter func(path string) bool, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	w := &Watcher{
		fsw:          fsw,
		dirs:         dirs,
		filter:       filter,
		debounceTime: debounce,
		changed:      make(map[string]bool),
		removed:      make(map[string]bool),
		doneCh:       make(chan struct{}),
	}

	for _, dir := range dirs {
		if err := w.addDirectoriesRecursively(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Start begins watching and delivering batches to callback.
func (w *Watcher) Start(ctx context.Context, callback Callback) error {
	if callback == nil {
		return nil
	}
	w.callback = callback
	w.ctx, w.cancel = context.WithCancel(ctx)

	go w.watch()
	return nil
}

// Stop shuts the watcher down and waits for the event loop to exit.
// Idempotent.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		if w.cancel != nil {
			w.cancel()
			<-w.doneCh
		} else {
			close(w.doneCh)
		}
		err = w.fsw.Close()
	})
	return err
}

// Pause stops firing callbacks but keeps accumulating events. Used while
// a scan is in flight so its own writes do not retrigger it.
func (w *Watcher) Pause() {
	w.pausedMu.Lock()
	defer w.pausedMu.Unlock()
	w.paused = true
}

// Resume re-enables callbacks, firing immediately if events accumulated
// during the pause.
func (w *Watcher) Resume() {
	w.pausedMu.Lock()
	wasPaused := w.paused
	w.paused = false
	w.pausedMu.Unlock()

	if wasPaused {
		w.fireIfAccumulated()
	}
}

func (w *Watcher) watch() {
	defer close(w.doneCh)

	expiredCh := make(chan struct{}, 1)

	for {
		select {
		case <-w.ctx.Done():
			w.stopDebounceTimer()
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}

			// New directories join the watch set immediately.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addDirectoriesRecursively(event.Name); err != nil {
						log.Printf("Warning: failed to watch new directory %s: %v", event.Name, err)
					}
					continue
				}
			}

			w.recordEvent(event)

		case <-expiredCh:
			w.handleDebounceExpired()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)
		}

		// Reset the timer after any recorded activity.
		w.accumulatedMu.Lock()
		pending := len(w.changed)+len(w.removed) > 0
		w.accumulatedMu.Unlock()
		if pending {
			w.resetDebounceTimer(expiredCh)
		}
	}
}

func (w *Watcher) recordEvent(event fsnotify.Event) {
	switch {
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		if !w.filterByName(event.Name) {
			return
		}
		w.accumulatedMu.Lock()
		delete(w.changed, event.Name)
		w.removed[event.Name] = true
		w.accumulatedMu.Unlock()

	case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
		if w.filter != nil && !w.filter(event.Name) {
			return
		}
		w.accumulatedMu.Lock()
		delete(w.removed, event.Name)
		w.changed[event.Name] = true
		w.accumulatedMu.Unlock()
	}
}

// filterByName applies the filter to a path that no longer exists. The
// discovery filter stats the file, so for removals only the name can be
// judged; a nil filter accepts everything.
func (w *Watcher) filterByName(path string) bool {
	if w.filter == nil {
		return true
	}
	switch filepath.Ext(path) {
	case ".xlsb", ".xlsm", ".xlsx":
		return true
	default:
		return false
	}
}

func (w *Watcher) handleDebounceExpired() {
	w.pausedMu.RLock()
	paused := w.paused
	w.pausedMu.RUnlock()

	if paused {
		return
	}
	w.fireIfAccumulated()
}

func (w *Watcher) fireIfAccumulated() {
	w.accumulatedMu.Lock()
	if len(w.changed) == 0 && len(w.removed) == 0 {
		w.accumulatedMu.Unlock()
		return
	}
	batch := Batch{
		Changed: keys(w.changed),
		Removed: keys(w.removed),
	}
	w.changed = make(map[string]bool)
	w.removed = make(map[string]bool)
	w.accumulatedMu.Unlock()

	if w.callback != nil {
		w.callback(batch)
	}
}

func (w *Watcher) resetDebounceTimer(expiredCh chan struct{}) {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.debounceTimer != nil {
		if !w.debounceTimer.Stop() {
			select {
			case <-w.debounceTimer.C:
			default:
			}
		}
	}

	w.debounceTimer = time.AfterFunc(w.debounceTime, func() {
		select {
		case expiredCh <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopDebounceTimer() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
}

func (w *Watcher) addDirectoriesRecursively(rootPath string) error {
	return filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == rootPath {
				return err
			}
			log.Printf("Warning: error accessing %s: %v", path, err)
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			log.Printf("Warning: failed to watch directory %s: %v", path, err)
		}
		return nil
	})
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
