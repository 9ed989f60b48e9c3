package plan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/darraghh1/plantrack/internal/logger"
)

// Watcher monitors a plans root for plan and phase file changes and
// fires a debounced callback. The extraction pipeline itself stays
// unaware of watching; the callback owner decides when to re-scan.
type Watcher struct {
	root       string
	watcher    *fsnotify.Watcher
	debounceMs int
	onChange   func()

	running bool
	stopCh  chan struct{}
	mu      sync.RWMutex

	// Debouncing state
	pending   map[string]time.Time
	pendingMu sync.Mutex
}

// NewWatcher creates a watcher over the plans root. onChange runs once
// per settled burst of file changes.
func NewWatcher(root string, debounceMs int, onChange func()) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	return &Watcher{
		root:       root,
		watcher:    fsWatcher,
		debounceMs: debounceMs,
		onChange:   onChange,
		stopCh:     make(chan struct{}),
		pending:    make(map[string]time.Time),
	}, nil
}

// Start begins watching for file changes.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.addDirectories(); err != nil {
		return fmt.Errorf("add directories: %w", err)
	}

	go w.processEvents()
	go w.processDebounced()

	return nil
}

// Stop stops the file watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	w.running = false
	close(w.stopCh)

	return w.watcher.Close()
}

// IsRunning returns whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// addDirectories watches the root and every plan directory below it.
func (w *Watcher) addDirectories() error {
	if err := w.watcher.Add(w.root); err != nil {
		return err
	}

	entries, err := os.ReadDir(w.root)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(w.root, entry.Name())
		if err := w.watcher.Add(dir); err != nil {
			logger.GetLogger().Warn().Err(err).Str("dir", dir).Msg("Cannot watch plan directory")
		}
	}
	return nil
}

// isPlanDocument reports whether a path names a plan file or a phase
// detail file.
func isPlanDocument(path string) bool {
	base := filepath.Base(path)
	if base == PlanFileName {
		return true
	}
	return strings.HasPrefix(base, "phase-") && strings.HasSuffix(base, ".md")
}

// processEvents handles file system events.
func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// New plan directories need their own watch.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if filepath.Dir(event.Name) == w.root {
						if err := w.watcher.Add(event.Name); err != nil {
							logger.GetLogger().Warn().Err(err).Str("dir", event.Name).Msg("Cannot watch new plan directory")
						}
					}
					continue
				}
			}

			if !isPlanDocument(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			w.pendingMu.Lock()
			w.pending[event.Name] = time.Now()
			w.pendingMu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.GetLogger().Warn().Err(err).Msg("Watcher error")
		}
	}
}

// processDebounced fires the change callback once pending changes have
// been stable for the debounce window.
func (w *Watcher) processDebounced() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return

		case <-ticker.C:
			if w.flushPending() {
				w.onChange()
			}
		}
	}
}

// flushPending reports whether a settled batch of changes was drained.
func (w *Watcher) flushPending() bool {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	if len(w.pending) == 0 {
		return false
	}

	now := time.Now()
	debounce := time.Duration(w.debounceMs) * time.Millisecond
	for _, ts := range w.pending {
		// Wait until the whole burst has settled.
		if now.Sub(ts) < debounce {
			return false
		}
	}

	w.pending = make(map[string]time.Time)
	return true
}
