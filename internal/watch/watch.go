// Package watch monitors a bundle drop directory and hands new or updated
// bundle files to a handler. Editors and collaborators write files in
// multiple events, so per-path debouncing coalesces the noise.
package watch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/kimbidav/weekly-slack-recon/internal/logging"
)

// Watcher re-runs the handler for every settled .json file in Dir. Handle
// is always called from the Run goroutine: invocations never overlap, so
// the handler may hold non-threadsafe state (an encoder, a single-conn
// store) without its own locking.
type Watcher struct {
	Dir      string
	Debounce time.Duration
	Handle   func(path string)

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// Run blocks until ctx is cancelled or the underlying watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	log := logging.Get(logging.CategoryWatch)

	if w.Handle == nil {
		return fmt.Errorf("watcher has no handler")
	}
	if w.Debounce <= 0 {
		w.Debounce = 500 * time.Millisecond
	}
	w.timers = make(map[string]*time.Timer)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.Dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.Dir, err)
	}
	log.Info("watching bundle directory", zap.String("dir", w.Dir))

	// Timer callbacks hand settled paths back here instead of calling the
	// handler themselves; done unblocks any callback that fires after Run
	// has already returned.
	settled := make(chan string)
	done := make(chan struct{})
	defer close(done)
	defer w.stopTimers()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case path := <-settled:
			w.Handle(path)
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !strings.HasSuffix(ev.Name, ".json") {
				continue
			}
			w.schedule(ev.Name, settled, done)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))
		}
	}
}

// schedule resets the debounce timer for one path. The fired callback only
// reports the path; it never touches the handler.
func (w *Watcher) schedule(path string, settled chan<- string, done <-chan struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.Debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		select {
		case settled <- path:
		case <-done:
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}
