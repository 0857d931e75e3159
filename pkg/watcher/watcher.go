// Package watcher reports changes to page files below a directory.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/abdul-hamid-achik/routegen/internal/logging"
	"github.com/abdul-hamid-achik/routegen/pkg/scanner"
)

// DefaultDebounce is how long the watcher waits for more events before
// reporting a batch.
const DefaultDebounce = 100 * time.Millisecond

// Watcher watches a directory tree and calls OnChange with the batch of
// changed paths once events settle.
type Watcher struct {
	dir      string
	match    func(rel string) bool
	onChange func(changed []string)
	debounce time.Duration
	log      *slog.Logger

	mu      sync.Mutex
	pending map[string]bool
	timer   *time.Timer

	// flushMu keeps onChange calls from overlapping
	flushMu sync.Mutex
}

// New creates a Watcher for dir. match receives slash paths relative to dir
// and selects the files worth reporting; nil matches every file.
func New(dir string, match func(rel string) bool, onChange func(changed []string)) *Watcher {
	if match == nil {
		match = func(string) bool { return true }
	}
	return &Watcher{
		dir:      dir,
		match:    match,
		onChange: onChange,
		debounce: DefaultDebounce,
		log:      logging.Discard(),
		pending:  make(map[string]bool),
	}
}

// SetDebounce sets the settle delay.
func (w *Watcher) SetDebounce(d time.Duration) {
	if d > 0 {
		w.debounce = d
	}
}

// SetLogger sets the logger used for debug output.
func (w *Watcher) SetLogger(l *slog.Logger) {
	if l != nil {
		w.log = l
	}
}

// Run watches until ctx is cancelled. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", w.dir, err)
	}
	w.addTree(fw, w.dir)
	w.log.Debug("watching for changes", "dir", w.dir)

	defer w.stopTimer()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handle(fw, event)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(fw *fsnotify.Watcher, event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	rel, err := filepath.Rel(w.dir, event.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)

	// New directories are watched as they appear.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if scanner.IsPrivateFolder(info.Name()) {
				return
			}
			w.addTree(fw, event.Name)
			w.log.Debug("added new directory to watcher", "dir", rel)
			// files may have landed before the watch was registered
			w.schedule(rel)
			return
		}
	}

	removed := event.Op&(fsnotify.Remove|fsnotify.Rename) != 0
	// a removed directory has no extension and takes its pages with it
	if !w.match(rel) && !(removed && filepath.Ext(rel) == "") {
		return
	}

	w.log.Debug("file changed", "file", rel, "op", event.Op.String())
	w.schedule(rel)
}

func (w *Watcher) schedule(rel string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[rel] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.flushMu.Lock()
	defer w.flushMu.Unlock()

	w.mu.Lock()
	changed := make([]string, 0, len(w.pending))
	for p := range w.pending {
		changed = append(changed, p)
	}
	w.pending = make(map[string]bool)
	w.timer = nil
	w.mu.Unlock()

	if len(changed) == 0 || w.onChange == nil {
		return
	}
	sort.Strings(changed)
	w.onChange(changed)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// addTree watches root and every non-private directory below it.
func (w *Watcher) addTree(fw *fsnotify.Watcher, root string) {
	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && scanner.IsPrivateFolder(info.Name()) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			w.log.Warn("failed to watch directory", "dir", path, "error", err)
		}
		return nil
	})
}
