// Package watch reloads the commit window when the repository changes on
// disk. Events are debounced so a burst of writes from a single git
// operation triggers one reload.
package watch

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/thiagokokada/gitgraph-go/internal/debounce"
)

const DefaultDebounceDelay = 350 * time.Millisecond

type Watcher struct {
	fs       *fsnotify.Watcher
	delay    time.Duration
	onChange func()

	mu sync.Mutex
	// debounce is created lazily on the first relevant event.
	debounce *debounce.Debouncer
}

// Start watches the repository's .git directory (or the root itself when
// no .git exists) and invokes onChange after each debounced burst of
// events. Close stops the watcher, flushing any pending reload first.
func Start(repoPath string, delay time.Duration, onChange func()) (*Watcher, error) {
	if onChange == nil {
		return nil, fmt.Errorf("onChange callback not set")
	}
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	for _, path := range watchPaths(repoPath) {
		slog.Debug("adding path to FS watcher", slog.String("path", path))
		if err := fs.Add(path); err != nil {
			err = errors.Join(err, fs.Close())
			return nil, fmt.Errorf("watch %s: %w", path, err)
		}
	}
	w := &Watcher{fs: fs, delay: delay, onChange: onChange}
	go w.loop()
	return w, nil
}

func (w *Watcher) Close() error {
	err := w.fs.Close()
	w.mu.Lock()
	d := w.debounce
	w.mu.Unlock()
	if d != nil {
		d.Flush()
	}
	return err
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			slog.Error("fsnotify error", slog.Any("error", err))
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	if shouldIgnorePath(ev.Name) {
		return
	}
	slog.Debug("fsnotify event",
		slog.String("op", ev.Op.String()),
		slog.String("path", ev.Name),
	)
	w.mu.Lock()
	d := debounce.Ensure(&w.debounce, w.delay, w.onChange)
	w.mu.Unlock()
	d.Trigger()
}

func watchPaths(root string) []string {
	if root == "" {
		return nil
	}
	gitDir := filepath.Join(root, ".git")
	if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
		return []string{gitDir}
	}
	return []string{root}
}

func shouldIgnorePath(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".lock" || ext == ".ipc"
}
