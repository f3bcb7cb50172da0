package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestHandleEventSkipsIgnoredAndIrrelevant(t *testing.T) {
	w := &Watcher{delay: time.Hour, onChange: func() {
		t.Fatal("ignored event should not reach the callback")
	}}
	w.handleEvent(fsnotify.Event{Name: "/repo/.git/index.lock", Op: fsnotify.Write})
	w.handleEvent(fsnotify.Event{Name: "/repo/.git/fsmonitor--daemon.ipc", Op: fsnotify.Create})
	w.handleEvent(fsnotify.Event{Name: "/repo/.git/HEAD", Op: fsnotify.Chmod})
	if w.debounce != nil {
		t.Fatal("ignored events should not initialize the debouncer")
	}
}

func TestHandleEventDebouncesBurst(t *testing.T) {
	var calls atomic.Int32
	w := &Watcher{delay: time.Hour, onChange: func() {
		calls.Add(1)
	}}
	w.handleEvent(fsnotify.Event{Name: "/repo/.git/HEAD", Op: fsnotify.Write})
	w.handleEvent(fsnotify.Event{Name: "/repo/.git/refs/heads/main", Op: fsnotify.Create})
	w.handleEvent(fsnotify.Event{Name: "/repo/.git/ORIG_HEAD", Op: fsnotify.Remove})
	if w.debounce == nil {
		t.Fatal("relevant event should initialize the debouncer")
	}
	w.debounce.Flush()
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected one reload for the burst, got %d", got)
	}
	w.debounce.Flush()
	if got := calls.Load(); got != 1 {
		t.Fatalf("flush without new events reran the reload, got %d", got)
	}
}

func TestShouldIgnorePath(t *testing.T) {
	for _, name := range []string{"/r/.git/index.lock", "/r/.git/a.IPC"} {
		if !shouldIgnorePath(name) {
			t.Errorf("expected %s to be ignored", name)
		}
	}
	if shouldIgnorePath("/r/.git/refs/heads/main") {
		t.Error("branch ref update should not be ignored")
	}
}

func TestWatchPathsPrefersGitDir(t *testing.T) {
	root := t.TempDir()
	if got := watchPaths(root); len(got) != 1 || got[0] != root {
		t.Fatalf("expected the root itself without .git, got %v", got)
	}
	gitDir := filepath.Join(root, ".git")
	if err := os.Mkdir(gitDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if got := watchPaths(root); len(got) != 1 || got[0] != gitDir {
		t.Fatalf("expected the .git directory, got %v", got)
	}
}
