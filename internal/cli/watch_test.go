package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Dicklesworthstone/miniql/internal/testutil"
)

// TestFsnotifyDetectsDataDirWrite is a smoke test for the same watcher
// wiring runWatch uses: a write under the data directory must produce an
// fsnotify event within a short poll window.
func TestFsnotifyDetectsDataDirWrite(t *testing.T) {
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer watcher.Close()
	if err := watcher.Add(dataDir); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	var seen bool
	go func() {
		for event := range watcher.Events {
			if event.Op&fsnotify.Create != 0 {
				seen = true
				return
			}
		}
	}()

	if err := os.WriteFile(filepath.Join(dataDir, "users.json"), []byte("[]"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if !testutil.WaitForCondition(func() bool { return seen }, 10*time.Millisecond, time.Second) {
		t.Fatalf("fsnotify did not report the data-dir write in time")
	}
}
