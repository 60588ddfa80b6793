package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitForChange(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case p := <-ch:
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change notification")
		return ""
	}
}

func TestFileWatcherDetectsWrite(t *testing.T) {
	for _, tc := range []struct {
		name string
		opts []FileWatcherOption
	}{
		{"fsnotify", nil},
		{"polling", []FileWatcherOption{WithForcePolling(), WithPollInterval(20 * time.Millisecond)}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "breakpoints.yaml")
			if err := os.WriteFile(path, []byte("sm: 0\n"), 0644); err != nil {
				t.Fatal(err)
			}

			changes := make(chan string, 4)
			opts := append([]FileWatcherOption{WithDebouncer(NewDebouncer(20 * time.Millisecond))}, tc.opts...)
			w, err := NewFileWatcher(path, func(p string) { changes <- p }, opts...)
			if err != nil {
				t.Fatalf("NewFileWatcher: %v", err)
			}
			if err := w.Start(context.Background()); err != nil {
				t.Fatalf("Start: %v", err)
			}
			defer w.Stop()

			// Give the polling loop a baseline before modifying the file.
			time.Sleep(50 * time.Millisecond)
			if err := os.WriteFile(path, []byte("sm: 0\nmd: 800\n"), 0644); err != nil {
				t.Fatal(err)
			}

			if got := waitForChange(t, changes); got != w.Path() {
				t.Errorf("changed path = %q, want %q", got, w.Path())
			}
		})
	}
}

func TestFileWatcherIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "breakpoints.yaml")
	if err := os.WriteFile(path, []byte("sm: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	changes := make(chan string, 4)
	w, err := NewFileWatcher(path, func(p string) { changes <- p },
		WithDebouncer(NewDebouncer(10*time.Millisecond)))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case p := <-changes:
		t.Errorf("unexpected change for %q", p)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestFileWatcherValidation(t *testing.T) {
	if _, err := NewFileWatcher("", func(string) {}); err == nil {
		t.Error("expected error for empty path")
	}
	if _, err := NewFileWatcher("x.yaml", nil); err == nil {
		t.Error("expected error for nil handler")
	}
}

func TestFileWatcherStopIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "b.yaml")
	w, err := NewFileWatcher(path, func(string) {}, WithForcePolling())
	if err != nil {
		t.Fatal(err)
	}
	w.Stop()
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err == nil {
		t.Error("second Start should fail")
	}
	w.Stop()
	w.Stop()
	if !w.Polling() {
		t.Error("expected polling mode")
	}
}
