package watcher

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func newTestWatcher(t *testing.T, debounce time.Duration) *FileWatcher {
	t.Helper()
	fw, err := NewFileWatcher(debounce, log.New(io.Discard))
	if err != nil {
		t.Fatalf("NewFileWatcher failed: %v", err)
	}
	t.Cleanup(func() { fw.Close() })
	return fw
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestHandleFileChangeDebounces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.txt")
	writeFile(t, path, "Hadi Jaffri\n")

	fw := newTestWatcher(t, 50*time.Millisecond)
	var calls atomic.Int32
	if err := fw.Watch([]string{path}, func(string) { calls.Add(1) }); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		fw.handleFileChange(path)
	}
	fw.handleFileChange(filepath.Join(filepath.Dir(path), "other.txt"))

	time.Sleep(200 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 debounced call, got %d", got)
	}
}

func TestRunDeliversWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.txt")
	writeFile(t, path, "Hadi Jaffri\n")

	fw := newTestWatcher(t, 20*time.Millisecond)
	changed := make(chan string, 4)
	if err := fw.Watch([]string{path}, func(p string) { changed <- p }); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- fw.Run(ctx) }()

	writeFile(t, path, "Hadi Jaffri\nAli Ahmed\n")

	select {
	case got := <-changed:
		want, _ := filepath.Abs(path)
		if got != want {
			t.Errorf("expected callback for %s, got %s", want, got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
