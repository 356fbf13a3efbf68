package watcher_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/panediff/internal/pubsub"
	"github.com/zjrosen/panediff/internal/watcher"
)

func startWatcher(t *testing.T, paths ...string) <-chan pubsub.Event[watcher.Change] {
	t.Helper()
	w, err := watcher.New(watcher.Config{Paths: paths, DebounceDur: 50 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	ch := w.Broker().Subscribe(ctx)

	require.NoError(t, w.Start())
	return ch
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.txt")
	writeFile(t, oldPath, "a")

	events := startWatcher(t, oldPath)

	for i := range 10 {
		writeFile(t, oldPath, fmt.Sprintf("a%d", i))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case ev := <-events:
		assert.Equal(t, pubsub.ChangedEvent, ev.Type)
		require.Len(t, ev.Payload.Paths, 1)
		assert.Equal(t, "old.txt", filepath.Base(ev.Payload.Paths[0]))
	case <-time.After(time.Second):
		t.Fatal("expected notification but got timeout")
	}

	select {
	case <-events:
		t.Fatal("unexpected second notification")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_BothSidesInOneWindow(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.txt")
	newPath := filepath.Join(dir, "new.txt")
	writeFile(t, oldPath, "a")
	writeFile(t, newPath, "b")

	events := startWatcher(t, oldPath, newPath)

	writeFile(t, oldPath, "a2")
	writeFile(t, newPath, "b2")

	select {
	case ev := <-events:
		require.Len(t, ev.Payload.Paths, 2)
		assert.Equal(t, "new.txt", filepath.Base(ev.Payload.Paths[0]), "paths are sorted")
		assert.Equal(t, "old.txt", filepath.Base(ev.Payload.Paths[1]))
	case <-time.After(time.Second):
		t.Fatal("expected notification but got timeout")
	}
}

func TestWatcher_FilesInDifferentDirectories(t *testing.T) {
	oldPath := filepath.Join(t.TempDir(), "same.txt")
	newPath := filepath.Join(t.TempDir(), "same.txt")
	writeFile(t, oldPath, "a")
	writeFile(t, newPath, "b")

	events := startWatcher(t, oldPath, newPath)
	writeFile(t, newPath, "b2")

	select {
	case ev := <-events:
		require.Len(t, ev.Payload.Paths, 1)
		abs, err := filepath.Abs(newPath)
		require.NoError(t, err)
		assert.Equal(t, abs, ev.Payload.Paths[0])
	case <-time.After(time.Second):
		t.Fatal("expected notification but got timeout")
	}
}

func TestWatcher_IgnoresIrrelevantFiles(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.txt")
	otherPath := filepath.Join(dir, "other.txt")
	writeFile(t, oldPath, "a")
	writeFile(t, otherPath, "initial")

	events := startWatcher(t, oldPath)
	writeFile(t, otherPath, "other content")

	select {
	case <-events:
		t.Fatal("should not notify for unrelated files")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_RemovedFile(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.txt")
	writeFile(t, oldPath, "a")

	events := startWatcher(t, oldPath)
	require.NoError(t, os.Remove(oldPath))

	select {
	case ev := <-events:
		assert.Equal(t, pubsub.RemovedEvent, ev.Type)
	case <-time.After(time.Second):
		t.Fatal("expected notification but got timeout")
	}
}

func TestWatcher_StopClosesSubscriptions(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.txt")
	writeFile(t, oldPath, "a")

	w, err := watcher.New(watcher.DefaultConfig(oldPath))
	require.NoError(t, err)
	ch := w.Broker().Subscribe(context.Background())
	require.NoError(t, w.Start())

	done := make(chan struct{})
	go func() {
		assert.NoError(t, w.Stop())
		assert.NoError(t, w.Stop(), "second stop is a no-op")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop() timed out - possible deadlock")
	}

	_, ok := <-ch
	assert.False(t, ok, "subscription closed with the watcher")
}

func TestNew_RequiresPaths(t *testing.T) {
	_, err := watcher.New(watcher.Config{})
	require.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := watcher.DefaultConfig("a.txt", "b.txt")

	assert.Equal(t, []string{"a.txt", "b.txt"}, cfg.Paths)
	assert.Equal(t, watcher.DefaultDebounce, cfg.DebounceDur)
}
