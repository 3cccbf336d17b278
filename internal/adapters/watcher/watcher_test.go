package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/adapters/watcher"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func startWatcher(t *testing.T, root string) (*watcher.Watcher, <-chan ports.WatchEvent) {
	t.Helper()
	logger := mocks.NewMockLogger(gomock.NewController(t))
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()

	w, err := watcher.NewWatcher(logger)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		_ = w.Stop()
	})
	require.NoError(t, w.Start(ctx, root))

	events := make(chan ports.WatchEvent, 100)
	go func() {
		for ev := range w.Events() {
			events <- ev
		}
		close(events)
	}()
	return w, events
}

func waitFor(t *testing.T, events <-chan ports.WatchEvent, path string) ports.WatchEvent {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			require.True(t, ok, "event stream closed before %s", path)
			if ev.Path == path {
				return ev
			}
		case <-timeout:
			t.Fatalf("no event for %s", path)
		}
	}
}

func TestWatcher_ReportsWrites(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "Main.java")
	write(t, file, "class Main {}")

	_, events := startWatcher(t, root)

	require.NoError(t, os.WriteFile(file, []byte("class Main { }"), domain.FilePerm))
	ev := waitFor(t, events, file)
	assert.Equal(t, ports.OpWrite, ev.Operation)
}

func TestWatcher_WatchesNewDirectories(t *testing.T) {
	root := t.TempDir()
	_, events := startWatcher(t, root)

	dir := filepath.Join(root, "pkg")
	require.NoError(t, os.Mkdir(dir, domain.DirPerm))
	assert.Equal(t, ports.OpCreate, waitFor(t, events, dir).Operation)

	// Give the watcher a moment to add the new directory.
	file := filepath.Join(dir, "util.py")
	deadline := time.Now().Add(5 * time.Second)
	for {
		write(t, file, time.Now().String())
		select {
		case ev := <-events:
			if ev.Path == file {
				return
			}
		case <-time.After(100 * time.Millisecond):
		}
		if time.Now().After(deadline) {
			t.Fatal("no event from a directory created after Start")
		}
	}
}

func TestWatcher_StartMissingRoot(t *testing.T) {
	logger := mocks.NewMockLogger(gomock.NewController(t))
	w, err := watcher.NewWatcher(logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	err = w.Start(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, domain.ErrWatchFailed)
}

func TestWatcher_EventsEndOnCancel(t *testing.T) {
	logger := mocks.NewMockLogger(gomock.NewController(t))
	w, err := watcher.NewWatcher(logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx, t.TempDir()))
	cancel()

	done := make(chan struct{})
	go func() {
		for range w.Events() {
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("events did not end after cancel")
	}
}
