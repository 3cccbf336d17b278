package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/adapters/watcher"
)

func TestDebouncer_Add_SinglePath(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var calls int
		var received []string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			calls++
			received = paths
		})

		d.Add("/project/src/Main.java")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 1, calls)
		assert.Equal(t, []string{"/project/src/Main.java"}, received)
	})
}

func TestDebouncer_Add_CoalescesAndSorts(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var calls int
		var received []string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			calls++
			received = paths
		})

		d.Add("/project/src/b.py")
		time.Sleep(50 * time.Millisecond)
		d.Add("/project/src/a.py")
		time.Sleep(50 * time.Millisecond)
		d.Add("/project/src/b.py")

		time.Sleep(99 * time.Millisecond)
		synctest.Wait()
		assert.Zero(t, calls, "window restarts on every event")

		time.Sleep(2 * time.Millisecond)
		synctest.Wait()
		require.Equal(t, 1, calls)
		assert.Equal(t, []string{"/project/src/a.py", "/project/src/b.py"}, received)
	})
}

func TestDebouncer_SeparateWindows(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var mu sync.Mutex
		var batches [][]string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			mu.Lock()
			batches = append(batches, paths)
			mu.Unlock()
		})

		d.Add("first.kt")
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		d.Add("second.kt")
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, [][]string{{"first.kt"}, {"second.kt"}}, batches)
	})
}

func TestDebouncer_Flush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var calls int
		var received []string

		d := watcher.NewDebouncer(time.Hour, func(paths []string) {
			calls++
			received = paths
		})

		d.Flush()
		assert.Zero(t, calls, "nothing pending")

		d.Add("App.java")
		d.Flush()
		require.Equal(t, 1, calls)
		assert.Equal(t, []string{"App.java"}, received)

		time.Sleep(2 * time.Hour)
		synctest.Wait()
		assert.Equal(t, 1, calls, "flushed paths are not delivered twice")
	})
}

func TestDebouncer_Stop(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var calls int
		d := watcher.NewDebouncer(100*time.Millisecond, func([]string) { calls++ })

		d.Add("App.java")
		d.Stop()

		time.Sleep(time.Second)
		synctest.Wait()
		assert.Zero(t, calls)
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		d := watcher.NewDebouncer(10*time.Millisecond, nil)
		d.Add("x")
		time.Sleep(20 * time.Millisecond)
		synctest.Wait()
		d.Add("y")
		d.Flush()
	})
}
