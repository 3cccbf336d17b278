package app_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/adapters/cas"
	"go.trai.ch/forge/internal/adapters/config"
	"go.trai.ch/forge/internal/adapters/fs"
	"go.trai.ch/forge/internal/adapters/remote"
	"go.trai.ch/forge/internal/app"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/core/ports/mocks"
	"go.trai.ch/forge/internal/engine/cache"
	"go.trai.ch/forge/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

const pythonProject = `project:
  name: demo
  lang: python
tasks:
  lint:
    command: ruff check src
    depends_on: [compile]
    description: Run linters
`

type fixture struct {
	root     string
	executor *mocks.MockExecutor
	logger   *mocks.MockLogger
	watcher  *mocks.MockWatcher
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	app      *app.App
}

func newFixture(t *testing.T, remoteCache ports.RemoteCache, forgefile string) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		root:     t.TempDir(),
		executor: mocks.NewMockExecutor(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
		watcher:  mocks.NewMockWatcher(ctrl),
		stdout:   new(bytes.Buffer),
		stderr:   new(bytes.Buffer),
	}
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	require.NoError(t, os.WriteFile(filepath.Join(f.root, domain.ConfigFileName), []byte(forgefile), domain.FilePerm))

	caches := cache.NewManager(cas.NewStore(), fs.NewHasher(fs.NewWalker()), remoteCache, f.logger)
	newWatcher := func() (ports.Watcher, error) { return f.watcher, nil }
	f.app = app.New(config.NewLoader(f.logger), f.logger, caches, scheduler.NewFactory(f.executor), newWatcher).
		WithOutput(f.stdout, f.stderr).
		WithWorkingDir(f.root)
	return f
}

func (f *fixture) writeSource(t *testing.T, rel, content string) string {
	t.Helper()
	path := filepath.Join(f.root, "src", filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	return path
}

// expectCompile makes the compile step write a marker into the output directory.
func (f *fixture) expectCompile(calls *atomic.Int32) *gomock.Call {
	return f.executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd domain.Command, stdout, _ io.Writer) error {
			if cmd.Task != domain.TaskCompile {
				return fmt.Errorf("unexpected command %q", cmd.Task)
			}
			calls.Add(1)
			out := filepath.Join(f.root, domain.DefaultOutputDir)
			if err := os.MkdirAll(out, domain.DirPerm); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(stdout, "compiled")
			return os.WriteFile(filepath.Join(out, "app.marker"), []byte("compiled\n"), domain.FilePerm)
		})
}

func linear() app.BuildOptions {
	return app.BuildOptions{OutputMode: "linear"}
}

func TestApp_Build_SecondBuildUsesLocalCache(t *testing.T) {
	f := newFixture(t, nil, pythonProject)
	f.writeSource(t, "app/main.py", "print('hi')\n")

	var compiles atomic.Int32
	f.expectCompile(&compiles).Times(1)

	require.NoError(t, f.app.Build(context.Background(), linear()))
	assert.Equal(t, int32(1), compiles.Load())
	assert.FileExists(t, domain.CachePath(f.root))
	assert.Contains(t, f.stdout.String(), "[compile] compiled")

	f.stderr.Reset()
	require.NoError(t, f.app.Build(context.Background(), linear()))
	assert.Equal(t, int32(1), compiles.Load(), "unchanged sources must not rebuild")
	assert.Contains(t, f.stderr.String(), "No changes detected")
	assert.Contains(t, f.stderr.String(), "Cached (local)")
}

func TestApp_Build_MissingOutputRebuilds(t *testing.T) {
	f := newFixture(t, nil, pythonProject)
	f.writeSource(t, "app/main.py", "print('hi')\n")

	var compiles atomic.Int32
	f.expectCompile(&compiles).Times(2)

	require.NoError(t, f.app.Build(context.Background(), linear()))
	require.NoError(t, os.RemoveAll(filepath.Join(f.root, domain.DefaultOutputDir)))
	require.NoError(t, f.app.Build(context.Background(), linear()))
	assert.Equal(t, int32(2), compiles.Load())
}

func TestApp_Build_NoCache(t *testing.T) {
	f := newFixture(t, nil, pythonProject)
	f.writeSource(t, "app/main.py", "print('hi')\n")

	var compiles atomic.Int32
	f.expectCompile(&compiles).Times(2)

	opts := linear()
	opts.NoCache = true
	require.NoError(t, f.app.Build(context.Background(), opts))
	require.NoError(t, f.app.Build(context.Background(), opts))
	assert.Equal(t, int32(2), compiles.Load())
}

func TestApp_Build_FailureKeepsPreviousHashes(t *testing.T) {
	f := newFixture(t, nil, pythonProject)
	f.writeSource(t, "app/main.py", "print('hi'\n")

	var stderrLines []string
	for i := range 30 {
		stderrLines = append(stderrLines, fmt.Sprintf("error line %d", i+1))
	}
	f.executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ domain.Command, _, stderr io.Writer) error {
			_, _ = fmt.Fprintln(stderr, strings.Join(stderrLines, "\n"))
			return domain.ErrTaskFailed
		}).
		Times(2)

	err := f.app.Build(context.Background(), linear())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBuildExecutionFailed)

	report := f.stderr.String()
	assert.Contains(t, report, "task 'compile' failed")
	assert.Contains(t, report, "  error line 20\n")
	assert.NotContains(t, report, "  error line 21\n")
	assert.Contains(t, report, "... (10 more lines)")

	// The failed build recorded nothing, so the same sources are built again.
	err = f.app.Build(context.Background(), linear())
	assert.ErrorIs(t, err, domain.ErrBuildExecutionFailed)
}

func TestApp_Build_WritesTrace(t *testing.T) {
	f := newFixture(t, nil, pythonProject)
	f.writeSource(t, "app/main.py", "print('hi')\n")

	var compiles atomic.Int32
	f.expectCompile(&compiles)

	require.NoError(t, f.app.Build(context.Background(), linear()))

	traces, err := filepath.Glob(filepath.Join(domain.TracesPath(f.root), "*.jsonl"))
	require.NoError(t, err)
	require.Len(t, traces, 1)

	data, err := os.ReadFile(traces[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name":"compile"`)
	assert.Contains(t, string(data), `"name":"build"`)
}

func TestApp_Build_UnknownTarget(t *testing.T) {
	f := newFixture(t, nil, pythonProject)

	err := f.app.Build(context.Background(), app.BuildOptions{Target: "deploy", OutputMode: "linear"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestApp_Build_ConfigNotFound(t *testing.T) {
	f := newFixture(t, nil, pythonProject)
	f.app.WithWorkingDir(t.TempDir())

	err := f.app.Build(context.Background(), linear())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfigNotFound)
}

// artifactServer is an in-memory remote cache.
type artifactServer struct {
	mu      sync.Mutex
	objects map[string][]byte
	headers map[string]string
}

func newArtifactServer(t *testing.T) (*artifactServer, *httptest.Server) {
	t.Helper()
	s := &artifactServer{objects: make(map[string][]byte), headers: make(map[string]string)}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		switch r.Method {
		case http.MethodPut:
			body, err := io.ReadAll(r.Body)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			s.objects[r.URL.Path] = body
			s.headers[r.URL.Path] = r.Header.Get(remote.ChecksumHeader)
			w.WriteHeader(http.StatusCreated)
		case http.MethodGet:
			body, ok := s.objects[r.URL.Path]
			if !ok {
				http.NotFound(w, r)
				return
			}
			w.Header().Set(remote.ChecksumHeader, s.headers[r.URL.Path])
			_, _ = w.Write(body)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(srv.Close)
	return s, srv
}

func (s *artifactServer) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	return keys
}

func TestApp_Build_RemoteCacheRoundTrip(t *testing.T) {
	store, srv := newArtifactServer(t)
	client := remote.NewClient()
	t.Cleanup(func() { _ = client.Close() })

	forgefile := pythonProject + fmt.Sprintf("cache:\n  remote: %s\n  push: true\n", srv.URL)

	// The first machine builds and pushes.
	producer := newFixture(t, client, forgefile)
	producer.writeSource(t, "app/main.py", "print('hi')\n")
	var compiles atomic.Int32
	producer.expectCompile(&compiles).Times(1)

	require.NoError(t, producer.app.Build(context.Background(), linear()))
	require.Len(t, store.keys(), 1)
	assert.True(t, strings.HasPrefix(store.keys()[0], "/cache/"))

	// The second machine has the same sources and restores without running anything.
	consumer := newFixture(t, client, forgefile)
	consumer.writeSource(t, "app/main.py", "print('hi')\n")

	require.NoError(t, consumer.app.Build(context.Background(), linear()))
	assert.Equal(t, int32(1), compiles.Load())

	marker, err := os.ReadFile(filepath.Join(consumer.root, domain.DefaultOutputDir, "app.marker"))
	require.NoError(t, err)
	assert.Equal(t, "compiled\n", string(marker))
	assert.Contains(t, consumer.stderr.String(), "Cached (remote)")

	// The restored hashes count as built: the next build is a local hit.
	consumer.stderr.Reset()
	require.NoError(t, consumer.app.Build(context.Background(), linear()))
	assert.Contains(t, consumer.stderr.String(), "Cached (local)")
}

func TestApp_Build_RemoteRestoresDeletedOutput(t *testing.T) {
	store, srv := newArtifactServer(t)
	client := remote.NewClient()
	t.Cleanup(func() { _ = client.Close() })

	f := newFixture(t, client, pythonProject+fmt.Sprintf("cache:\n  remote: %s\n  push: true\n", srv.URL))
	f.writeSource(t, "app/main.py", "print('hi')\n")
	var compiles atomic.Int32
	f.expectCompile(&compiles).Times(1)

	require.NoError(t, f.app.Build(context.Background(), linear()))

	manager := cache.NewManager(cas.NewStore(), fs.NewHasher(fs.NewWalker()), nil, f.logger)
	c, err := manager.Open(f.root)
	require.NoError(t, err)
	master, err := c.CurrentMasterHash(filepath.Join(f.root, "src"), []string{"py"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/cache/" + master + ".tar.gz"}, store.keys())

	// Same tree, output gone: the remote restores it and nothing runs.
	require.NoError(t, os.RemoveAll(filepath.Join(f.root, domain.DefaultOutputDir)))
	f.stderr.Reset()
	require.NoError(t, f.app.Build(context.Background(), linear()))
	assert.Equal(t, int32(1), compiles.Load())
	assert.Contains(t, f.stderr.String(), "Cached (remote)")

	marker, err := os.ReadFile(filepath.Join(f.root, domain.DefaultOutputDir, "app.marker"))
	require.NoError(t, err)
	assert.Equal(t, "compiled\n", string(marker))
}

func TestApp_Build_TargetBeyondCompileRuns(t *testing.T) {
	f := newFixture(t, nil, pythonProject)
	f.writeSource(t, "app/main.py", "print('hi')\n")

	var compiles, lints atomic.Int32
	f.executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd domain.Command, _, _ io.Writer) error {
			switch cmd.Task {
			case domain.TaskCompile:
				compiles.Add(1)
				out := filepath.Join(f.root, domain.DefaultOutputDir)
				if err := os.MkdirAll(out, domain.DirPerm); err != nil {
					return err
				}
				return os.WriteFile(filepath.Join(out, "app.marker"), []byte("compiled\n"), domain.FilePerm)
			case "lint":
				lints.Add(1)
				return nil
			default:
				return fmt.Errorf("unexpected command %q", cmd.Task)
			}
		}).
		AnyTimes()

	require.NoError(t, f.app.Build(context.Background(), linear()))
	require.Equal(t, int32(1), compiles.Load())

	f.stderr.Reset()
	require.NoError(t, f.app.Build(context.Background(), app.BuildOptions{Target: "lint", OutputMode: "linear"}))
	assert.Equal(t, int32(1), lints.Load(), "lint has no recorded result and must run")
	assert.Equal(t, int32(2), compiles.Load())
	assert.NotContains(t, f.stderr.String(), "Cached (local)")
}

func TestApp_Build_RemoteMissRunsLocally(t *testing.T) {
	_, srv := newArtifactServer(t)
	client := remote.NewClient()
	t.Cleanup(func() { _ = client.Close() })

	f := newFixture(t, client, pythonProject+fmt.Sprintf("cache:\n  remote: %s\n", srv.URL))
	f.writeSource(t, "app/main.py", "print('hi')\n")
	var compiles atomic.Int32
	f.expectCompile(&compiles).Times(1)

	require.NoError(t, f.app.Build(context.Background(), linear()))
	assert.Equal(t, int32(1), compiles.Load())
}

func TestApp_Run_NoTargets(t *testing.T) {
	f := newFixture(t, nil, pythonProject)

	err := f.app.Run(context.Background(), nil, app.RunOptions{OutputMode: "linear"})
	assert.ErrorIs(t, err, domain.ErrNoTargetsSpecified)
}

func TestApp_Run_CustomTaskSkipsCache(t *testing.T) {
	f := newFixture(t, nil, pythonProject)
	f.writeSource(t, "app/main.py", "print('hi')\n")

	var tasks []string
	var mu sync.Mutex
	f.executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd domain.Command, _, _ io.Writer) error {
			mu.Lock()
			defer mu.Unlock()
			tasks = append(tasks, cmd.Task)
			return nil
		}).
		Times(2)

	require.NoError(t, f.app.Run(context.Background(), []string{"lint"}, app.RunOptions{OutputMode: "linear"}))
	assert.Equal(t, []string{"compile", "lint"}, tasks)
	assert.NoFileExists(t, domain.CachePath(f.root), "run does not touch the build cache")
}

func TestApp_Plan(t *testing.T) {
	f := newFixture(t, nil, pythonProject)

	require.NoError(t, f.app.Plan(context.Background(), nil))

	g := goldie.New(t)
	g.Assert(t, "plan", f.stdout.Bytes())
}

func TestApp_Plan_Target(t *testing.T) {
	f := newFixture(t, nil, pythonProject)

	require.NoError(t, f.app.Plan(context.Background(), []string{"lint"}))
	assert.Equal(t, "Level 1\n  compile  Compile sources\nLevel 2\n  lint     Run linters\n", f.stdout.String())
}

func TestApp_Plan_Cycle(t *testing.T) {
	f := newFixture(t, nil, `project:
  name: demo
  lang: python
tasks:
  a:
    command: "true"
    depends_on: [b]
  b:
    command: "true"
    depends_on: [a]
`)

	err := f.app.Plan(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCycleDetected)
	assert.ElementsMatch(t, []string{"a", "b"}, domain.CycleOf(err))
}

func TestApp_Clean(t *testing.T) {
	f := newFixture(t, nil, pythonProject)
	require.NoError(t, os.MkdirAll(filepath.Join(f.root, domain.DefaultOutputDir, "classes"), domain.DirPerm))
	require.NoError(t, os.MkdirAll(domain.TracesPath(f.root), domain.DirPerm))
	require.NoError(t, os.WriteFile(domain.CachePath(f.root), []byte(`{"version":1}`), domain.FilePerm))

	require.NoError(t, f.app.Clean(context.Background()))
	assert.NoDirExists(t, filepath.Join(f.root, domain.DefaultOutputDir))
	assert.NoDirExists(t, domain.ForgePath(f.root))
	assert.FileExists(t, filepath.Join(f.root, domain.ConfigFileName))
}

func TestApp_Watch_RebuildsOnContentChange(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, nil, pythonProject)
		main := f.writeSource(t, "app/main.py", "print('hi')\n")

		var compiles atomic.Int32
		f.expectCompile(&compiles).Times(2)

		events := make(chan ports.WatchEvent)
		var seq iter.Seq[ports.WatchEvent] = func(yield func(ports.WatchEvent) bool) {
			for ev := range events {
				if !yield(ev) {
					return
				}
			}
		}
		f.watcher.EXPECT().Start(gomock.Any(), filepath.Join(f.root, "src")).Return(nil)
		f.watcher.EXPECT().Events().Return(seq)
		f.watcher.EXPECT().Stop().Return(nil)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- f.app.Watch(ctx, app.WatchOptions{Window: 50 * time.Millisecond})
		}()

		synctest.Wait()
		assert.Equal(t, int32(1), compiles.Load(), "initial build")

		// A save that does not change the bytes is ignored.
		events <- ports.WatchEvent{Path: main, Operation: ports.OpWrite}
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, int32(1), compiles.Load())

		// Untracked files are ignored.
		events <- ports.WatchEvent{Path: filepath.Join(f.root, "src", "notes.txt"), Operation: ports.OpCreate}
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, int32(1), compiles.Load())

		f.writeSource(t, "app/main.py", "print('hello')\n")
		events <- ports.WatchEvent{Path: main, Operation: ports.OpWrite}
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, int32(2), compiles.Load())

		cancel()
		require.NoError(t, <-done)
		close(events)
	})
}

func TestApp_Watch_MissingSourceDir(t *testing.T) {
	f := newFixture(t, nil, pythonProject)

	err := f.app.Watch(context.Background(), app.WatchOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSourceDirMissing))
}
