package linear_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/adapters/linear"
	"go.trai.ch/forge/internal/core/domain"
)

func newTestRenderer(t *testing.T) (*linear.Renderer, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	var stdout, stderr bytes.Buffer
	return linear.NewRenderer(&stdout, &stderr), &stdout, &stderr
}

func TestRenderer_BuildTranscript(t *testing.T) {
	r, stdout, stderr := newTestRenderer(t)
	require.NoError(t, r.Start(context.Background()))

	at := time.Unix(1700000000, 0)
	r.OnPlan([][]string{{"clean"}, {"compile"}, {"lint", "test"}})
	r.OnTaskStart("clean", at)
	r.OnTaskFinish(domain.TaskFinished{Name: "clean", Success: true, Duration: 3 * time.Millisecond})
	r.OnTaskStart("compile", at)
	r.OnTaskOutput("compile", []byte("Compiling 2 source files\n"))
	r.OnTaskFinish(domain.TaskFinished{Name: "compile", Success: true, Duration: 1250 * time.Millisecond})
	r.OnTaskStart("lint", at)
	r.OnTaskStart("test", at)
	r.OnTaskOutput("test", []byte("Tests run: 3, "))
	r.OnTaskOutput("lint", []byte("style violation\n"))
	r.OnTaskOutput("test", []byte("Failures: 0\n"))
	r.OnTaskFinish(domain.TaskFinished{
		Name: "lint", Duration: 40 * time.Millisecond, Err: errors.New("exit status 1: task failed"),
	})
	r.OnTaskFinish(domain.TaskFinished{Name: "test", Success: true, Duration: 2 * time.Second})
	r.OnLog(slog.LevelWarn, "stopping after failed level")

	require.NoError(t, r.Stop())
	require.NoError(t, r.Wait())

	g := goldie.New(t)
	g.Assert(t, "build_stdout", stdout.Bytes())
	g.Assert(t, "build_stderr", stderr.Bytes())
}

func TestRenderer_PartialLines(t *testing.T) {
	r, stdout, _ := newTestRenderer(t)

	r.OnTaskStart("run", time.Now())
	r.OnTaskOutput("run", []byte("partial"))
	assert.Empty(t, stdout.String(), "partial line should be held back")

	r.OnTaskOutput("run", []byte(" line\r\nnext"))
	assert.Equal(t, "[run] partial line\n", stdout.String())

	r.OnTaskFinish(domain.TaskFinished{Name: "run", Success: true})
	assert.Equal(t, "[run] partial line\n[run] next\n", stdout.String())
}

func TestRenderer_StopFlushesUnfinished(t *testing.T) {
	r, stdout, _ := newTestRenderer(t)

	r.OnTaskStart("run", time.Now())
	r.OnTaskOutput("run", []byte("no newline"))
	require.NoError(t, r.Stop())

	assert.Equal(t, "[run] no newline\n", stdout.String())
}

func TestRenderer_CachedTask(t *testing.T) {
	r, _, stderr := newTestRenderer(t)

	r.OnTaskFinish(domain.TaskFinished{Name: "build", Success: true, Cached: true, CacheSource: domain.CacheRemote})
	assert.Equal(t, "[build] ~ Cached (remote)\n", stderr.String())
}

func TestRenderer_OutputForUnknownTaskIgnored(t *testing.T) {
	r, stdout, _ := newTestRenderer(t)

	r.OnTaskOutput("ghost", []byte("boo\n"))
	assert.Empty(t, stdout.String())
}
