package tui_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/adapters/tui"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/zerr"
)

func newHeadlessRenderer(model *tui.Model) *tui.Renderer {
	return tui.NewRenderer(
		model,
		tea.WithInput(strings.NewReader("")),
		tea.WithOutput(io.Discard),
		tea.WithoutSignalHandler(),
		tea.WithoutRenderer(),
	)
}

func TestRenderer_Lifecycle(t *testing.T) {
	renderer := newHeadlessRenderer(tui.NewModel(io.Discard))

	require.NoError(t, renderer.Start(context.Background()))
	require.NoError(t, renderer.Stop())
	require.NoError(t, renderer.Wait())
}

func TestRenderer_ForwardsEvents(t *testing.T) {
	model := tui.NewModel(io.Discard)
	renderer := newHeadlessRenderer(model)
	require.NoError(t, renderer.Start(context.Background()))

	renderer.OnPlan([][]string{{"compile"}, {"test"}})
	renderer.OnTaskStart("compile", time.Now())
	renderer.OnTaskOutput("compile", []byte("Compiling "))
	renderer.OnTaskOutput("compile", []byte("2 source files\n"))
	renderer.OnTaskFinish(domain.TaskFinished{Name: "compile", Success: true, Duration: time.Second})
	renderer.OnTaskStart("test", time.Now())
	renderer.OnTaskFinish(domain.TaskFinished{Name: "test", Err: zerr.New("exit status 1")})
	renderer.OnLog(slog.LevelWarn, "stopping after failed level")

	require.NoError(t, renderer.Stop())
	require.NoError(t, renderer.Wait())

	require.Len(t, model.Tasks, 2)
	compile := model.TaskMap["compile"]
	assert.Equal(t, tui.StatusDone, compile.Status)
	assert.Positive(t, compile.Term.UsedHeight())
	assert.Equal(t, tui.StatusError, model.TaskMap["test"].Status)
	require.Len(t, model.Logs, 1)
}

func TestRenderer_StopFlushesRunningTasks(t *testing.T) {
	model := tui.NewModel(io.Discard)
	renderer := newHeadlessRenderer(model)
	require.NoError(t, renderer.Start(context.Background()))

	renderer.OnPlan([][]string{{"compile"}})
	renderer.OnTaskStart("compile", time.Now())
	renderer.OnTaskOutput("compile", []byte("still running\n"))

	require.NoError(t, renderer.Stop())
	require.NoError(t, renderer.Wait())

	compile := model.TaskMap["compile"]
	assert.Equal(t, tui.StatusRunning, compile.Status)
	assert.Positive(t, compile.Term.UsedHeight())
}

func TestRenderer_Program(t *testing.T) {
	renderer := newHeadlessRenderer(tui.NewModel(io.Discard))
	assert.NotNil(t, renderer.Program())
}
