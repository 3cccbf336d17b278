// Package tui provides the interactive terminal renderer for builds.
package tui

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/forge/internal/adapters/telemetry"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/ui/output"
)

// NewModel creates a model in follow mode, using the color profile of w.
func NewModel(w io.Writer) *Model {
	if w == nil {
		w = os.Stderr
	}
	lipgloss.SetColorProfile(output.NewWithProfile(w, output.ColorProfile).Profile)

	return &Model{
		Tasks:      make([]*TaskNode, 0),
		TaskMap:    make(map[string]*TaskNode),
		FollowMode: true,
	}
}

// Renderer wraps the Bubble Tea program as a ports.Renderer.
type Renderer struct {
	program *tea.Program
	model   *Model
	errCh   chan error

	mu       sync.Mutex
	batchers map[string]*telemetry.BatchProcessor
}

// NewRenderer creates a new TUI renderer for model.
func NewRenderer(model *Model, opts ...tea.ProgramOption) *Renderer {
	return &Renderer{
		program:  tea.NewProgram(model, opts...),
		model:    model,
		errCh:    make(chan error, 1),
		batchers: make(map[string]*telemetry.BatchProcessor),
	}
}

// Start launches the TUI in a background goroutine.
func (r *Renderer) Start(_ context.Context) error {
	go func() {
		_, err := r.program.Run()
		r.errCh <- err
	}()
	return nil
}

// Stop flushes pending output and signals the TUI to quit.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	for name, bp := range r.batchers {
		_ = bp.Close()
		delete(r.batchers, name)
	}
	r.mu.Unlock()

	r.program.Quit()
	return nil
}

// Wait blocks until the TUI has terminated.
func (r *Renderer) Wait() error {
	return <-r.errCh
}

// OnPlan forwards the execution levels to the TUI.
func (r *Renderer) OnPlan(levels [][]string) {
	r.program.Send(msgPlan{Levels: levels})
}

// OnTaskStart forwards task start events to the TUI.
func (r *Renderer) OnTaskStart(name string, at time.Time) {
	r.mu.Lock()
	r.batchers[name] = telemetry.NewBatchProcessor(0, 0, func(data []byte) {
		r.program.Send(msgTaskOutput{Name: name, Data: data})
	})
	r.mu.Unlock()

	r.program.Send(msgTaskStart{Name: name, At: at})
}

// OnTaskOutput coalesces output before it reaches the TUI.
func (r *Renderer) OnTaskOutput(name string, data []byte) {
	r.mu.Lock()
	bp, ok := r.batchers[name]
	r.mu.Unlock()

	if ok {
		_, _ = bp.Write(data)
		return
	}
	r.program.Send(msgTaskOutput{Name: name, Data: bytes.Clone(data)})
}

// OnTaskFinish flushes the task's output and forwards its result.
func (r *Renderer) OnTaskFinish(ev domain.TaskFinished) {
	r.mu.Lock()
	bp, ok := r.batchers[ev.Name]
	delete(r.batchers, ev.Name)
	r.mu.Unlock()

	if ok {
		_ = bp.Close()
	}
	r.program.Send(msgTaskFinish{Event: ev})
}

// OnLog forwards build-level messages to the footer.
func (r *Renderer) OnLog(level slog.Level, msg string) {
	r.program.Send(msgLog{Level: level, Text: msg})
}

// Program returns the underlying tea.Program for testing.
func (r *Renderer) Program() *tea.Program {
	return r.program
}
