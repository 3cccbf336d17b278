package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.trai.ch/forge/internal/adapters/detector"
	"go.trai.ch/forge/internal/adapters/linear"
	"go.trai.ch/forge/internal/adapters/telemetry"
	"go.trai.ch/forge/internal/adapters/tui"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

// work is the part of a command that emits build events.
type work func(ctx context.Context, sink ports.EventSink) error

// render runs fn with an event sink feeding the renderer selected by outputMode and
// the build trace of the project. The renderer and fn run concurrently; render
// returns once both finished.
func (a *App) render(ctx context.Context, p *domain.Project, outputMode string, fn work) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	renderer, interactive := a.newRenderer(ctx, outputMode, cancel)
	if interactive {
		defer a.holdLogs()()
	}

	sink := ports.EventSink(renderer)
	trace := a.startTrace(ctx, p)
	if trace != nil {
		sink = telemetry.NewFanout(renderer, trace.spans)
	}

	var workErr error
	g, gctx := errgroup.WithContext(ctx)

	// Renderer Routine
	g.Go(func() error {
		if err := renderer.Start(gctx); err != nil {
			return err
		}
		return renderer.Wait()
	})

	// Work Routine
	g.Go(func() error {
		defer func() {
			_ = renderer.Stop()
		}()
		workErr = fn(gctx, sink)
		return nil
	})

	renderErr := g.Wait()
	if trace != nil {
		trace.finish(context.WithoutCancel(ctx), workErr == nil, a.logger)
	}
	return errors.Join(workErr, renderErr)
}

// newRenderer returns the TUI or the linear renderer. ctrl+c in the TUI cancels the build.
func (a *App) newRenderer(ctx context.Context, outputMode string, cancel context.CancelFunc) (ports.Renderer, bool) {
	if detector.ResolveMode(a.detect(), outputMode) != detector.ModeTUI {
		return linear.NewRenderer(a.stdout, a.stderr), false
	}

	model := tui.NewModel(a.stderr)
	model.OnInterrupt = cancel
	opts := append([]tea.ProgramOption{tea.WithContext(ctx)}, a.teaOptions...)
	return tui.NewRenderer(model, opts...), true
}

// holdLogs buffers logger output while the TUI owns the terminal and replays it
// afterwards. The returned function restores the logger.
func (a *App) holdLogs() func() {
	l, ok := a.logger.(interface{ SetOutput(io.Writer) })
	if !ok {
		return func() {}
	}
	buf := &lockedBuffer{}
	l.SetOutput(buf)
	return func() {
		l.SetOutput(a.stderr)
		_, _ = a.stderr.Write(buf.Bytes())
	}
}

// buildTrace records one build into .forge/traces/<build-id>.jsonl.
type buildTrace struct {
	exporter *telemetry.FileExporter
	spans    *telemetry.SpanSink
	shutdown func(context.Context) error
}

// startTrace returns nil when the trace file cannot be created; tracing never fails a build.
func (a *App) startTrace(ctx context.Context, p *domain.Project) *buildTrace {
	buildID := uuid.NewString()
	exporter, err := telemetry.NewFileExporter(p.Root, buildID)
	if err != nil {
		a.logger.Warn(fmt.Sprintf("build trace disabled: %v", err))
		return nil
	}
	tp := telemetry.NewTracerProvider(exporter, buildID)
	return &buildTrace{
		exporter: exporter,
		spans:    telemetry.NewSpanSink(ctx, tp),
		shutdown: tp.Shutdown,
	}
}

func (t *buildTrace) finish(ctx context.Context, success bool, log ports.Logger) {
	t.spans.End(success)
	if err := t.shutdown(ctx); err != nil {
		log.Warn(fmt.Sprintf("failed to write build trace %s: %v", t.exporter.Path(), err))
	}
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Clone(b.buf.Bytes())
}
