// Package linear provides a synchronous, line-buffered renderer for CI environments.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/ui/output"
	"go.trai.ch/forge/internal/ui/style"
)

// Renderer implements ports.Renderer for CI and other non-interactive environments.
// Task output goes to stdout prefixed with the task name; status lines go to stderr.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output

	mu      sync.Mutex
	buffers map[string]*bytes.Buffer
}

// NewRenderer creates a new Renderer. Nil writers default to the process streams.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Renderer{
		stdout:  stdout,
		stderr:  stderr,
		output:  output.NewWithProfile(stderr, output.ColorProfileANSI),
		buffers: make(map[string]*bytes.Buffer),
	}
}

// Start is a no-op: the renderer writes synchronously.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop flushes partial lines of tasks that never finished.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name := range r.buffers {
		r.flushBufferLocked(name)
	}
	return nil
}

// Wait is a no-op.
func (r *Renderer) Wait() error {
	return nil
}

// OnPlan prints the number of tasks and levels about to run.
func (r *Renderer) OnPlan(levels [][]string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, level := range levels {
		count += len(level)
	}
	_, _ = fmt.Fprintf(r.stderr, "Planning to run %d task(s) in %d level(s)\n", count, len(levels))
}

// OnTaskStart prints a start line.
func (r *Renderer) OnTaskStart(name string, _ time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buffers[name] = new(bytes.Buffer)
	_, _ = fmt.Fprintf(r.stderr, "%s Starting...\n", r.prefix(name))
}

// OnTaskOutput prints complete lines with the task prefix and holds back a trailing
// partial line until more output or the finish event arrives.
func (r *Renderer) OnTaskOutput(name string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	buf, ok := r.buffers[name]
	if !ok {
		return
	}
	buf.Write(data)

	for {
		i := bytes.IndexByte(buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := buf.Next(i + 1)
		r.printLineLocked(name, line)
	}
}

// OnTaskFinish flushes remaining output and prints the outcome.
func (r *Renderer) OnTaskFinish(ev domain.TaskFinished) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.flushBufferLocked(ev.Name)
	delete(r.buffers, ev.Name)

	prefix := r.prefix(ev.Name)
	duration := ev.Duration.Round(time.Millisecond)

	switch {
	case ev.Cached:
		symbol := r.output.String(style.IconCached).Foreground(termenv.ANSIYellow).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Cached (%s)\n", prefix, symbol, ev.CacheSource)
	case !ev.Success:
		symbol := r.output.String(style.IconFail).Foreground(termenv.ANSIRed).String()
		if ev.Err != nil {
			_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %v: %v\n", prefix, symbol, duration, ev.Err)
		} else {
			_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %v\n", prefix, symbol, duration)
		}
	default:
		symbol := r.output.String(style.IconPass).Foreground(termenv.ANSIGreen).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Completed in %v\n", prefix, symbol, duration)
	}
}

// OnLog prints a build-level message.
func (r *Renderer) OnLog(level slog.Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case level >= slog.LevelError:
		msg = r.output.String(style.IconFail).Foreground(termenv.ANSIRed).String() + " " + msg
	case level >= slog.LevelWarn:
		msg = r.output.String(style.IconAlert).Foreground(termenv.ANSIYellow).String() + " " + msg
	}
	_, _ = fmt.Fprintln(r.stderr, msg)
}

func (r *Renderer) prefix(name string) string {
	return r.output.String("[" + name + "]").Faint().String()
}

// flushBufferLocked prints a pending partial line. Must be called with r.mu held.
func (r *Renderer) flushBufferLocked(name string) {
	buf, ok := r.buffers[name]
	if !ok || buf.Len() == 0 {
		return
	}
	r.printLineLocked(name, buf.Bytes())
	buf.Reset()
}

// printLineLocked prints one line with the task prefix. Must be called with r.mu held.
func (r *Renderer) printLineLocked(name string, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) == 0 {
		return
	}
	_, _ = fmt.Fprintf(r.stdout, "[%s] %s\n", name, line)
}
