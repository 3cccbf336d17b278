// Package scheduler runs a validated task graph level by level.
package scheduler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.trai.ch/forge/internal/adapters/telemetry"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Scheduler executes task graphs. Tasks of one level run concurrently; a level only
// starts when every task of the previous level succeeded.
type Scheduler struct {
	executor ports.Executor
	runner   ports.ActionRunner
	sink     ports.EventSink
	// dir is the working directory of command tasks.
	dir string
	now func() time.Time
}

// NewScheduler creates a new Scheduler. A nil sink discards events; a nil runner
// fails every internal task.
func NewScheduler(executor ports.Executor, runner ports.ActionRunner, sink ports.EventSink, dir string) *Scheduler {
	if sink == nil {
		sink = telemetry.NoOpSink{}
	}
	return &Scheduler{
		executor: executor,
		runner:   runner,
		sink:     sink,
		dir:      dir,
		now:      time.Now,
	}
}

// outcome is what one execution unit hands back to the coordinator.
type outcome struct {
	result domain.TaskResult
	crash  *domain.TaskCrash
}

// Execute runs graph and returns the result of every task that ran.
//
// An invalid graph is rejected before anything runs. saver is called once all levels
// finished or stopped, whatever the outcome; its error is joined into the returned one.
// A failed build is reported as domain.ErrBuildExecutionFailed alongside the result.
func (s *Scheduler) Execute(ctx context.Context, graph *domain.Graph, saver ports.CacheSaver) (*domain.BuildResult, error) {
	levels, err := graph.ParallelLevels()
	if err != nil {
		return nil, err
	}

	start := s.now()
	s.sink.OnPlan(levelNames(levels))

	result := &domain.BuildResult{Success: true}
	for i, level := range levels {
		if !result.Success {
			break
		}

		outcomes := make([]outcome, len(level))
		var g errgroup.Group
		for j, name := range level {
			task, _ := graph.Task(name)
			g.Go(func() error {
				outcomes[j] = s.runUnit(ctx, task)
				return nil
			})
		}
		_ = g.Wait()

		for _, o := range outcomes {
			if o.crash != nil {
				result.Crashes = append(result.Crashes, *o.crash)
				result.Success = false
				continue
			}
			result.Results = append(result.Results, o.result)
			if !o.result.Success {
				result.Success = false
			}
		}
		if !result.Success && i < len(levels)-1 {
			s.sink.OnLog(slog.LevelWarn, fmt.Sprintf("stopping after level %d, %d level(s) not started", i+1, len(levels)-i-1))
		}
	}
	result.Duration = s.now().Sub(start)

	var errs error
	if !result.Success {
		failed := len(result.Failed()) + len(result.Crashes)
		err := zerr.Wrap(domain.ErrBuildExecutionFailed, fmt.Sprintf("%d task(s) failed", failed))
		errs = zerr.With(err, "failed", failed)
	}
	if saver != nil {
		if err := saver.Save(); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return result, errs
}

// runUnit runs one task, converting a panic into a crash record.
func (s *Scheduler) runUnit(ctx context.Context, task domain.Task) (o outcome) {
	name := task.Name.String()
	started := s.now()

	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprint(r)
			o = outcome{crash: &domain.TaskCrash{Name: name, Panic: msg}}
			s.sink.OnTaskFinish(domain.TaskFinished{
				Name:     name,
				Duration: s.now().Sub(started),
				Err:      zerr.With(zerr.Wrap(domain.ErrTaskCrashed, msg), "task", name),
			})
		}
	}()

	s.sink.OnTaskStart(name, started)

	var stdout, stderr bytes.Buffer
	stream := sinkWriter{sink: s.sink, name: name}
	err := s.dispatch(ctx, task, io.MultiWriter(&stdout, stream), io.MultiWriter(&stderr, stream))
	elapsed := s.now().Sub(started)

	s.sink.OnTaskFinish(domain.TaskFinished{
		Name:     name,
		Duration: elapsed,
		Success:  err == nil,
		Err:      err,
	})
	return outcome{result: domain.TaskResult{
		Name:     name,
		Success:  err == nil,
		Duration: elapsed,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Err:      err,
	}}
}

func (s *Scheduler) dispatch(ctx context.Context, task domain.Task, stdout, stderr io.Writer) error {
	switch task.Action.Kind {
	case domain.ActionCommand:
		cmd := domain.ShellCommand(task.Name.String(), task.Action.Command, s.dir, task.Timeout)
		return s.executor.Execute(ctx, cmd, stdout, stderr)
	case domain.ActionInternal:
		if s.runner == nil {
			op := task.Action.Internal.String()
			return zerr.With(zerr.Wrap(domain.ErrUnsupportedInternalOp, op), "task", task.Name.String())
		}
		return s.runner.RunInternal(ctx, task.Action.Internal, stdout, stderr)
	default:
		return nil
	}
}

func levelNames(levels [][]domain.InternedString) [][]string {
	out := make([][]string, len(levels))
	for i, level := range levels {
		out[i] = make([]string, len(level))
		for j, name := range level {
			out[i][j] = name.String()
		}
	}
	return out
}

// sinkWriter streams task output to the event sink.
type sinkWriter struct {
	sink ports.EventSink
	name string
}

func (w sinkWriter) Write(p []byte) (int, error) {
	w.sink.OnTaskOutput(w.name, p)
	return len(p), nil
}
