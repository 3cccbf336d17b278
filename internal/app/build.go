package app

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/engine/cache"
)

// BuildOptions configuration for the Build method.
type BuildOptions struct {
	// Target is the task to build, build by default.
	Target     string
	NoCache    bool
	OutputMode string
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	OutputMode string
}

// Build brings the target up to date. When the target needs nothing beyond compilation,
// nothing runs if the sources are unchanged since the last successful build and the
// output directory exists, or if the remote cache holds outputs for the current sources. Otherwise the target's graph is executed and,
// on success, the new source hashes are recorded and the outputs pushed.
func (a *App) Build(ctx context.Context, opts BuildOptions) error {
	ws, err := a.open()
	if err != nil {
		return err
	}
	defer ws.close()

	graph, levels, err := ws.plan(cmp.Or(opts.Target, domain.TaskBuild))
	if err != nil {
		return err
	}

	c, err := a.caches.Open(ws.project.Root)
	if err != nil {
		return err
	}

	var result *domain.BuildResult
	err = a.render(ctx, ws.project, opts.OutputMode, func(ctx context.Context, sink ports.EventSink) error {
		if !opts.NoCache && gated(levels) {
			hit, err := a.restore(ctx, ws, c, levels, sink)
			if err != nil || hit {
				return err
			}
		}

		var err error
		result, err = a.schedulers.New(ws.runner, sink, ws.project.Root).Execute(ctx, graph, c)
		if err != nil {
			return err
		}
		return a.record(ctx, ws, c, sink)
	})
	a.report(result)
	return err
}

// Run executes targets and their dependencies without consulting or updating the cache.
func (a *App) Run(ctx context.Context, targets []string, opts RunOptions) error {
	if len(targets) == 0 {
		return domain.ErrNoTargetsSpecified
	}

	ws, err := a.open()
	if err != nil {
		return err
	}
	defer ws.close()

	graph, _, err := ws.plan(targets...)
	if err != nil {
		return err
	}

	var result *domain.BuildResult
	err = a.render(ctx, ws.project, opts.OutputMode, func(ctx context.Context, sink ports.EventSink) error {
		var err error
		result, err = a.schedulers.New(ws.runner, sink, ws.project.Root).Execute(ctx, graph, nil)
		return err
	})
	a.report(result)
	return err
}

// gated reports whether the source hashes vouch for every task in levels. They only
// record what compile consumed, so any other task has to run to know its result.
func gated(levels [][]string) bool {
	for _, level := range levels {
		for _, name := range level {
			switch name {
			case domain.TaskResolveDeps, domain.TaskCompile, domain.TaskBuild:
			default:
				return false
			}
		}
	}
	return true
}

// restore reports every task as cached when the build can be skipped.
func (a *App) restore(
	ctx context.Context,
	ws *workspace,
	c *cache.Cache,
	levels [][]string,
	sink ports.EventSink,
) (bool, error) {
	changed, err := c.HasChanges(ws.sourceDir(), ws.extensions())
	if err != nil {
		return false, err
	}
	if !changed && exists(ws.project.OutputPath()) {
		sink.OnLog(slog.LevelInfo, "No changes detected, using local cache")
		reportCached(sink, levels, domain.CacheLocal)
		return true, nil
	}

	if !ws.project.Remote.Enabled() {
		return false, nil
	}
	master, err := c.CurrentMasterHash(ws.sourceDir(), ws.extensions())
	if err != nil {
		return false, err
	}
	if !c.Download(ctx, ws.project.Remote, master, ws.project.OutputPath()) {
		return false, nil
	}
	if err := c.UpdateHashes(ws.sourceDir(), ws.extensions()); err != nil {
		return false, err
	}
	if err := c.Save(); err != nil {
		return false, err
	}
	sink.OnLog(slog.LevelInfo, "Restored outputs from remote cache "+shortHash(master))
	reportCached(sink, levels, domain.CacheRemote)
	return true, nil
}

// record stores the hashes of the sources that were just built and pushes the outputs.
func (a *App) record(ctx context.Context, ws *workspace, c *cache.Cache, sink ports.EventSink) error {
	if err := c.UpdateHashes(ws.sourceDir(), ws.extensions()); err != nil {
		return err
	}
	if err := c.Save(); err != nil {
		return err
	}
	if !exists(ws.project.OutputPath()) {
		return nil
	}
	if c.Upload(ctx, ws.project.Remote, ws.project.OutputPath()) {
		sink.OnLog(slog.LevelInfo, "Uploaded outputs to remote cache "+shortHash(c.MasterHash()))
	}
	return nil
}

// report prints the failure report once the renderer released the terminal.
func (a *App) report(result *domain.BuildResult) {
	if result == nil {
		return
	}
	if text := result.FailureReport(); text != "" {
		_, _ = fmt.Fprint(a.stderr, "\n"+text)
	}
}

func reportCached(sink ports.EventSink, levels [][]string, source domain.CacheSource) {
	sink.OnPlan(levels)
	for _, level := range levels {
		for _, name := range level {
			sink.OnTaskFinish(domain.TaskFinished{
				Name:        name,
				Success:     true,
				Cached:      true,
				CacheSource: source,
			})
		}
	}
}

func shortHash(h string) string {
	return h[:min(len(h), 12)]
}

// FormatPlan renders levels as a numbered list of tasks with their descriptions.
func FormatPlan(graph *domain.Graph, levels [][]string) string {
	width := 0
	for _, level := range levels {
		for _, name := range level {
			width = max(width, len(name))
		}
	}

	var b strings.Builder
	for i, level := range levels {
		fmt.Fprintf(&b, "Level %d\n", i+1)
		for _, name := range level {
			task, _ := graph.Task(domain.NewInternedString(name))
			line := fmt.Sprintf("  %-*s  %s", width, name, task.Description)
			b.WriteString(strings.TrimRight(line, " ") + "\n")
		}
	}
	return b.String()
}

// Plan prints the execution levels of targets, or of every task when none are given.
func (a *App) Plan(_ context.Context, targets []string) error {
	ws, err := a.open()
	if err != nil {
		return err
	}
	defer ws.close()

	graph, levels, err := ws.plan(targets...)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(a.stdout, FormatPlan(graph, levels))
	return err
}
