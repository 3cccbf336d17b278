// Package app implements the application layer for forge.
package app

import (
	"io"
	"os"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/forge/internal/adapters/deps"
	"go.trai.ch/forge/internal/adapters/detector"
	"go.trai.ch/forge/internal/adapters/toolchain"
	"go.trai.ch/forge/internal/adapters/watcher"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/engine/cache"
	"go.trai.ch/forge/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	loader     ports.ConfigLoader
	logger     ports.Logger
	caches     *cache.Manager
	schedulers *scheduler.Factory
	newWatcher watcher.Factory

	stdout     io.Writer
	stderr     io.Writer
	getwd      func() (string, error)
	detect     func() detector.OutputMode
	teaOptions []tea.ProgramOption
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	caches *cache.Manager,
	schedulers *scheduler.Factory,
	newWatcher watcher.Factory,
) *App {
	return &App{
		loader:     loader,
		logger:     log,
		caches:     caches,
		schedulers: schedulers,
		newWatcher: newWatcher,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		getwd:      os.Getwd,
		detect:     detector.DetectEnvironment,
	}
}

// WithTeaOptions adds bubbletea program options to the App.
// This is primarily used for testing to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// WithOutput redirects the streams used by renderers and reports.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// WithWorkingDir makes project discovery start at dir instead of the process working directory.
func (a *App) WithWorkingDir(dir string) *App {
	a.getwd = func() (string, error) { return dir, nil }
	return a
}

// UseJSONLogs switches the logger to JSON lines when it supports it.
func (a *App) UseJSONLogs(enable bool) {
	if l, ok := a.logger.(interface{ SetJSON(bool) }); ok {
		l.SetJSON(enable)
	}
}

// workspace is a loaded project together with the capabilities selected for it.
type workspace struct {
	project  *domain.Project
	language ports.Language
	graph    *domain.Graph
	runner   *toolchain.Runner
	resolver ports.DependencyResolver
}

func (a *App) loadProject() (*domain.Project, error) {
	cwd, err := a.getwd()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to get working directory")
	}
	p, err := a.loader.Load(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	return p, nil
}

// open loads the project, selects its language and builds the full task graph.
func (a *App) open() (*workspace, error) {
	p, err := a.loadProject()
	if err != nil {
		return nil, err
	}

	executor := a.schedulers.Executor()
	language, err := toolchain.ForLanguage(p.Lang, executor)
	if err != nil {
		return nil, err
	}
	graph, err := p.Graph()
	if err != nil {
		return nil, err
	}

	resolver := deps.ForProject(p, executor, a.logger)
	return &workspace{
		project:  p,
		language: language,
		graph:    graph,
		runner:   toolchain.NewRunner(p, language, resolver),
		resolver: resolver,
	}, nil
}

// close releases the resolver's transport, if it holds one.
func (w *workspace) close() {
	if c, ok := w.resolver.(io.Closer); ok {
		_ = c.Close()
	}
}

// plan returns the subgraph needed for targets and its execution levels.
// Validation errors surface here, before anything runs.
func (w *workspace) plan(targets ...string) (*domain.Graph, [][]string, error) {
	sub, err := w.graph.Subgraph(domain.InternAll(targets)...)
	if err != nil {
		return nil, nil, err
	}
	levels, err := sub.ParallelLevels()
	if err != nil {
		return nil, nil, err
	}

	names := make([][]string, len(levels))
	for i, level := range levels {
		names[i] = make([]string, len(level))
		for j, name := range level {
			names[i][j] = name.String()
		}
	}
	return sub, names, nil
}

func (w *workspace) sourceDir() string {
	return w.project.SourcePath()
}

func (w *workspace) extensions() []string {
	return slices.Clone(w.language.Extensions())
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
