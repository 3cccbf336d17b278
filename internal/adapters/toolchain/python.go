package toolchain

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// Python byte-compiles, runs and tests projects with the python3 interpreter and
// packages them as zipapps.
type Python struct {
	exec ports.Executor
}

// Name implements ports.Language.
func (l *Python) Name() string { return domain.LangPython }

// Extensions implements ports.Language.
func (l *Python) Extensions() []string { return []string{"py"} }

// DefaultSourceDir implements ports.Language.
func (l *Python) DefaultSourceDir() string { return "src" }

// environment puts the sources and resolved packages on PYTHONPATH and keeps
// bytecode out of the source tree.
func environment(p *domain.Project, paths []string) []string {
	return []string{
		"PYTHONPATH=" + joinPath(slices.Concat([]string{p.SourcePath()}, paths)...),
		"PYTHONPYCACHEPREFIX=" + filepath.Join(p.OutputPath(), "pycache"),
	}
}

// Compile byte-compiles the sources, which surfaces syntax errors early.
func (l *Python) Compile(ctx context.Context, p *domain.Project, paths []string, stdout, stderr io.Writer) error {
	files, err := findSources(p.SourcePath(), l.Extensions()...)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		_, _ = fmt.Fprintf(stdout, "No Python sources found in %s\n", p.Settings.SourceDir)
		return nil
	}

	_, _ = fmt.Fprintf(stdout, "Compiling %d Python source file(s)\n", len(files))
	args := []string{p.PythonInterpreter(), "-m", "compileall", "-q", p.SourcePath()}
	return run(ctx, l.exec, p, domain.OpCompile, args, environment(p, paths), stdout, stderr)
}

// Run executes the configured main script.
func (l *Python) Run(ctx context.Context, p *domain.Project, paths []string, stdout, stderr io.Writer) error {
	if p.Settings.MainEntry == "" {
		return zerr.With(zerr.Wrap(domain.ErrMainEntryMissing, "set main_script"), "lang", p.Lang)
	}
	script := filepath.Join(p.SourcePath(), filepath.FromSlash(p.Settings.MainEntry))
	args := []string{p.PythonInterpreter(), script}
	return run(ctx, l.exec, p, domain.OpRun, args, environment(p, paths), stdout, stderr)
}

// Test discovers unittest cases under tests/.
func (l *Python) Test(ctx context.Context, p *domain.Project, paths []string, stdout, stderr io.Writer) error {
	testDir := testSourceDir(p)
	if !exists(testDir) {
		_, _ = fmt.Fprintf(stdout, "No test directory at %s, skipping\n", testDir)
		return nil
	}
	args := []string{p.PythonInterpreter(), "-m", "unittest", "discover", "-s", testDir, "-t", p.Root, "-v"}
	return run(ctx, l.exec, p, domain.OpTest, args, environment(p, paths), stdout, stderr)
}

// Package bundles the sources into <output>/<name>.pyz.
func (l *Python) Package(ctx context.Context, p *domain.Project, stdout, stderr io.Writer) error {
	out := p.OutputPath()
	if err := os.MkdirAll(out, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create output directory"), "path", out)
	}

	archive := filepath.Join(out, p.Name+".pyz")
	args := []string{p.PythonInterpreter(), "-m", "zipapp", p.SourcePath(), "-o", archive, "-p", "/usr/bin/env " + p.PythonInterpreter()}
	if m := entryModule(p.Settings.MainEntry); m != "" {
		args = append(args, "-m", m+":main")
	}

	if err := run(ctx, l.exec, p, domain.OpPackage, args, nil, stdout, stderr); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stdout, "Created %s\n", archive)
	return nil
}

// entryModule turns app/main.py into app.main.
func entryModule(script string) string {
	script = strings.TrimSuffix(filepath.ToSlash(script), ".py")
	return strings.ReplaceAll(script, "/", ".")
}
