package toolchain

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// Runner implements ports.ActionRunner for one project, dispatching built-in
// operations to its language.
type Runner struct {
	project  *domain.Project
	language ports.Language
	resolver ports.DependencyResolver

	mu        sync.Mutex
	classpath []string
}

// NewRunner creates a Runner. resolver may be nil when the project declares no dependencies.
func NewRunner(p *domain.Project, language ports.Language, resolver ports.DependencyResolver) *Runner {
	return &Runner{
		project:  p,
		language: language,
		resolver: resolver,
	}
}

// RunInternal implements ports.ActionRunner.
func (r *Runner) RunInternal(ctx context.Context, op domain.InternalOp, stdout, stderr io.Writer) error {
	switch op {
	case domain.OpClean:
		return r.clean(stdout)
	case domain.OpResolveDeps:
		return r.resolveDeps(ctx, stdout)
	case domain.OpCompile:
		return r.language.Compile(ctx, r.project, r.Classpath(), stdout, stderr)
	case domain.OpRun:
		return r.language.Run(ctx, r.project, r.Classpath(), stdout, stderr)
	case domain.OpTest:
		return r.language.Test(ctx, r.project, r.Classpath(), stdout, stderr)
	case domain.OpPackage:
		return r.language.Package(ctx, r.project, stdout, stderr)
	default:
		return zerr.With(zerr.Wrap(domain.ErrUnsupportedInternalOp, op.String()), "op", op.String())
	}
}

// Classpath returns the artifacts resolved by this runner. When resolve-deps did not run
// in this build, the artifacts left in the dependency directory by an earlier build are used.
func (r *Runner) Classpath() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.classpath != nil {
		return r.classpath
	}
	if r.project.Lang == domain.LangPython {
		if deps := domain.DepsPath(r.project.Root); exists(deps) {
			return []string{deps}
		}
		return nil
	}
	return DependencyJars(r.project.Root)
}

func (r *Runner) resolveDeps(ctx context.Context, stdout io.Writer) error {
	if len(r.project.Dependencies) == 0 {
		_, _ = fmt.Fprintln(stdout, "No dependencies declared")
		return nil
	}
	if r.resolver == nil {
		return zerr.With(zerr.Wrap(domain.ErrDependencyResolutionFailed, "no resolver"), "lang", r.project.Lang)
	}

	dir := domain.DepsPath(r.project.Root)
	paths, err := r.resolver.Resolve(ctx, r.project.Dependencies, dir)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stdout, "Resolved %d artifact(s) into %s\n", len(paths), dir)

	r.mu.Lock()
	r.classpath = paths
	r.mu.Unlock()
	return nil
}

func (r *Runner) clean(stdout io.Writer) error {
	out := r.project.OutputPath()
	if err := os.RemoveAll(out); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrOutputCleanFailed, err.Error()), "path", out)
	}
	_, _ = fmt.Fprintf(stdout, "Removed %s\n", out)
	return nil
}
