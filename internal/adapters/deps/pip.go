package deps

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// PipResolver implements ports.DependencyResolver by installing packages with
// pip into a target directory that is later put on PYTHONPATH.
type PipResolver struct {
	exec        ports.Executor
	interpreter string
	logger      ports.Logger
}

// NewPipResolver creates a resolver running pip through interpreter.
func NewPipResolver(exec ports.Executor, interpreter string, logger ports.Logger) *PipResolver {
	return &PipResolver{exec: exec, interpreter: interpreter, logger: logger}
}

// Requirements turns name to version pairs into sorted pip requirement specifiers.
// An empty or "*" version installs the latest release.
func Requirements(deps map[string]string) []string {
	reqs := make([]string, 0, len(deps))
	for _, name := range slices.Sorted(maps.Keys(deps)) {
		switch version := deps[name]; version {
		case "", "*":
			reqs = append(reqs, name)
		default:
			reqs = append(reqs, name+"=="+version)
		}
	}
	return reqs
}

// Resolve installs deps into dir and returns dir as the single search path.
func (r *PipResolver) Resolve(ctx context.Context, deps map[string]string, dir string) ([]string, error) {
	if len(deps) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrDependencyResolutionFailed, err.Error()), "path", dir)
	}

	reqs := Requirements(deps)
	r.logger.Info(fmt.Sprintf("installing %d python packages", len(reqs)))

	args := append([]string{
		r.interpreter, "-m", "pip", "install",
		"--quiet", "--disable-pip-version-check", "--upgrade",
		"--target", dir,
	}, reqs...)

	var stdout, stderr bytes.Buffer
	err := r.exec.Execute(ctx, domain.Command{
		Task: domain.TaskResolveDeps,
		Args: args,
		Dir:  dir,
	}, &stdout, &stderr)
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, zerr.With(zerr.Wrap(domain.ErrDependencyResolutionFailed, msg), "packages", strings.Join(reqs, " "))
	}
	return []string{dir}, nil
}
