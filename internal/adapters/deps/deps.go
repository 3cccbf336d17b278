package deps

import (
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
)

// ForProject returns the resolver matching the project language, or nil when the
// project declares no dependencies.
func ForProject(p *domain.Project, exec ports.Executor, logger ports.Logger) ports.DependencyResolver {
	if len(p.Dependencies) == 0 {
		return nil
	}
	if p.Lang == domain.LangPython {
		return NewPipResolver(exec, p.PythonInterpreter(), logger)
	}
	return NewMavenResolver(logger)
}
