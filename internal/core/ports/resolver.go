package ports

import "context"

// DependencyResolver fetches declared dependencies into a local directory.
//
//go:generate mockgen -destination=mocks/mock_resolver.go -package=mocks -source=resolver.go
type DependencyResolver interface {
	// Resolve fetches deps (name to pinned version) and their transitive dependencies into
	// dir and returns the local artifact paths.
	Resolve(ctx context.Context, deps map[string]string, dir string) ([]string, error)
}
