package ports

import "go.trai.ch/forge/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load finds the configuration at or above cwd and returns the validated project.
	Load(cwd string) (*domain.Project, error)

	// DiscoverRoot walks up from cwd to find the project root.
	// Returns the directory containing forge.yaml or forge.hcl.
	DiscoverRoot(cwd string) (string, error)
}
