package ports

import (
	"context"
	"io"

	"go.trai.ch/forge/internal/core/domain"
)

// Language is the capability set of one supported language toolchain.
// One implementation is selected when the configuration is loaded.
//
//go:generate mockgen -source=language.go -destination=mocks/mock_language.go -package=mocks
type Language interface {
	// Name returns the configuration tag of the language.
	Name() string

	// Extensions returns the source file extensions tracked by the cache, without dots.
	Extensions() []string

	// DefaultSourceDir returns the source directory used when none is configured.
	DefaultSourceDir() string

	// Compile compiles the project sources into the output directory.
	// classpath holds resolved dependency artifacts.
	Compile(ctx context.Context, p *domain.Project, classpath []string, stdout, stderr io.Writer) error

	// Run runs the compiled entry point.
	Run(ctx context.Context, p *domain.Project, classpath []string, stdout, stderr io.Writer) error

	// Test runs the project test suite.
	Test(ctx context.Context, p *domain.Project, classpath []string, stdout, stderr io.Writer) error

	// Package bundles the compiled output into a distributable artifact.
	Package(ctx context.Context, p *domain.Project, stdout, stderr io.Writer) error
}
