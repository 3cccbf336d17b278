package toolchain

import (
	"context"
	"io"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
)

// Java builds projects with javac, java, jar and the JUnit console launcher.
type Java struct {
	exec ports.Executor
}

func (l *Java) jvm() *jvm {
	return &jvm{
		exec:      l.exec,
		launcher:  "java",
		sourceExt: "java",
		label:     "Java",
		compiler: func(p *domain.Project, dest, classpath string, files []string) []string {
			args := []string{"javac", "-d", dest}
			if p.Settings.Target != "" {
				args = append(args, "--release", p.Settings.Target)
			}
			if classpath != "" {
				args = append(args, "-cp", classpath)
			}
			return append(args, files...)
		},
	}
}

// Name implements ports.Language.
func (l *Java) Name() string { return domain.LangJava }

// Extensions implements ports.Language.
func (l *Java) Extensions() []string { return []string{"java"} }

// DefaultSourceDir implements ports.Language.
func (l *Java) DefaultSourceDir() string { return "src/main/java" }

// Compile runs javac over every source file into the classes directory.
func (l *Java) Compile(ctx context.Context, p *domain.Project, classpath []string, stdout, stderr io.Writer) error {
	return l.jvm().compile(ctx, p, classpath, stdout, stderr)
}

// Run starts the configured main class.
func (l *Java) Run(ctx context.Context, p *domain.Project, classpath []string, stdout, stderr io.Writer) error {
	return l.jvm().run(ctx, p, classpath, stdout, stderr)
}

// Test compiles src/test/java and runs it with the JUnit console launcher.
func (l *Java) Test(ctx context.Context, p *domain.Project, classpath []string, stdout, stderr io.Writer) error {
	return l.jvm().test(ctx, p, classpath, stdout, stderr)
}

// Package bundles the classes directory into <output>/<name>.jar.
func (l *Java) Package(ctx context.Context, p *domain.Project, stdout, stderr io.Writer) error {
	return l.jvm().pack(ctx, p, stdout, stderr)
}
