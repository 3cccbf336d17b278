package toolchain

import (
	"context"
	"io"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
)

// Kotlin builds projects with kotlinc and runs them with the kotlin launcher.
type Kotlin struct {
	exec ports.Executor
}

func (l *Kotlin) jvm() *jvm {
	return &jvm{
		exec:      l.exec,
		launcher:  "kotlin",
		sourceExt: "kt",
		label:     "Kotlin",
		compiler: func(p *domain.Project, dest, classpath string, files []string) []string {
			args := []string{"kotlinc", "-d", dest}
			if p.Settings.Target != "" {
				args = append(args, "-jvm-target", p.Settings.Target)
			}
			if classpath != "" {
				args = append(args, "-cp", classpath)
			}
			return append(args, files...)
		},
	}
}

// Name implements ports.Language.
func (l *Kotlin) Name() string { return domain.LangKotlin }

// Extensions implements ports.Language. Build scripts are tracked too.
func (l *Kotlin) Extensions() []string { return []string{"kt", "kts"} }

// DefaultSourceDir implements ports.Language.
func (l *Kotlin) DefaultSourceDir() string { return "src/main/kotlin" }

// Compile runs kotlinc over every .kt file into the classes directory.
func (l *Kotlin) Compile(ctx context.Context, p *domain.Project, classpath []string, stdout, stderr io.Writer) error {
	return l.jvm().compile(ctx, p, classpath, stdout, stderr)
}

// Run starts the configured main class.
func (l *Kotlin) Run(ctx context.Context, p *domain.Project, classpath []string, stdout, stderr io.Writer) error {
	return l.jvm().run(ctx, p, classpath, stdout, stderr)
}

// Test compiles src/test/kotlin and runs it with the JUnit console launcher.
func (l *Kotlin) Test(ctx context.Context, p *domain.Project, classpath []string, stdout, stderr io.Writer) error {
	return l.jvm().test(ctx, p, classpath, stdout, stderr)
}

// Package bundles the classes directory into <output>/<name>.jar.
func (l *Kotlin) Package(ctx context.Context, p *domain.Project, stdout, stderr io.Writer) error {
	return l.jvm().pack(ctx, p, stdout, stderr)
}
