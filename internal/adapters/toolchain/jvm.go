package toolchain

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// jvm holds what Java and Kotlin share: the class layout, the launcher, JUnit and jar.
type jvm struct {
	exec ports.Executor
	// launcher starts the compiled entry point, java or kotlin.
	launcher string
	// compiler returns the compile command for files into dest.
	compiler func(p *domain.Project, dest, classpath string, files []string) []string
	// sourceExt is the extension compiled by compiler.
	sourceExt string
	label     string
}

func classesDir(p *domain.Project) string {
	return filepath.Join(p.OutputPath(), domain.ClassesDirName)
}

func (j *jvm) compile(ctx context.Context, p *domain.Project, classpath []string, stdout, stderr io.Writer) error {
	files, err := findSources(p.SourcePath(), j.sourceExt)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		_, _ = fmt.Fprintf(stdout, "No %s sources found in %s\n", j.label, p.Settings.SourceDir)
		return nil
	}

	dest := classesDir(p)
	if err := os.MkdirAll(dest, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create class directory"), "path", dest)
	}

	_, _ = fmt.Fprintf(stdout, "Compiling %d %s source file(s)\n", len(files), j.label)
	args := j.compiler(p, dest, joinPath(classpath...), files)
	return run(ctx, j.exec, p, domain.OpCompile, args, nil, stdout, stderr)
}

func (j *jvm) run(ctx context.Context, p *domain.Project, classpath []string, stdout, stderr io.Writer) error {
	if p.Settings.MainEntry == "" {
		return zerr.With(zerr.Wrap(domain.ErrMainEntryMissing, "set main_class"), "lang", p.Lang)
	}
	args := []string{j.launcher, "-cp", joinPath(slices.Concat([]string{classesDir(p)}, classpath)...), p.Settings.MainEntry}
	return run(ctx, j.exec, p, domain.OpRun, args, nil, stdout, stderr)
}

func (j *jvm) test(ctx context.Context, p *domain.Project, classpath []string, stdout, stderr io.Writer) error {
	testDir := testSourceDir(p)
	if !exists(testDir) {
		_, _ = fmt.Fprintf(stdout, "No test directory at %s, skipping\n", testDir)
		return nil
	}
	files, err := findSources(testDir, j.sourceExt)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		_, _ = fmt.Fprintf(stdout, "No %s tests found in %s\n", j.label, testDir)
		return nil
	}

	junit := p.Settings.TestClasspath
	if junit == "" {
		return zerr.With(zerr.Wrap(domain.ErrTestRunnerMissing, testDir), "lang", p.Lang)
	}
	if !filepath.IsAbs(junit) {
		junit = filepath.Join(p.Root, junit)
	}

	testClasses := filepath.Join(p.OutputPath(), domain.TestClassesDirName)
	if err := os.MkdirAll(testClasses, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create test class directory"), "path", testClasses)
	}

	_, _ = fmt.Fprintf(stdout, "Compiling %d %s test file(s)\n", len(files), j.label)
	compileCP := joinPath(slices.Concat([]string{classesDir(p)}, classpath, []string{junit})...)
	if err := run(ctx, j.exec, p, domain.OpTest, j.compiler(p, testClasses, compileCP, files), nil, stdout, stderr); err != nil {
		return err
	}

	runCP := joinPath(slices.Concat([]string{testClasses, classesDir(p)}, classpath)...)
	args := []string{
		"java", "-jar", junit,
		"--class-path", runCP,
		"--scan-class-path",
		"--details=tree",
		"--disable-banner",
	}
	return run(ctx, j.exec, p, domain.OpTest, args, nil, stdout, stderr)
}

func (j *jvm) pack(ctx context.Context, p *domain.Project, stdout, stderr io.Writer) error {
	classes := classesDir(p)
	if !exists(classes) {
		err := zerr.Wrap(domain.ErrTaskFailed, "no compiled classes, run compile first")
		return zerr.With(err, "path", classes)
	}

	jar := filepath.Join(p.OutputPath(), p.Name+".jar")
	args := []string{"jar", "--create", "--file", jar}
	if p.Settings.MainEntry != "" {
		args = append(args, "--main-class", p.Settings.MainEntry)
	}
	args = append(args, "-C", classes, ".")

	if err := run(ctx, j.exec, p, domain.OpPackage, args, nil, stdout, stderr); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stdout, "Created %s\n", jar)
	return nil
}
