// Package toolchain implements the language capabilities behind the built-in tasks.
package toolchain

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// ForLanguage returns the capability set of lang, running its tools through exec.
func ForLanguage(lang string, exec ports.Executor) (ports.Language, error) {
	switch lang {
	case domain.LangJava:
		return &Java{exec: exec}, nil
	case domain.LangKotlin:
		return &Kotlin{exec: exec}, nil
	case domain.LangPython:
		return &Python{exec: exec}, nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrUnsupportedLanguage, "'"+lang+"'"), "lang", lang)
	}
}

// findSources returns the sorted files under dir with one of exts.
// A missing dir is reported as domain.ErrSourceDirMissing.
func findSources(dir string, exts ...string) ([]string, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrSourceDirMissing, dir), "path", dir)
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && slices.Contains(exts, strings.TrimPrefix(filepath.Ext(path), ".")) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrSourceWalkFailed, err.Error()), "path", dir)
	}
	slices.Sort(files)
	return files, nil
}

// DependencyJars returns the sorted .jar files under the project's dependency directory.
func DependencyJars(projectDir string) []string {
	var jars []string
	_ = filepath.WalkDir(domain.DepsPath(projectDir), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // a missing deps directory means no jars
		}
		if d.Type().IsRegular() && filepath.Ext(path) == ".jar" {
			jars = append(jars, path)
		}
		return nil
	})
	slices.Sort(jars)
	return jars
}

func joinPath(parts ...string) string {
	return strings.Join(slices.DeleteFunc(parts, func(s string) bool { return s == "" }), string(os.PathListSeparator))
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// testSourceDir maps the main source directory to its test counterpart:
// src/main/java becomes src/test/java. Other layouts use tests/ next to the sources.
func testSourceDir(p *domain.Project) string {
	dir := filepath.ToSlash(p.Settings.SourceDir)
	if rest, ok := strings.CutPrefix(dir, "src/main/"); ok {
		return filepath.Join(p.Root, "src", "test", filepath.FromSlash(rest))
	}
	return filepath.Join(p.Root, "tests")
}

func run(ctx context.Context, exec ports.Executor, p *domain.Project, op domain.InternalOp, args []string, env []string, stdout, stderr io.Writer) error {
	return exec.Execute(ctx, domain.Command{
		Task: op.String(),
		Args: args,
		Dir:  p.Root,
		Env:  env,
	}, stdout, stderr)
}
