package toolchain_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/adapters/toolchain"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

var sep = string(os.PathListSeparator)

func newProject(t *testing.T, lang string, settings domain.LanguageSettings) *domain.Project {
	t.Helper()
	return &domain.Project{
		Name:      "demo",
		Root:      t.TempDir(),
		OutputDir: "build",
		Lang:      lang,
		Settings:  settings,
	}
}

func writeFile(t *testing.T, root, rel string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte("x"), domain.FilePerm))
	return path
}

// recordCommands returns an executor that accepts every command and records it.
func recordCommands(t *testing.T) (*mocks.MockExecutor, *[]domain.Command) {
	t.Helper()
	exec := mocks.NewMockExecutor(gomock.NewController(t))
	var cmds []domain.Command
	exec.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd domain.Command, _, _ io.Writer) error {
			cmds = append(cmds, cmd)
			return nil
		}).AnyTimes()
	return exec, &cmds
}

func assertArgs(t *testing.T, want []string, cmd domain.Command) {
	t.Helper()
	if diff := cmp.Diff(want, cmd.Args); diff != "" {
		t.Errorf("%s args mismatch (-want +got):\n%s", cmd.Task, diff)
	}
}

func TestForLanguage(t *testing.T) {
	for _, lang := range []string{domain.LangJava, domain.LangKotlin, domain.LangPython} {
		l, err := toolchain.ForLanguage(lang, nil)
		require.NoError(t, err)
		assert.Equal(t, lang, l.Name())
	}

	_, err := toolchain.ForLanguage("rust", nil)
	require.ErrorIs(t, err, domain.ErrUnsupportedLanguage)
}

func TestDependencyJars(t *testing.T) {
	root := t.TempDir()
	assert.Empty(t, toolchain.DependencyJars(root))

	deps := domain.DepsPath(root)
	b := writeFile(t, deps, "b.jar")
	a := writeFile(t, deps, "a.jar")
	writeFile(t, deps, "a.pom")

	assert.Equal(t, []string{a, b}, toolchain.DependencyJars(root))
}
