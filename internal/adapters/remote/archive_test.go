package remote_test

import (
	"archive/tar"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/adapters/remote"
	"go.trai.ch/forge/internal/core/domain"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		//nolint:gosec // Test path
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return out
}

func TestArchive_RoundTrip(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	files := map[string]string{
		"Main.class":             "cafebabe",
		"com/example/Util.class": "util",
		"resources/app.txt":      "hello\n",
	}
	writeTree(t, src, files)
	require.NoError(t, os.MkdirAll(filepath.Join(src, "empty"), 0o750))

	data, err := remote.Archive(src)
	require.NoError(t, err)

	dest := t.TempDir()
	require.NoError(t, remote.Extract(bytes.NewReader(data), dest))

	assert.Equal(t, files, readTree(t, dest))
	info, err := os.Stat(filepath.Join(dest, "empty"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestArchive_Deterministic(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeTree(t, src, map[string]string{"a.txt": "a", "b/c.txt": "c"})

	first, err := remote.Archive(src)
	require.NoError(t, err)
	second, err := remote.Archive(src)
	require.NoError(t, err)

	assert.Equal(t, remote.Checksum(first), remote.Checksum(second))
}

func TestArchive_MissingDir(t *testing.T) {
	t.Parallel()

	_, err := remote.Archive(filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, domain.ErrArchiveFailed)
}

func TestExtract_RejectsEscapingEntries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		entry string
	}{
		{name: "parent traversal", entry: "../evil.txt"},
		{name: "nested traversal", entry: "classes/../../evil.txt"},
		{name: "absolute path", entry: "/tmp/evil.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			gz := gzip.NewWriter(&buf)
			tw := tar.NewWriter(gz)
			body := []byte("pwned")
			require.NoError(t, tw.WriteHeader(&tar.Header{
				Name:     tt.entry,
				Typeflag: tar.TypeReg,
				Mode:     0o644,
				Size:     int64(len(body)),
			}))
			_, err := tw.Write(body)
			require.NoError(t, err)
			require.NoError(t, tw.Close())
			require.NoError(t, gz.Close())

			parent := t.TempDir()
			dest := filepath.Join(parent, "out")
			require.NoError(t, os.MkdirAll(dest, 0o750))

			err = remote.Extract(&buf, dest)
			require.ErrorIs(t, err, domain.ErrUnsafeArchivePath)
			assert.NoFileExists(t, filepath.Join(parent, "evil.txt"))
		})
	}
}

func TestExtract_NotGzip(t *testing.T) {
	t.Parallel()

	err := remote.Extract(bytes.NewReader([]byte("not an archive")), t.TempDir())
	require.ErrorIs(t, err, domain.ErrExtractFailed)
}
