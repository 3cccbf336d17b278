package remote

import (
	"archive/tar"
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/zerr"
)

// Archive packs every directory and regular file under dir into a gzip-compressed
// tar stream. Entry names are slash-separated and relative to dir.
func Archive(dir string) ([]byte, error) {
	var buf bytes.Buffer
	gz, err := gzip.NewWriterLevel(&buf, gzip.BestSpeed)
	if err != nil {
		return nil, zerr.Wrap(domain.ErrArchiveFailed, err.Error())
	}
	tw := tar.NewWriter(gz)

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if !d.IsDir() && !d.Type().IsRegular() {
			return nil
		}
		return addEntry(tw, path, filepath.ToSlash(rel), d)
	})
	if walkErr != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrArchiveFailed, walkErr.Error()), "path", dir)
	}

	if err := tw.Close(); err != nil {
		return nil, zerr.Wrap(domain.ErrArchiveFailed, err.Error())
	}
	if err := gz.Close(); err != nil {
		return nil, zerr.Wrap(domain.ErrArchiveFailed, err.Error())
	}
	return buf.Bytes(), nil
}

func addEntry(tw *tar.Writer, path, name string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = name
	if d.IsDir() {
		hdr.Name += "/"
	}
	// Ownership is not portable across machines sharing a cache.
	hdr.Uid, hdr.Gid, hdr.Uname, hdr.Gname = 0, 0, "", ""
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if d.IsDir() {
		return nil
	}

	//nolint:gosec // Path comes from walking the output directory
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	_, err = io.Copy(tw, f)
	return err
}

// Extract unpacks a gzip-compressed tar stream into dest. Entries whose names would
// resolve outside dest fail with ErrUnsafeArchivePath. Links and special files are skipped.
func Extract(r io.Reader, dest string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return zerr.Wrap(domain.ErrExtractFailed, err.Error())
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return zerr.Wrap(domain.ErrExtractFailed, err.Error())
		}

		name := strings.TrimSuffix(hdr.Name, "/")
		if !filepath.IsLocal(filepath.FromSlash(name)) {
			return zerr.With(zerr.Wrap(domain.ErrUnsafeArchivePath, "'"+hdr.Name+"'"), "entry", hdr.Name)
		}
		target := filepath.Join(dest, filepath.FromSlash(name))

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, domain.DirPerm); err != nil {
				return zerr.With(zerr.Wrap(domain.ErrExtractFailed, err.Error()), "path", target)
			}
		case tar.TypeReg:
			if err := writeEntry(tr, target, hdr.FileInfo().Mode().Perm()); err != nil {
				return zerr.With(zerr.Wrap(domain.ErrExtractFailed, err.Error()), "path", target)
			}
		}
	}
}

func writeEntry(r io.Reader, target string, perm fs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
		return err
	}
	if perm == 0 {
		perm = domain.FilePerm
	}
	//nolint:gosec // Target was checked to stay inside the destination
	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
