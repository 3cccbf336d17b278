package fs

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes SHA-256 content hashes of source trees.
type Hasher struct {
	walker *Walker
}

// NewHasher creates a new Hasher.
func NewHasher(walker *Walker) *Hasher {
	return &Hasher{walker: walker}
}

// ComputeFileHash returns the hex SHA-256 of the file's content.
func (h *Hasher) ComputeFileHash(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return "", zerr.With(zerr.Wrap(domain.ErrFileHashFailed, err.Error()), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", zerr.With(zerr.Wrap(domain.ErrFileHashFailed, err.Error()), "path", path)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// HashTree hashes every matching file under root, keyed by slash-separated relative path.
// Files are hashed concurrently.
func (h *Hasher) HashTree(root string, exts []string) (map[string]string, error) {
	var paths []string
	for path, err := range h.walker.WalkFiles(root, exts) {
		if err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrSourceWalkFailed, err.Error()), "root", root)
		}
		paths = append(paths, path)
	}

	var mu sync.Mutex
	hashes := make(map[string]string, len(paths))

	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())
	for _, path := range paths {
		g.Go(func() error {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return zerr.With(zerr.Wrap(domain.ErrFileHashFailed, err.Error()), "path", path)
			}
			sum, err := h.ComputeFileHash(path)
			if err != nil {
				return err
			}
			mu.Lock()
			hashes[filepath.ToSlash(rel)] = sum
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return hashes, nil
}
