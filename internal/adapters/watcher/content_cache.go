package watcher

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// ContentCache remembers the xxhash of every tracked file, so that saves which do not
// change a file's bytes do not trigger a rebuild.
type ContentCache struct {
	mu     sync.Mutex
	exts   []string
	hashes map[string]uint64
}

// NewContentCache creates a cache tracking files with one of exts. An empty exts tracks every file.
func NewContentCache(exts []string) *ContentCache {
	return &ContentCache{
		exts:   slices.Clone(exts),
		hashes: make(map[string]uint64),
	}
}

// Tracks reports whether path has a tracked extension.
func (c *ContentCache) Tracks(path string) bool {
	if len(c.exts) == 0 {
		return true
	}
	return slices.Contains(c.exts, strings.TrimPrefix(filepath.Ext(path), "."))
}

// Prime records the current content of every tracked file under root.
func (c *ContentCache) Prime(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skippedDirectories[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !c.Tracks(path) {
			return nil
		}
		sum, err := fileHash(path)
		if err != nil {
			return nil //nolint:nilerr // files that vanish mid-walk are picked up by later events
		}
		c.mu.Lock()
		c.hashes[path] = sum
		c.mu.Unlock()
		return nil
	})
}

// Changed returns the tracked paths whose content differs from what was last seen,
// recording the new content. A tracked file that disappeared counts as changed once.
func (c *ContentCache) Changed(paths []string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var changed []string
	for _, path := range paths {
		if !c.Tracks(path) {
			continue
		}
		sum, err := fileHash(path)
		prev, known := c.hashes[path]
		switch {
		case err != nil:
			if known {
				delete(c.hashes, path)
				changed = append(changed, path)
			}
		case !known || prev != sum:
			c.hashes[path] = sum
			changed = append(changed, path)
		}
	}
	return changed
}

func fileHash(path string) (uint64, error) {
	// #nosec G304 -- path comes from watching the project source tree
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return 0, os.ErrInvalid
	}

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
