package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"maps"
	"slices"
	"time"
)

// BuildCacheVersion is the newest cache format this module understands.
const BuildCacheVersion = 1

// BuildCache records the content hash of every tracked source file as of the last
// successful build. It is the only state that outlives a single invocation.
type BuildCache struct {
	Version    int               `json:"version"`
	FileHashes map[string]string `json:"file_hashes"`
	// LastBuildTimestamp is in Unix seconds, zero until the first successful build.
	LastBuildTimestamp int64 `json:"last_build_timestamp,omitempty"`
}

// NewBuildCache returns an empty cache at the current format version.
func NewBuildCache() *BuildCache {
	return &BuildCache{
		Version:    BuildCacheVersion,
		FileHashes: make(map[string]string),
	}
}

// HasChanges reports whether current differs from the stored hashes: a changed hash,
// a new file, or a stored file that no longer exists.
func (c *BuildCache) HasChanges(current map[string]string) bool {
	if len(current) != len(c.FileHashes) {
		return true
	}
	for path, hash := range current {
		if stored, ok := c.FileHashes[path]; !ok || stored != hash {
			return true
		}
	}
	return false
}

// ChangedFiles returns the sorted paths in current that are new or whose hash differs.
// Deleted files are not reported.
func (c *BuildCache) ChangedFiles(current map[string]string) []string {
	var changed []string
	for path, hash := range current {
		if stored, ok := c.FileHashes[path]; !ok || stored != hash {
			changed = append(changed, path)
		}
	}
	slices.Sort(changed)
	return changed
}

// Replace overwrites the stored hashes with current and stamps the build time.
func (c *BuildCache) Replace(current map[string]string, at time.Time) {
	c.FileHashes = maps.Clone(current)
	if c.FileHashes == nil {
		c.FileHashes = make(map[string]string)
	}
	c.LastBuildTimestamp = at.Unix()
}

// MasterHash reduces the stored hashes to one hex SHA-256 digest.
func (c *BuildCache) MasterHash() string {
	return MasterHash(c.FileHashes)
}

// MasterHash folds (path, hash) pairs in lexicographic path order through SHA-256.
// The result is independent of map insertion order.
func MasterHash(hashes map[string]string) string {
	h := sha256.New()
	for _, path := range slices.Sorted(maps.Keys(hashes)) {
		h.Write([]byte(path))
		h.Write([]byte(hashes[path]))
	}
	return hex.EncodeToString(h.Sum(nil))
}
