// Package cache decides whether a project needs rebuilding and addresses its outputs
// in the remote cache.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// Manager opens build caches and owns the ports they need.
type Manager struct {
	store  ports.CacheStore
	hasher ports.Hasher
	remote ports.RemoteCache
	logger ports.Logger
	now    func() time.Time
}

// NewManager creates a new Manager.
func NewManager(store ports.CacheStore, hasher ports.Hasher, remote ports.RemoteCache, logger ports.Logger) *Manager {
	return &Manager{
		store:  store,
		hasher: hasher,
		remote: remote,
		logger: logger,
		now:    time.Now,
	}
}

// Open loads the cache of the project rooted at projectDir.
// A cache file that cannot be read or decoded is reported as domain.ErrCacheCorrupted.
func (m *Manager) Open(projectDir string) (*Cache, error) {
	record, err := m.store.Load(projectDir)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheCorrupted) {
			err = zerr.With(zerr.Wrap(domain.ErrCacheCorrupted, err.Error()), "project", projectDir)
		}
		return nil, err
	}
	return &Cache{m: m, projectDir: projectDir, record: record}, nil
}

// Clean removes the cache and all other metadata of the project.
func (m *Manager) Clean(projectDir string) error {
	return m.store.Clean(projectDir)
}

// Cache is the build cache of one project. It is not safe for concurrent use:
// the build flow is its only writer.
type Cache struct {
	m          *Manager
	projectDir string
	record     *domain.BuildCache
}

var _ ports.CacheSaver = (*Cache)(nil)

// Record returns the underlying record.
func (c *Cache) Record() *domain.BuildCache {
	return c.record
}

func (c *Cache) current(sourceDir string, exts []string) (map[string]string, error) {
	return c.m.hasher.HashTree(sourceDir, exts)
}

// HasChanges reports whether any tracked file under sourceDir was added, changed or removed
// since the last recorded build.
func (c *Cache) HasChanges(sourceDir string, exts []string) (bool, error) {
	current, err := c.current(sourceDir, exts)
	if err != nil {
		return false, err
	}
	return c.record.HasChanges(current), nil
}

// ChangedFiles returns the sorted relative paths that are new or changed since the last build.
func (c *Cache) ChangedFiles(sourceDir string, exts []string) ([]string, error) {
	current, err := c.current(sourceDir, exts)
	if err != nil {
		return nil, err
	}
	return c.record.ChangedFiles(current), nil
}

// UpdateHashes records the current tree as built.
func (c *Cache) UpdateHashes(sourceDir string, exts []string) error {
	current, err := c.current(sourceDir, exts)
	if err != nil {
		return err
	}
	c.record.Replace(current, c.m.now())
	return nil
}

// MasterHash returns the master hash of the recorded tree.
func (c *Cache) MasterHash() string {
	return c.record.MasterHash()
}

// CurrentMasterHash returns the master hash of the tree as it is now, without
// touching the record.
func (c *Cache) CurrentMasterHash(sourceDir string, exts []string) (string, error) {
	current, err := c.current(sourceDir, exts)
	if err != nil {
		return "", err
	}
	return domain.MasterHash(current), nil
}

// Save persists the record.
func (c *Cache) Save() error {
	return c.m.store.Save(c.projectDir, c.record)
}

// Download restores outputDir from the remote artifact stored under masterHash.
// Every failure is logged and reported as a miss.
func (c *Cache) Download(ctx context.Context, cfg domain.RemoteCacheConfig, masterHash, outputDir string) bool {
	if c.m.remote == nil || !cfg.Enabled() {
		return false
	}
	hit, err := c.m.remote.Download(ctx, cfg, masterHash, outputDir)
	if err != nil {
		c.m.logger.Warn(fmt.Sprintf("remote cache download failed: %v", err))
		return false
	}
	return hit
}

// Upload stores outputDir under the recorded master hash. Every failure is logged
// and never fails the build.
func (c *Cache) Upload(ctx context.Context, cfg domain.RemoteCacheConfig, outputDir string) bool {
	if c.m.remote == nil || !cfg.Enabled() || !cfg.Push {
		return false
	}
	if err := c.m.remote.Upload(ctx, cfg, c.MasterHash(), outputDir); err != nil {
		c.m.logger.Warn(fmt.Sprintf("remote cache upload failed: %v", err))
		return false
	}
	return true
}
