// Package cas persists the content-addressed build cache of a project.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.CacheStore with one JSON file per project at .forge/cache.json.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Load reads the build cache of the project rooted at projectDir.
func (s *Store) Load(projectDir string) (*domain.BuildCache, error) {
	path := domain.CachePath(projectDir)
	//nolint:gosec // Path is derived from the project root
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NewBuildCache(), nil
		}
		return nil, zerr.With(zerr.Wrap(domain.ErrCacheReadFailed, err.Error()), "path", path)
	}

	var cache domain.BuildCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrCacheCorrupted, err.Error()), "path", path)
	}
	if cache.Version < 1 || cache.Version > domain.BuildCacheVersion {
		err := zerr.Wrap(domain.ErrCacheCorrupted, "unsupported cache version")
		err = zerr.With(err, "version", cache.Version)
		return nil, zerr.With(err, "path", path)
	}
	if cache.FileHashes == nil {
		cache.FileHashes = make(map[string]string)
	}

	return &cache, nil
}

// Save writes cache atomically, creating the .forge directory if needed.
func (s *Store) Save(projectDir string, cache *domain.BuildCache) error {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return zerr.Wrap(domain.ErrCacheWriteFailed, err.Error())
	}

	dir := domain.ForgePath(projectDir)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrCacheWriteFailed, err.Error()), "path", dir)
	}

	tmp, err := os.CreateTemp(dir, domain.CacheFileName+".*")
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrCacheWriteFailed, err.Error()), "path", dir)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(domain.ErrCacheWriteFailed, err.Error()), "path", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrCacheWriteFailed, err.Error()), "path", tmp.Name())
	}
	if err := os.Chmod(tmp.Name(), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrCacheWriteFailed, err.Error()), "path", tmp.Name())
	}

	path := filepath.Join(dir, domain.CacheFileName)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrCacheWriteFailed, err.Error()), "path", path)
	}
	return nil
}

// Clean removes the .forge directory of the project.
func (s *Store) Clean(projectDir string) error {
	dir := domain.ForgePath(projectDir)
	if err := os.RemoveAll(dir); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrCacheCleanFailed, err.Error()), "path", dir)
	}
	return nil
}
