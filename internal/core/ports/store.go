package ports

import "go.trai.ch/forge/internal/core/domain"

// CacheStore defines the interface for persisting the build cache of a project.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type CacheStore interface {
	// Load reads the cache of the project rooted at projectDir.
	// A missing cache file yields a fresh cache; an undecodable one yields domain.ErrCacheCorrupted.
	Load(projectDir string) (*domain.BuildCache, error)

	// Save writes the cache, creating the metadata directory if needed.
	Save(projectDir string, cache *domain.BuildCache) error

	// Clean removes the metadata directory of the project.
	Clean(projectDir string) error
}

// CacheSaver persists the current cache state.
type CacheSaver interface {
	Save() error
}
