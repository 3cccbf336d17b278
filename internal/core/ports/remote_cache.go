package ports

import (
	"context"

	"go.trai.ch/forge/internal/core/domain"
)

// RemoteCache defines the interface for transferring build outputs to and from a
// content-addressed artifact store.
//
//go:generate mockgen -source=remote_cache.go -destination=mocks/mock_remote_cache.go -package=mocks
type RemoteCache interface {
	// Upload archives outputDir and stores it under masterHash.
	Upload(ctx context.Context, cfg domain.RemoteCacheConfig, masterHash, outputDir string) error

	// Download fetches the artifact stored under masterHash and replaces outputDir with it.
	// A missing artifact is reported as (false, nil).
	Download(ctx context.Context, cfg domain.RemoteCacheConfig, masterHash, outputDir string) (bool, error)
}
