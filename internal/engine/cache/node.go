package cache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/adapters/cas"
	"go.trai.ch/forge/internal/adapters/fs"
	"go.trai.ch/forge/internal/adapters/logger"
	"go.trai.ch/forge/internal/adapters/remote"
	"go.trai.ch/forge/internal/core/ports"
)

// NodeID is the unique identifier for the cache manager Graft node.
const NodeID graft.ID = "engine.cache"

func init() {
	graft.Register(graft.Node[*Manager]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{cas.NodeID, fs.HasherNodeID, remote.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Manager, error) {
			store, err := graft.Dep[ports.CacheStore](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			remoteCache, err := graft.Dep[ports.RemoteCache](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewManager(store, hasher, remoteCache, log), nil
		},
	})
}
