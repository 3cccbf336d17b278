package remote

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/core/ports"
)

// NodeID is the unique identifier for the remote cache client Graft node.
const NodeID graft.ID = "adapter.remote_cache"

func init() {
	graft.Register(graft.Node[ports.RemoteCache]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.RemoteCache, error) {
			return NewClient(), nil
		},
	})
}
