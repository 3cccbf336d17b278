package shell

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/core/ports"
)

// NodeID is the unique identifier for the executor Graft node.
const NodeID graft.ID = "adapter.executor"

// PTYEnv enables pseudo terminal execution when set to 1.
const PTYEnv = "FORGE_PTY"

func init() {
	graft.Register(graft.Node[ports.Executor]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{},
		Run: func(_ context.Context) (ports.Executor, error) {
			var opts []Option
			if os.Getenv(PTYEnv) == "1" {
				opts = append(opts, WithPTY())
			}
			return NewExecutor(opts...), nil
		},
	})
}
