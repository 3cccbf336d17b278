package scheduler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/adapters/shell"
	"go.trai.ch/forge/internal/core/ports"
)

// NodeID is the unique identifier for the scheduler factory Graft node.
const NodeID graft.ID = "engine.scheduler"

// Factory builds a Scheduler per build, once the project, its action runner and the
// event sink of that build are known.
type Factory struct {
	executor ports.Executor
}

// NewFactory creates a Factory around executor.
func NewFactory(executor ports.Executor) *Factory {
	return &Factory{executor: executor}
}

// New returns a scheduler running commands in dir.
func (f *Factory) New(runner ports.ActionRunner, sink ports.EventSink, dir string) *Scheduler {
	return NewScheduler(f.executor, runner, sink, dir)
}

// Executor returns the process executor shared by every scheduler of the factory.
func (f *Factory) Executor() ports.Executor {
	return f.executor
}

func init() {
	graft.Register(graft.Node[*Factory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (*Factory, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			return NewFactory(executor), nil
		},
	})
}
