package ports

import (
	"context"
	"io"

	"go.trai.ch/forge/internal/core/domain"
)

// ActionRunner executes built-in operations on behalf of the scheduler.
//
//go:generate mockgen -source=action_runner.go -destination=mocks/mock_action_runner.go -package=mocks
type ActionRunner interface {
	RunInternal(ctx context.Context, op domain.InternalOp, stdout, stderr io.Writer) error
}
