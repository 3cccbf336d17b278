// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/forge/internal/core/domain"
)

// Executor defines the interface for running external processes.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs cmd, streaming its output to stdout and stderr.
	//
	// A non-zero exit is reported as domain.ErrTaskFailed, a missing executable as
	// domain.ErrCommandNotFound, and an exceeded cmd.Timeout as domain.ErrTaskTimeout.
	Execute(ctx context.Context, cmd domain.Command, stdout, stderr io.Writer) error
}
