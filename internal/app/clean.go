package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/zerr"
)

// Clean removes the output directory and the project metadata, including the build cache.
func (a *App) Clean(_ context.Context) error {
	p, err := a.loadProject()
	if err != nil {
		return err
	}

	var errs error

	a.logger.Info(fmt.Sprintf("removing %s...", p.OutputDir))
	if err := os.RemoveAll(p.OutputPath()); err != nil {
		errs = errors.Join(errs, zerr.With(zerr.Wrap(domain.ErrOutputCleanFailed, err.Error()), "path", p.OutputPath()))
	} else {
		a.logger.Info(fmt.Sprintf("removed %s", p.OutputDir+string(filepath.Separator)))
	}

	a.logger.Info(fmt.Sprintf("removing %s...", domain.ForgeDirName))
	if err := a.caches.Clean(p.Root); err != nil {
		errs = errors.Join(errs, err)
	} else {
		a.logger.Info(fmt.Sprintf("removed %s", domain.ForgeDirName+string(filepath.Separator)))
	}

	return errs
}
