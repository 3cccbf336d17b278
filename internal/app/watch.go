package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/forge/internal/adapters/watcher"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/zerr"
)

// WatchOptions configuration for the Watch method.
type WatchOptions struct {
	Target string
	// Window is the quiet period before a batch of changes triggers a rebuild.
	Window time.Duration
}

// Watch builds the target, then rebuilds it whenever the content of a tracked source
// file changes, until ctx is done. Failed builds are reported and do not end watching.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	ws, err := a.open()
	if err != nil {
		return err
	}
	ws.close()

	src := ws.sourceDir()
	if !exists(src) {
		return zerr.With(zerr.Wrap(domain.ErrSourceDirMissing, src), "path", src)
	}

	fsWatcher, err := a.newWatcher()
	if err != nil {
		return err
	}
	defer func() {
		_ = fsWatcher.Stop()
	}()
	if err := fsWatcher.Start(ctx, src); err != nil {
		return err
	}

	contents := watcher.NewContentCache(ws.extensions())
	if err := contents.Prime(src); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrWatchFailed, err.Error()), "path", src)
	}

	// Linear output: a TUI cannot be restarted for every rebuild.
	build := BuildOptions{Target: opts.Target, OutputMode: "linear"}

	a.logger.Info(fmt.Sprintf("watching %s for changes (ctrl+c to stop)", ws.project.Settings.SourceDir))
	a.rebuild(ctx, build)

	triggers := make(chan []string, 1)
	window := opts.Window
	if window <= 0 {
		window = watcher.DefaultDebounceWindow
	}
	debouncer := watcher.NewDebouncer(window, func(paths []string) {
		changed := contents.Changed(paths)
		if len(changed) == 0 {
			return
		}
		select {
		case triggers <- changed:
		default:
			// A rebuild is already pending and will pick these files up.
		}
	})
	defer debouncer.Stop()

	go func() {
		for event := range fsWatcher.Events() {
			if contents.Tracks(event.Path) {
				debouncer.Add(event.Path)
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("watch mode stopped")
			return nil
		case changed := <-triggers:
			a.logger.Info(fmt.Sprintf("changes detected: %s, rebuilding", relativeNames(src, changed)))
			a.rebuild(ctx, build)
		}
	}
}

func (a *App) rebuild(ctx context.Context, opts BuildOptions) {
	start := time.Now()
	err := a.Build(ctx, opts)
	switch {
	case ctx.Err() != nil:
	case err == nil:
		a.logger.Info(fmt.Sprintf("build finished in %v, waiting for changes", time.Since(start).Round(time.Millisecond)))
	default:
		if !errors.Is(err, domain.ErrBuildExecutionFailed) {
			a.logger.Error(err)
		}
		a.logger.Warn("build failed, fix the sources and save again")
	}
}

func relativeNames(root string, paths []string) string {
	names := make([]string, len(paths))
	for i, p := range paths {
		if rel, err := filepath.Rel(root, p); err == nil {
			p = rel
		}
		names[i] = filepath.ToSlash(p)
	}
	return strings.Join(names, ", ")
}
