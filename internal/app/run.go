package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/jsentry/internal/ctxlog"
	"github.com/specialistvlad/jsentry/internal/descriptor"
	"github.com/specialistvlad/jsentry/internal/manifest"
)

// Run executes the configured command.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "command", a.config.Command)

	var err error
	switch a.config.Command {
	case CommandScan:
		err = a.runScan(ctx)
	case CommandManifest:
		err = a.runManifest(ctx)
	case CommandBundles:
		err = a.runBundles()
	default:
		err = fmt.Errorf("unknown command %q", a.config.Command)
	}

	a.logger.Debug("App.Run method finished.", "command", a.config.Command)
	return err
}

func (a *App) runScan(ctx context.Context) error {
	d, err := descriptor.Build(ctx, a.settings, a.config.Prod)
	if err != nil {
		return err
	}
	a.logger.Info("Build descriptor written.", "path", a.settings.DetailsPath(), "entries", d.Entries.Len())
	return nil
}

func (a *App) runManifest(ctx context.Context) error {
	graph, err := manifest.ReadStatsFile(a.config.StatsPath)
	if err != nil {
		return err
	}

	var emitErr error
	manifest.NewEmitter(a.settings).Tap(ctx, graph, func(err error) {
		emitErr = err
	})
	if emitErr != nil {
		return fmt.Errorf("failed to emit manifests: %w", emitErr)
	}
	return nil
}

func (a *App) runBundles() error {
	files, err := manifest.Bundles(a.settings, a.config.Entry, a.config.CSS)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Fprintln(a.outW, f)
	}
	return nil
}
