package descriptor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specialistvlad/jsentry/internal/apppath"
	"github.com/specialistvlad/jsentry/internal/config"
	"github.com/specialistvlad/jsentry/internal/ctxlog"
	"github.com/specialistvlad/jsentry/internal/entry"
)

// Assemble resolves the app paths, registers the always-include apps and
// merges the entries declared in every app's templates. Any unknown app or
// missing script aborts the assembly.
func Assemble(ctx context.Context, s config.Settings, prod bool) (*Descriptor, error) {
	logger := ctxlog.FromContext(ctx)

	apps, err := apppath.Resolve(ctx, s)
	if err != nil {
		return nil, err
	}

	b := NewBuilder(apps)
	for _, app := range s.AlwaysIncludeApps {
		appPath, ok := apps.Get(app)
		if !ok {
			logger.Warn("Always-include app not found in app paths.", "app", app)
			continue
		}
		b.Include(app, filepath.Join(appPath, s.AssetsDir))
	}

	scanner, err := entry.NewScanner(s, apps, prod)
	if err != nil {
		return nil, err
	}
	scanned, err := scanner.ScanApps(ctx)
	if err != nil {
		return nil, err
	}
	if err := b.Merge(scanned); err != nil {
		return nil, err
	}

	d := b.Descriptor()
	logger.Info("Build descriptor assembled.",
		"apps", d.AllAppPaths.Len(),
		"entries", d.Entries.Len(),
		"apps_with_entries", len(d.AppsWithEntries),
		"prod", prod,
	)
	return d, nil
}

// Build assembles the descriptor and writes it to the settings' details
// path. Nothing is written when assembly fails.
func Build(ctx context.Context, s config.Settings, prod bool) (*Descriptor, error) {
	d, err := Assemble(ctx, s, prod)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.BuildArtifactsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create build artifacts directory: %w", err)
	}
	if err := Write(s.DetailsPath(), d); err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Build descriptor written.", "path", s.DetailsPath())
	return d, nil
}
