// Package apppath discovers the apps of a project. An app is a directory
// that owns a templates or an assets folder. A first-level directory that is
// not an app itself is a kit: its qualifying children are apps keyed
// "<kit>/<child>".
package apppath

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/specialistvlad/jsentry/internal/config"
	"github.com/specialistvlad/jsentry/internal/ctxlog"
	"github.com/specialistvlad/jsentry/internal/fsutil"
	"github.com/specialistvlad/jsentry/internal/ordered"
)

// Resolve returns every app of the project keyed by app key, followed by the
// statically configured other app paths. Static entries are not checked for
// templates or assets folders and override a discovered app of the same key.
func Resolve(ctx context.Context, s config.Settings) (*ordered.Map[string], error) {
	logger := ctxlog.FromContext(ctx)

	paths, err := Discover(ctx, s.ProjectPath, s.TemplatesDir, s.AssetsDir)
	if err != nil {
		return nil, err
	}

	if s.OtherAppPaths != nil {
		for key, p := range s.OtherAppPaths.All() {
			abs, err := filepath.Abs(p)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve path of app %q: %w", key, err)
			}
			paths.Set(key, abs)
			logger.Debug("Registered statically configured app.", "app", key, "path", abs)
		}
	}

	logger.Debug("App paths resolved.", "count", paths.Len())
	return paths, nil
}

// Discover walks the first two levels of projectPath. A missing projectPath
// is an error.
func Discover(ctx context.Context, projectPath, templatesDir, assetsDir string) (*ordered.Map[string], error) {
	logger := ctxlog.FromContext(ctx)

	root, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project path %q: %w", projectPath, err)
	}

	dirs, err := fsutil.ListDirs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to list project path %s: %w", root, err)
	}

	paths := ordered.New[string]()
	for _, name := range dirs {
		appPath := filepath.Join(root, name)
		if qualifies(appPath, templatesDir, assetsDir) {
			paths.Set(name, appPath)
			logger.Debug("Discovered app.", "app", name, "path", appPath)
			continue
		}

		subDirs, err := fsutil.ListDirs(appPath)
		if err != nil {
			return nil, fmt.Errorf("failed to list kit directory %s: %w", appPath, err)
		}
		for _, sub := range subDirs {
			subPath := filepath.Join(appPath, sub)
			if !qualifies(subPath, templatesDir, assetsDir) {
				continue
			}
			key := path.Join(name, sub)
			paths.Set(key, subPath)
			logger.Debug("Discovered kit app.", "app", key, "path", subPath)
		}
	}

	return paths, nil
}

// qualifies reports whether dir has a templates or an assets folder.
func qualifies(dir, templatesDir, assetsDir string) bool {
	return fsutil.Exists(filepath.Join(dir, templatesDir)) || fsutil.Exists(filepath.Join(dir, assetsDir))
}
