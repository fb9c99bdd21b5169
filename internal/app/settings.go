package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/jsentry/internal/config"
	"github.com/specialistvlad/jsentry/internal/ctxlog"
	"github.com/specialistvlad/jsentry/internal/fsutil"
)

// settingsFiles are probed in the base directory, in this order, when no
// settings file is given explicitly.
var settingsFiles = []string{"jsentry.hcl", "jsentry.yml", "jsentry.yaml"}

// Loaders maps a settings file extension to the loader for that format.
type Loaders map[string]config.Loader

// loadSettings builds the settings of this invocation: defaults, overridden
// by the settings file if there is one, anchored at the base directory.
func loadSettings(ctx context.Context, cfg *Config, loaders Loaders) (config.Settings, error) {
	logger := ctxlog.FromContext(ctx)

	baseDir, err := filepath.Abs(cfg.BaseDir)
	if err != nil {
		return config.Settings{}, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	path := cfg.ConfigPath
	if path != "" {
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		if !fsutil.Exists(path) {
			return config.Settings{}, fmt.Errorf("settings file %s does not exist", path)
		}
	} else {
		for _, name := range settingsFiles {
			candidate := filepath.Join(baseDir, name)
			if fsutil.Exists(candidate) {
				path = candidate
				break
			}
		}
	}

	s := config.Default()
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		loader, ok := loaders[ext]
		if !ok {
			return config.Settings{}, fmt.Errorf("unsupported settings file format %q", ext)
		}
		overrides, err := loader.Load(ctx, path, baseDir)
		if err != nil {
			return config.Settings{}, err
		}
		s = s.Apply(overrides)
		logger.Debug("Settings file applied.", "path", path)
	} else {
		logger.Debug("No settings file found, using defaults.", "base_dir", baseDir)
	}

	s, err = s.Resolve(baseDir)
	if err != nil {
		return config.Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return config.Settings{}, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}
