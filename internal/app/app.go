package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/jsentry/internal/config"
	"github.com/specialistvlad/jsentry/internal/ctxlog"
)

// App encapsulates one invocation's settings, logger and output streams.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	settings config.Settings
}

// NewApp configures logging and loads the settings. Command output goes to
// outW, log records to logW.
func NewApp(outW, logW io.Writer, cfg *Config, loaders Loaders) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	settings, err := loadSettings(ctx, cfg, loaders)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	logger.Debug("Settings loaded.",
		"project_path", settings.ProjectPath,
		"build_artifacts_dir", settings.BuildArtifactsDir,
		"always_include_apps", settings.AlwaysIncludeApps,
	)

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		settings: settings,
	}, nil
}

// Settings returns the resolved settings. This is primarily for testing.
func (a *App) Settings() config.Settings {
	return a.settings
}
