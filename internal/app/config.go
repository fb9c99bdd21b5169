package app

import (
	"errors"
	"fmt"
)

// Commands understood by Run.
const (
	CommandScan     = "scan"
	CommandManifest = "manifest"
	CommandBundles  = "bundles"
)

// Config holds everything one invocation needs besides the settings file.
type Config struct {
	Command    string
	BaseDir    string
	ConfigPath string // empty means probe BaseDir for jsentry.hcl / jsentry.yml

	Prod      bool   // scan
	StatsPath string // manifest
	Entry     string // bundles
	CSS       bool   // bundles

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.BaseDir == "" {
		return nil, errors.New("BaseDir is a required configuration field and cannot be empty")
	}

	switch cfg.Command {
	case CommandScan:
	case CommandManifest:
		if cfg.StatsPath == "" {
			return nil, errors.New("the manifest command requires a stats file")
		}
	case CommandBundles:
		if cfg.Entry == "" {
			return nil, errors.New("the bundles command requires an entry name")
		}
	default:
		return nil, fmt.Errorf("unknown command %q", cfg.Command)
	}

	return &cfg, nil
}
