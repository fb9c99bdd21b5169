package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/jsentry/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

const usage = `
jsentry - discovers js_entry declarations in templates and writes the
bundler build descriptor and chunk manifests.

Usage:
  jsentry [options] [command] [command options]

Commands:
  scan [--prod]           Scan templates and write the build descriptor (default).
  manifest --stats FILE   Write the chunk and style manifests from bundler stats.
  bundles [--css] ENTRY   Print the bundle URLs of ENTRY from the manifests.

Options:
`

// Parse processes command-line arguments. It returns a populated Config, a
// boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("jsentry", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, usage)
		flagSet.PrintDefaults()
	}

	baseDirFlag := flagSet.String("base-dir", ".", "Project base directory; relative settings paths are resolved against it.")
	configFlag := flagSet.String("config", "", "Settings file (.hcl, .yml or .yaml). Defaults to jsentry.hcl or jsentry.yml in the base directory.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	cfg := app.Config{
		Command:    app.CommandScan,
		BaseDir:    *baseDirFlag,
		ConfigPath: *configFlag,
		LogFormat:  logFormat,
		LogLevel:   logLevel,
	}

	rest := flagSet.Args()
	if len(rest) > 0 {
		cfg.Command = rest[0]
		rest = rest[1:]
	}
	slog.Debug("Command determined.", "command", cfg.Command)

	shouldExit, err := parseCommand(&cfg, rest, output)
	if err != nil || shouldExit {
		return nil, shouldExit, err
	}

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

// parseCommand parses the flags and arguments that follow the command name.
func parseCommand(cfg *app.Config, args []string, output io.Writer) (bool, error) {
	cmdSet := flag.NewFlagSet("jsentry "+cfg.Command, flag.ContinueOnError)
	cmdSet.SetOutput(output)

	var positional string
	switch cfg.Command {
	case app.CommandScan:
		cmdSet.BoolVar(&cfg.Prod, "prod", false, "Production mode: content-hashed output filenames.")
	case app.CommandManifest:
		cmdSet.StringVar(&cfg.StatsPath, "stats", "", "Bundler JSON stats file (webpack --json).")
	case app.CommandBundles:
		cmdSet.BoolVar(&cfg.CSS, "css", false, "Print stylesheet bundles instead of scripts.")
		positional = "ENTRY"
	default:
		return false, &ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q", cfg.Command)}
	}

	if err := cmdSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return true, nil
		}
		return false, &ExitError{Code: 2, Message: err.Error()}
	}

	extra := cmdSet.Args()
	if positional != "" && len(extra) > 0 {
		cfg.Entry = extra[0]
		extra = extra[1:]
	}
	if len(extra) > 0 {
		return false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected arguments for %s: %s", cfg.Command, strings.Join(extra, " "))}
	}
	return false, nil
}
