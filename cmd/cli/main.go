package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gookit/color"
	"github.com/specialistvlad/jsentry/internal/app"
	"github.com/specialistvlad/jsentry/internal/cli"
	"github.com/specialistvlad/jsentry/internal/hcl"
	"github.com/specialistvlad/jsentry/internal/yamlcfg"
)

// main is the entrypoint for the jsentry build tool.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		// Build misconfiguration must be impossible to miss.
		fmt.Fprintln(os.Stderr, color.Red.Sprint(err.Error()))
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW, errW io.Writer, args []string) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application panicked: %v", r)
		}
	}()

	loaders := app.Loaders{
		".hcl":  hcl.NewLoader(),
		".yml":  yamlcfg.NewLoader(),
		".yaml": yamlcfg.NewLoader(),
	}
	jsentry, err := app.NewApp(outW, errW, appConfig, loaders)
	if err != nil {
		return err
	}

	return jsentry.Run(context.Background())
}
