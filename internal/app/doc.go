// Package app contains the build tool's lifecycle: it loads the settings,
// configures logging and runs one command (scan, manifest or bundles),
// decoupled from the CLI entrypoint that constructs it.
package app
