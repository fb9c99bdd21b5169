// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It
// translates global flags and a subcommand into an app.Config.
package cli
