// Package config defines the format-agnostic settings model for the entry
// point build, together with the Loader interface that concrete file formats
// (HCL, YAML) implement.
//
// A config.Settings value is the single source of truth for the app-path
// resolver, the template scanner, the descriptor assembler and the manifest
// emitter. It is built once at startup and passed explicitly; nothing reads
// ambient global state.
package config
