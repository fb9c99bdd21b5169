// Package hcl provides the HCL implementation of config.Loader. It parses a
// jsentry.hcl settings file, evaluates every attribute against a context that
// exposes base_dir and env, and converts the resulting cty values into a
// config.Overrides.
package hcl
