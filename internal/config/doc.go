// Package config loads and validates the meetprep configuration.
//
// Configuration is read once at process start from a YAML file (default
// ~/.config/meetprep/config.yaml, overridable with --config) with MEETPREP_*
// environment variables taking precedence. The resulting Config value is
// passed explicitly into each component constructor; there is no ambient
// global lookup.
package config
