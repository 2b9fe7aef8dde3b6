// Package config loads, normalizes, and validates the TOML configuration for
// subrec. Loading falls back to repository defaults when no file exists, so
// every command can run without prior setup.
package config
