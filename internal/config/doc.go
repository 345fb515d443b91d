// Package config loads safecommit configuration by merging defaults, the
// JSON config file, SAFECOMMIT_* environment variables, and CLI flag
// overrides, in that order of increasing precedence.
package config
