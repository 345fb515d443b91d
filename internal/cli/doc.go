// Package cli wires the cobra command tree: serve, review, hook, config,
// cache, and version. Command handlers set a package-level exit code rather
// than calling os.Exit so deferred cleanup always runs.
package cli
