// Package gitctx gathers staged and unstaged diffs plus repository metadata
// by shelling out to git.
package gitctx
