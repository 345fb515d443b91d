// Safecommit reviews staged git changes with a hosted LLM and gates commits
// on the result.
//
// It ships as a single binary with two roles: a backend service that talks
// to the model provider, and a client used from the terminal or a git
// pre-commit hook.
//
// Usage:
//
//	safecommit serve                  # run the review backend
//	safecommit review staged          # review staged changes
//	safecommit review unstaged        # review working tree changes
//	safecommit hook install           # install the pre-commit hook
//	safecommit config show            # print effective configuration
package main
