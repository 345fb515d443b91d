// Package cache provides file-based caching of backend review responses on
// the client side, keyed by server URL, repository, and diff content.
package cache
