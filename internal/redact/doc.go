// Package redact strips likely secrets from diff text before it is sent to
// the review backend.
package redact
