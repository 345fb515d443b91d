// Package output renders review reports as text, JSON, or markdown.
package output
