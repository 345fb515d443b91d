// Package review contains the core types and client for LLM-based diff
// review.
//
// It defines the Finding, Severity, and Summary types, assembles the system,
// user, and repair prompts, parses and validates JSON responses from the
// model, and drives the bounded ask-validate-repair exchange: one initial
// call and at most one repair call, after which an invalid response is a
// permanent failure for that request.
//
// Summaries are always recomputed from validated findings; the model's own
// summary object is shape-checked and discarded.
package review
