// Package providers implements the Reviewer interface for each supported
// LLM provider.
//
// Supported providers: Anthropic (Claude) and OpenAI (GPT). Both share a
// retry helper that backs off on rate limits only. Base URLs are
// overridable through the environment so tests can redirect calls to local
// httptest servers without making live API requests.
//
// Use [New] to obtain a Reviewer by provider name and model string.
package providers
