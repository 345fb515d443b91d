package providers

import (
	"context"
	"fmt"
)

// ReviewRequest contains the data sent to an LLM for review.
type ReviewRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
}

// ReviewResponse contains the raw response from an LLM.
type ReviewResponse struct {
	Content    string
	TokensUsed int
}

// Reviewer is the provider abstraction interface: send a prompt, get text.
// Everything above this interface treats the model as a black box.
type Reviewer interface {
	Review(ctx context.Context, req ReviewRequest) (ReviewResponse, error)
	Name() string
}

// New creates a provider by name. The provider reads its API key from the
// environment and fails construction when the key is absent.
func New(provider, model string) (Reviewer, error) {
	switch provider {
	case "anthropic":
		return NewAnthropic(model)
	case "openai":
		return NewOpenAI(model)
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
