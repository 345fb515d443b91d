package providers

import (
	"context"
	"errors"
	"time"
)

// maxAttempts bounds transport-level retries for rate-limited calls.
// This is independent of the review-level repair pass, which retries on
// invalid content rather than transport failures.
const maxAttempts = 3

type rateLimitError struct{}

func (e *rateLimitError) Error() string { return "rate limited" }

type authError struct {
	message string
}

func (e *authError) Error() string {
	return "authentication error: " + e.message
}

// IsAuthError checks if an error is an authentication error.
func IsAuthError(err error) bool {
	var ae *authError
	return errors.As(err, &ae)
}

// withRetry runs fn, retrying only rate-limit errors with exponential
// backoff. Auth errors and everything else return immediately.
func withRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		var rl *rateLimitError
		if !errors.As(lastErr, &rl) {
			return lastErr
		}
		if attempt == maxAttempts-1 {
			break
		}
		backoff := time.Duration(1<<uint(attempt)) * time.Second
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return lastErr
}
