package providers

import (
	"context"
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "k")
	t.Setenv("OPENAI_API_KEY", "k")

	for _, name := range []string{"anthropic", "openai"} {
		p, err := New(name, "model")
		if err != nil {
			t.Errorf("New(%q): %v", name, err)
			continue
		}
		if p.Name() != name {
			t.Errorf("Name() = %q, want %q", p.Name(), name)
		}
	}

	if _, err := New("gemini", "model"); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestWithRetry_NonRetryableReturnsImmediately(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), func() error {
		calls++
		return errors.New("fatal")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestWithRetry_AuthNotRetried(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), func() error {
		calls++
		return &authError{message: "nope"}
	})
	if !IsAuthError(err) {
		t.Errorf("expected auth error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestWithRetry_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := withRetry(ctx, func() error {
		return &rateLimitError{}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
