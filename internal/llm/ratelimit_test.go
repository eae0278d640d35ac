package llm

import (
	"context"
	"testing"
	"time"
)

func TestRateLimited_ZeroRPMPassesThrough(t *testing.T) {
	fake := &fakeProvider{name: "groq", model: "m"}

	if got := RateLimited(fake, 0); got != Provider(fake) {
		t.Error("zero maxRPM should return the provider unchanged")
	}
	if got := RateLimited(fake, -1); got != Provider(fake) {
		t.Error("negative maxRPM should return the provider unchanged")
	}
}

func TestRateLimited_FirstCallImmediate(t *testing.T) {
	fake := &fakeProvider{name: "groq", model: "m", resp: Response{Content: "ok"}}
	provider := RateLimited(fake, 10)

	start := time.Now()
	resp, err := provider.Complete(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if resp.Content != "ok" {
		t.Errorf("Content = %q, want ok", resp.Content)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("first call took %v, want immediate", elapsed)
	}
}

func TestRateLimited_CancelledContext(t *testing.T) {
	fake := &fakeProvider{name: "groq", model: "m"}
	provider := RateLimited(fake, 1)

	// First call drains the burst token.
	if _, err := provider.Complete(context.Background(), Request{}); err != nil {
		t.Fatalf("first Complete failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := provider.Complete(ctx, Request{}); err == nil {
		t.Fatal("expected error when waiting on a cancelled context")
	}
	if fake.calls != 1 {
		t.Errorf("provider calls = %d, want 1", fake.calls)
	}
}

func TestRateLimited_KeepsNameAndModel(t *testing.T) {
	fake := &fakeProvider{name: "groq", model: "llama-3.3-70b-versatile"}
	provider := RateLimited(fake, 10)

	if provider.Name() != "groq" {
		t.Errorf("Name() = %q, want groq", provider.Name())
	}
	if provider.Model() != "llama-3.3-70b-versatile" {
		t.Errorf("Model() = %q, want llama-3.3-70b-versatile", provider.Model())
	}
}
