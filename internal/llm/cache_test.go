package llm

import (
	"context"
	"path/filepath"
	"testing"
)

// fakeProvider returns a canned response and counts calls.
type fakeProvider struct {
	name  string
	model string
	resp  Response
	calls int
}

func (f *fakeProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	f.calls++
	resp := f.resp
	return &resp, nil
}

func (f *fakeProvider) Name() string  { return f.name }
func (f *fakeProvider) Model() string { return f.model }

func TestCacheKey_Deterministic(t *testing.T) {
	req := Request{
		System:      "You are a consultant.",
		Messages:    []Message{{Role: RoleUser, Content: "Design my room"}},
		MaxTokens:   4096,
		Temperature: 0.7,
	}

	if CacheKey("gpt-4", req) != CacheKey("gpt-4", req) {
		t.Error("same request should produce the same key")
	}
	if CacheKey("gpt-4", req) == CacheKey("grok-beta", req) {
		t.Error("different models should produce different keys")
	}

	warmer := req
	warmer.Temperature = 0.9
	if CacheKey("gpt-4", req) == CacheKey("gpt-4", warmer) {
		t.Error("different temperatures should produce different keys")
	}

	other := req
	other.Messages = []Message{{Role: RoleUser, Content: "Design my office"}}
	if CacheKey("gpt-4", req) == CacheKey("gpt-4", other) {
		t.Error("different messages should produce different keys")
	}
}

func TestResponseCache_RoundTrip(t *testing.T) {
	cache, err := OpenResponseCache(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("OpenResponseCache failed: %v", err)
	}
	defer cache.Close()

	resp := &Response{
		Content:      "A warm Scandinavian plan.",
		FinishReason: "stop",
		InputTokens:  120,
		OutputTokens: 80,
	}

	if err := cache.Put("key-1", "groq", "llama-3.3-70b-versatile", resp); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := cache.Get("key-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil for stored key")
	}
	if got.Content != resp.Content {
		t.Errorf("Content = %q, want %q", got.Content, resp.Content)
	}
	if got.FinishReason != "stop" {
		t.Errorf("FinishReason = %q, want stop", got.FinishReason)
	}
}

func TestResponseCache_Miss(t *testing.T) {
	cache, err := OpenResponseCache(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("OpenResponseCache failed: %v", err)
	}
	defer cache.Close()

	got, err := cache.Get("absent")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("Get = %+v, want nil for missing key", got)
	}
}

func TestCached_ServesSecondCallFromCache(t *testing.T) {
	cache, err := OpenResponseCache(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("OpenResponseCache failed: %v", err)
	}
	defer cache.Close()

	fake := &fakeProvider{
		name:  "groq",
		model: "llama-3.3-70b-versatile",
		resp: Response{
			Content:      "cached plan",
			FinishReason: "stop",
			InputTokens:  100,
			OutputTokens: 40,
		},
	}
	provider := Cached(fake, cache)

	req := Request{Messages: []Message{{Role: RoleUser, Content: "Design my room"}}}

	first, err := provider.Complete(context.Background(), req)
	if err != nil {
		t.Fatalf("first Complete failed: %v", err)
	}
	if first.InputTokens != 100 {
		t.Errorf("first InputTokens = %d, want 100", first.InputTokens)
	}

	second, err := provider.Complete(context.Background(), req)
	if err != nil {
		t.Fatalf("second Complete failed: %v", err)
	}
	if fake.calls != 1 {
		t.Errorf("provider calls = %d, want 1 (second call should hit cache)", fake.calls)
	}
	if second.Content != "cached plan" {
		t.Errorf("Content = %q, want cached plan", second.Content)
	}
	// Cache hits consume no tokens
	if second.InputTokens != 0 || second.OutputTokens != 0 {
		t.Errorf("cache hit tokens = %d/%d, want 0/0", second.InputTokens, second.OutputTokens)
	}
}

func TestCached_NilCachePassesThrough(t *testing.T) {
	fake := &fakeProvider{name: "groq", model: "m"}
	if got := Cached(fake, nil); got != Provider(fake) {
		t.Error("nil cache should return the provider unchanged")
	}
}
