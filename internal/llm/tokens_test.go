package llm

import (
	"testing"
)

func TestTokenTracker_Add(t *testing.T) {
	tracker := NewTokenTracker("llama-3.3-70b-versatile")

	tracker.Add(100, 50)
	input, output := tracker.Total()

	if input != 100 {
		t.Errorf("Input tokens = %d, want 100", input)
	}
	if output != 50 {
		t.Errorf("Output tokens = %d, want 50", output)
	}
	if tracker.Calls() != 1 {
		t.Errorf("Calls = %d, want 1", tracker.Calls())
	}
}

func TestTokenTracker_AddMultiple(t *testing.T) {
	tracker := NewTokenTracker("gpt-4")

	tracker.Add(100, 50)
	tracker.Add(200, 100)
	tracker.Add(50, 25)

	input, output := tracker.Total()

	if input != 350 {
		t.Errorf("Input tokens = %d, want 350", input)
	}
	if output != 175 {
		t.Errorf("Output tokens = %d, want 175", output)
	}
	if tracker.Calls() != 3 {
		t.Errorf("Calls = %d, want 3", tracker.Calls())
	}
}

func TestTokenTracker_Reset(t *testing.T) {
	tracker := NewTokenTracker("gpt-4")

	tracker.Add(100, 50)
	tracker.Reset()

	input, output := tracker.Total()
	if input != 0 || output != 0 {
		t.Errorf("After reset: input=%d, output=%d; want 0, 0", input, output)
	}
	if tracker.Calls() != 0 {
		t.Errorf("Calls after reset = %d, want 0", tracker.Calls())
	}
}

func TestTokenTracker_Cost(t *testing.T) {
	tests := []struct {
		model string
		want  float64
	}{
		// 1M input + 1M output at each model's per-million rates
		{"llama-3.3-70b-versatile", 1.38},
		{"gpt-4", 90.0},
		{"grok-beta", 20.0},
		// Unknown models fall back to Sonnet-class rates
		{"claude-sonnet-4-20250514", 18.0},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			tracker := NewTokenTracker(tt.model)
			tracker.Add(1_000_000, 1_000_000)

			cost := tracker.Cost()

			epsilon := 0.000001
			if cost < tt.want-epsilon || cost > tt.want+epsilon {
				t.Errorf("Cost = %f, want %f", cost, tt.want)
			}
		})
	}
}

func TestTokenTracker_CostSmall(t *testing.T) {
	tracker := NewTokenTracker("claude-sonnet-4-20250514")

	// 1000 input at $3/1M = $0.003
	// 1000 output at $15/1M = $0.015
	tracker.Add(1000, 1000)

	cost := tracker.Cost()
	expected := 0.018

	epsilon := 0.000001
	if cost < expected-epsilon || cost > expected+epsilon {
		t.Errorf("Cost = %f, want %f (within %f)", cost, expected, epsilon)
	}
}

func TestTokenTracker_Usage(t *testing.T) {
	tracker := NewTokenTracker("llama-3.3-70b-versatile")

	tracker.Add(2000, 1000)
	tracker.Add(500, 250)

	usage := tracker.Usage()

	if usage.InputTokens != 2500 {
		t.Errorf("InputTokens = %d, want 2500", usage.InputTokens)
	}
	if usage.OutputTokens != 1250 {
		t.Errorf("OutputTokens = %d, want 1250", usage.OutputTokens)
	}
	if usage.Calls != 2 {
		t.Errorf("Calls = %d, want 2", usage.Calls)
	}
	if usage.Total() != 3750 {
		t.Errorf("Total() = %d, want 3750", usage.Total())
	}
	if usage.Cost <= 0 {
		t.Errorf("Cost = %f, want > 0", usage.Cost)
	}
}
