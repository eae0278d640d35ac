package llm

import (
	"sync"

	"github.com/decora-ai/decora/pkg/models"
)

// modelRates holds approximate per-million-token pricing, input then
// output. Updated as published pricing changes.
var modelRates = map[string][2]float64{
	"llama-3.3-70b-versatile": {0.59, 0.79},
	"gpt-4":                   {30.0, 60.0},
	"grok-beta":               {5.0, 15.0},
}

// Default rates cover the Claude Sonnet class used by the Anthropic and
// Bedrock providers.
const (
	defaultInputRate  = 3.0
	defaultOutputRate = 15.0
)

// TokenTracker tracks token usage across API calls.
type TokenTracker struct {
	mu         sync.Mutex
	inputTok   int64
	outputTok  int64
	calls      int
	inputRate  float64
	outputRate float64
}

// NewTokenTracker creates a tracker priced for the given model. Unknown
// models are costed at Sonnet-class rates.
func NewTokenTracker(model string) *TokenTracker {
	in, out := defaultInputRate, defaultOutputRate
	if rates, ok := modelRates[model]; ok {
		in, out = rates[0], rates[1]
	}
	return &TokenTracker{inputRate: in, outputRate: out}
}

// Add records token usage from an API call.
func (t *TokenTracker) Add(input, output int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inputTok += input
	t.outputTok += output
	t.calls++
}

// Total returns the total input and output tokens tracked.
func (t *TokenTracker) Total() (input, output int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inputTok, t.outputTok
}

// Calls returns the number of API calls made.
func (t *TokenTracker) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

// Reset clears all tracked token usage.
func (t *TokenTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inputTok = 0
	t.outputTok = 0
	t.calls = 0
}

// Cost estimates the cost in USD at the tracker's model rates.
func (t *TokenTracker) Cost() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cost()
}

// cost computes the estimate. Callers must hold mu.
func (t *TokenTracker) cost() float64 {
	inputCost := float64(t.inputTok) / 1_000_000 * t.inputRate
	outputCost := float64(t.outputTok) / 1_000_000 * t.outputRate
	return inputCost + outputCost
}

// Usage returns a snapshot of the tracked consumption.
func (t *TokenTracker) Usage() models.Usage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return models.Usage{
		InputTokens:  t.inputTok,
		OutputTokens: t.outputTok,
		Calls:        t.calls,
		Cost:         t.cost(),
	}
}
