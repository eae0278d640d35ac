package crew

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/decora-ai/decora/internal/llm"
	"github.com/decora-ai/decora/internal/tools"
	"github.com/decora-ai/decora/pkg/models"
)

// AgentRunner manages the completion call and tool execution cycle for
// one agent working one task.
type AgentRunner struct {
	provider      llm.Provider
	executor      *tools.Executor
	tracker       *llm.TokenTracker
	onStream      func(StreamEvent)
	maxIterations int
	maxTokens     int64
	temperature   float64
}

// StreamEvent represents an event during agent execution for streaming to UI.
type StreamEvent struct {
	Type    string // "text", "tool_use", "tool_result", "done", "error"
	Content string
	Tool    string
	Input   json.RawMessage
}

// RunResult contains the results of one agent run.
type RunResult struct {
	Output     string
	TokensIn   int64
	TokensOut  int64
	ToolCalls  int
	Iterations int
}

// AgentRunnerConfig contains configuration for the agent runner.
type AgentRunnerConfig struct {
	Provider    llm.Provider
	Executor    *tools.Executor
	Tracker     *llm.TokenTracker
	// MaxIterations caps completion calls per task (0 = default).
	MaxIterations int
	// MaxTokens caps each completion (0 = default).
	MaxTokens   int64
	Temperature float64
}

// NewAgentRunner creates a new agent runner with the given configuration.
func NewAgentRunner(cfg AgentRunnerConfig) *AgentRunner {
	maxIter := cfg.MaxIterations
	if maxIter == 0 {
		maxIter = 5 // Default max tool iterations per task
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	executor := cfg.Executor
	if executor == nil {
		executor = tools.NewExecutor(nil, nil, nil)
	}

	return &AgentRunner{
		provider:      cfg.Provider,
		executor:      executor,
		tracker:       cfg.Tracker,
		maxIterations: maxIter,
		maxTokens:     maxTokens,
		temperature:   cfg.Temperature,
	}
}

// SetStreamHandler sets a callback for streaming events during execution.
func (r *AgentRunner) SetStreamHandler(fn func(StreamEvent)) {
	r.onStream = fn
}

// emit sends a stream event if a handler is configured.
func (r *AgentRunner) emit(event StreamEvent) {
	if r.onStream != nil {
		r.onStream(event)
	}
}

// Run executes the tool loop for one agent with the given prompts.
func (r *AgentRunner) Run(ctx context.Context, agent models.AgentDef, systemPrompt, userPrompt string) (*RunResult, error) {
	result := &RunResult{}

	toolDefs := tools.ForAgent(&agent)

	// Build initial messages
	messages := []llm.Message{
		{Role: llm.RoleUser, Content: userPrompt},
	}

	// Agent loop
	for result.Iterations < r.maxIterations {
		result.Iterations++

		resp, err := r.provider.Complete(ctx, llm.Request{
			System:      systemPrompt,
			Messages:    messages,
			Tools:       toolDefs,
			MaxTokens:   r.maxTokens,
			Temperature: r.temperature,
		})
		if err != nil {
			r.emit(StreamEvent{Type: "error", Content: err.Error()})
			return result, fmt.Errorf("completion failed: %w", err)
		}

		// Track tokens
		result.TokensIn += resp.InputTokens
		result.TokensOut += resp.OutputTokens
		if r.tracker != nil {
			r.tracker.Add(resp.InputTokens, resp.OutputTokens)
		}

		if resp.Content != "" {
			r.emit(StreamEvent{Type: "text", Content: resp.Content})
		}

		// Check if done (no more tool use)
		if len(resp.ToolCalls) == 0 {
			result.Output = resp.Content
			r.emit(StreamEvent{Type: "done"})
			return result, nil
		}

		// Continue conversation with tool results
		messages = append(messages, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		for _, call := range resp.ToolCalls {
			result.ToolCalls++

			r.emit(StreamEvent{
				Type:  "tool_use",
				Tool:  call.Name,
				Input: call.Arguments,
			})

			// Execute tool
			toolResult := r.executor.Execute(ctx, call.Name, call.Arguments)
			r.emit(StreamEvent{
				Type:    "tool_result",
				Tool:    call.Name,
				Content: truncateForDisplay(toolResult.Content),
			})

			messages = append(messages, llm.Message{
				Role:       llm.RoleTool,
				Content:    toolResult.Content,
				ToolCallID: call.ID,
				IsError:    toolResult.IsError,
			})
		}
	}

	return result, fmt.Errorf("max iterations (%d) reached", r.maxIterations)
}

func truncateForDisplay(s string) string {
	if len(s) > 500 {
		return s[:500] + "..."
	}
	return s
}
