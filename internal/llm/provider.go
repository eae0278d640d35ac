// Package llm provides the chat completion providers behind the design
// crew. Groq, OpenAI, and X.AI share one OpenAI-compatible HTTP client;
// Anthropic (direct or via AWS Bedrock) goes through the official SDK.
package llm

import (
	"context"
	"encoding/json"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is a single chat message sent to or received from the model.
type Message struct {
	// Role is one of the Role* constants.
	Role string `json:"role"`
	// Content is the message text. For tool-role messages it holds the
	// tool result.
	Content string `json:"content"`
	// ToolCalls carries tool invocations on assistant messages.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	// ToolCallID links a tool-role message to the call it answers.
	ToolCallID string `json:"tool_call_id,omitempty"`
	// IsError marks a tool-role message as a failed execution.
	IsError bool `json:"is_error,omitempty"`
}

// ToolCall is one tool invocation requested by the model.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolDef describes a tool the model may call. Properties is the JSON
// schema properties object for the tool input.
type ToolDef struct {
	Name        string
	Description string
	Properties  map[string]interface{}
	Required    []string
}

// Request is one chat completion request.
type Request struct {
	// System is the system prompt, if any.
	System string
	// Messages is the conversation so far, oldest first.
	Messages []Message
	// Tools lists the tools the model may call.
	Tools []ToolDef
	// MaxTokens caps the completion length. Zero means provider default.
	MaxTokens int64
	// Temperature controls sampling. Zero means provider default.
	Temperature float64
}

// Response is the result of a completion.
type Response struct {
	// Content is the assistant text, possibly empty when the model only
	// requested tools.
	Content string
	// ToolCalls lists the tools the model wants run before it can
	// continue. Empty when the model is done.
	ToolCalls []ToolCall
	// FinishReason is the provider's native stop reason.
	FinishReason string
	// InputTokens and OutputTokens report usage for this call.
	InputTokens  int64
	OutputTokens int64
}

// Provider abstracts an LLM backend.
type Provider interface {
	// Complete sends a request and returns the full response.
	Complete(ctx context.Context, req Request) (*Response, error)

	// Name returns the provider name (e.g. "groq").
	Name() string

	// Model returns the model the provider completes with.
	Model() string
}
