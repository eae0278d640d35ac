package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/decora-ai/decora/internal/config"
)

// Default models for the OpenAI-compatible providers.
const (
	DefaultGroqModel   = "llama-3.3-70b-versatile"
	DefaultOpenAIModel = "gpt-4"
	DefaultXAIModel    = "grok-beta"
)

// Endpoints for the OpenAI-compatible providers.
const (
	groqEndpoint   = "https://api.groq.com/openai/v1"
	openaiEndpoint = "https://api.openai.com/v1"
	xaiEndpoint    = "https://api.x.ai/v1"
)

// OpenAIProvider implements Provider using the OpenAI-compatible chat
// completions API. Groq and X.AI speak the same protocol, so one client
// covers all three.
type OpenAIProvider struct {
	name     string
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

// NewGroq creates a provider for the Groq API.
func NewGroq(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = DefaultGroqModel
	}
	return newOpenAICompat(config.ProviderGroq, groqEndpoint, apiKey, model)
}

// NewOpenAI creates a provider for the OpenAI API.
func NewOpenAI(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = DefaultOpenAIModel
	}
	return newOpenAICompat(config.ProviderOpenAI, openaiEndpoint, apiKey, model)
}

// NewXAI creates a provider for the X.AI (Grok) API.
func NewXAI(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = DefaultXAIModel
	}
	return newOpenAICompat(config.ProviderXAI, xaiEndpoint, apiKey, model)
}

// NewOpenAICompatible creates a provider for any endpoint that speaks the
// OpenAI chat completions protocol. Used in tests and for self-hosted
// gateways.
func NewOpenAICompatible(name, endpoint, apiKey, model string) *OpenAIProvider {
	return newOpenAICompat(name, endpoint, apiKey, model)
}

func newOpenAICompat(name, endpoint, apiKey, model string) *OpenAIProvider {
	return &OpenAIProvider{
		name:     name,
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		model:    model,
		client:   &http.Client{},
	}
}

func (p *OpenAIProvider) Name() string  { return p.name }
func (p *OpenAIProvider) Model() string { return p.model }

// chatRequest is the request body for the chat completions API.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int64         `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	Tools       []chatTool    `json:"tools,omitempty"`
}

type chatMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	ToolCalls  []chatToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
}

type chatTool struct {
	Type     string       `json:"type"`
	Function chatFunction `json:"function"`
}

type chatFunction struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// chatToolCall carries function arguments as a JSON-encoded string, per
// the OpenAI wire format.
type chatToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function chatToolCallFunc `json:"function"`
}

type chatToolCallFunc struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// chatResponse is the response body for non-streaming completions.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content   string         `json:"content"`
			ToolCalls []chatToolCall `json:"tool_calls"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends a chat completion request and returns the full response.
func (p *OpenAIProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	body := chatRequest{
		Model:       p.model,
		Messages:    toChatMessages(req.System, req.Messages),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Tools:       toChatTools(req.Tools),
	}

	bodyJSON, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"/chat/completions", strings.NewReader(string(bodyJSON)))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var chat chatResponse
	if err := json.Unmarshal(respBody, &chat); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if chat.Error != nil {
		return nil, fmt.Errorf("api error: %s", chat.Error.Message)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	choice := chat.Choices[0]
	out := &Response{
		Content:      choice.Message.Content,
		FinishReason: choice.FinishReason,
		InputTokens:  chat.Usage.PromptTokens,
		OutputTokens: chat.Usage.CompletionTokens,
	}
	for _, tc := range choice.Message.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: json.RawMessage(tc.Function.Arguments),
		})
	}
	return out, nil
}

func toChatMessages(system string, messages []Message) []chatMessage {
	out := make([]chatMessage, 0, len(messages)+1)
	if system != "" {
		out = append(out, chatMessage{Role: RoleSystem, Content: system})
	}
	for _, m := range messages {
		cm := chatMessage{Role: m.Role, Content: m.Content, ToolCallID: m.ToolCallID}
		for _, tc := range m.ToolCalls {
			cm.ToolCalls = append(cm.ToolCalls, chatToolCall{
				ID:   tc.ID,
				Type: "function",
				Function: chatToolCallFunc{
					Name:      tc.Name,
					Arguments: string(tc.Arguments),
				},
			})
		}
		out = append(out, cm)
	}
	return out
}

func toChatTools(tools []ToolDef) []chatTool {
	if len(tools) == 0 {
		return nil
	}
	out := make([]chatTool, 0, len(tools))
	for _, t := range tools {
		params := map[string]interface{}{
			"type":       "object",
			"properties": t.Properties,
		}
		if len(t.Required) > 0 {
			params["required"] = t.Required
		}
		out = append(out, chatTool{
			Type: "function",
			Function: chatFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  params,
			},
		})
	}
	return out
}
