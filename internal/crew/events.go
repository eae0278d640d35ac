// Package crew runs the multi-agent design consultation pipeline.
package crew

import (
	"time"

	"github.com/decora-ai/decora/pkg/models"
)

// EventType identifies the kind of progress event.
type EventType string

const (
	// EventConsultationStarted fires once when the crew begins a run.
	EventConsultationStarted EventType = "consultation_started"
	// EventTaskStarted fires when a task begins.
	EventTaskStarted EventType = "task_started"
	// EventTaskCompleted fires when a task produces its output.
	EventTaskCompleted EventType = "task_completed"
	// EventTaskFailed fires when a task ends with an error.
	EventTaskFailed EventType = "task_failed"
	// EventToolInvoked fires when an agent calls a tool.
	EventToolInvoked EventType = "tool_invoked"
	// EventOutputDelta carries a chunk of agent text as it arrives.
	EventOutputDelta EventType = "output_delta"
	// EventConsultationDone fires once when the run reaches a terminal
	// state, success or failure.
	EventConsultationDone EventType = "consultation_done"
)

// Event is one progress update emitted during a consultation run.
// Consumers include the TUI, the headless printer, and the web SSE
// stream; fields are populated according to Type.
type Event struct {
	// Type identifies the kind of event.
	Type EventType `json:"type"`
	// ConsultationID links the event to its run.
	ConsultationID string `json:"consultation_id,omitempty"`
	// Task is the task name for task-scoped events.
	Task string `json:"task,omitempty"`
	// TaskIndex is the zero-based position of the task in the pipeline.
	TaskIndex int `json:"task_index,omitempty"`
	// TaskCount is the total number of tasks in the pipeline.
	TaskCount int `json:"task_count,omitempty"`
	// Agent is the role of the agent working the task.
	Agent models.AgentRole `json:"agent,omitempty"`
	// AgentTitle is the agent's human-readable title.
	AgentTitle string `json:"agent_title,omitempty"`
	// Message is a human-readable description of the event.
	Message string `json:"message,omitempty"`
	// Output carries the task output (task_completed) or a text chunk
	// (output_delta).
	Output string `json:"output,omitempty"`
	// Tool is the tool name for tool_invoked events.
	Tool string `json:"tool,omitempty"`
	// Action is a short display line for the tool call, e.g.
	// "Searching: scandinavian sofa".
	Action string `json:"action,omitempty"`
	// Err holds the failure for task_failed and failed done events.
	Err error `json:"-"`
	// Error is the failure message, mirrored from Err for JSON consumers.
	Error string `json:"error,omitempty"`
	// TokensUsed is the cumulative token count at emission time.
	TokensUsed int64 `json:"tokens_used,omitempty"`
	// Cost is the cumulative estimated cost at emission time.
	Cost float64 `json:"cost,omitempty"`
	// Duration is how long the task or run took, on completion events.
	Duration time.Duration `json:"duration,omitempty"`
	// Timestamp is when the event was emitted.
	Timestamp time.Time `json:"timestamp"`
}
