package models

// TaskDef describes one unit of work in the consultation pipeline.
// Descriptions are text/template bodies rendered against the
// ConsultationRequest before being handed to the assigned agent.
type TaskDef struct {
	// Name is the stable identifier for this task.
	Name string `json:"name" yaml:"name"`
	// Agent is the role that executes this task.
	Agent AgentRole `json:"agent" yaml:"agent"`
	// Description is the templated task prompt.
	Description string `json:"description" yaml:"description"`
	// ExpectedOutput tells the model what shape of answer to produce.
	ExpectedOutput string `json:"expected_output" yaml:"expected_output"`
}

// TaskStatus represents the runtime state of a pipeline task.
type TaskStatus string

const (
	// TaskStatusPending indicates the task has not started.
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusRunning indicates the task is executing.
	TaskStatusRunning TaskStatus = "running"
	// TaskStatusDone indicates the task completed successfully.
	TaskStatusDone TaskStatus = "done"
	// TaskStatusFailed indicates the task failed.
	TaskStatusFailed TaskStatus = "failed"
)

// Valid returns true if the status is a known value.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusRunning, TaskStatusDone, TaskStatusFailed:
		return true
	default:
		return false
	}
}
