package crew

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/decora-ai/decora/internal/config"
	"github.com/decora-ai/decora/internal/llm"
	"github.com/decora-ai/decora/internal/tools"
	"github.com/decora-ai/decora/pkg/models"
)

// TaskOutput is the recorded result of one task in the pipeline.
type TaskOutput struct {
	// Task is the task name.
	Task string `json:"task"`
	// Agent is the role that worked the task.
	Agent models.AgentRole `json:"agent"`
	// AgentTitle is the agent's human-readable title.
	AgentTitle string `json:"agent_title"`
	// Output is the agent's final answer for the task.
	Output string `json:"output"`
	// ToolCalls is how many tool invocations the task made.
	ToolCalls int `json:"tool_calls"`
	// Iterations is how many completion calls the task took.
	Iterations int `json:"iterations"`
	// Duration is how long the task ran.
	Duration time.Duration `json:"duration"`
}

// Result is the outcome of one full consultation run.
type Result struct {
	// Plan is the final design plan produced by the last task.
	Plan *models.DesignPlan `json:"plan"`
	// TaskOutputs holds every task's output in pipeline order.
	TaskOutputs []TaskOutput `json:"task_outputs"`
	// Usage is the total LLM consumption for the run.
	Usage models.Usage `json:"usage"`
	// Duration is the wall-clock time of the run.
	Duration time.Duration `json:"duration"`
}

// Crew assembles the design team and runs consultations. Tasks execute
// sequentially in declared order; each task after the first receives the
// outputs of prior tasks as context. One Crew serves one run at a time.
type Crew struct {
	provider llm.Provider
	defs     *config.CrewDefs
	executor *tools.Executor
	tracker  *llm.TokenTracker
	emitter  *EventEmitter
	logger   *DebugLogger

	maxIterations  int
	maxTokens      int64
	temperature    float64
	consultationID string
}

// New creates a Crew around the given provider. Options customize the
// team definitions, tools, events, and tuning; the defaults give the
// built-in five-agent team with no tools configured.
func New(provider llm.Provider, opts ...Option) *Crew {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	defs := options.defs
	if defs == nil {
		defs = config.DefaultCrewDefs()
	}

	executor := options.executor
	if executor == nil {
		executor = tools.NewExecutor(nil, nil, nil)
	}

	logger := options.logger
	if logger == nil {
		logger = NopLogger()
	}

	id := options.consultationID
	if id == "" {
		id = uuid.New().String()
	}

	return &Crew{
		provider:       provider,
		defs:           defs,
		executor:       executor,
		tracker:        llm.NewTokenTracker(provider.Model()),
		emitter:        options.emitter,
		logger:         logger,
		maxIterations:  options.maxIterations,
		maxTokens:      options.maxTokens,
		temperature:    options.temperature,
		consultationID: id,
	}
}

// ConsultationID returns the identifier for this run.
func (c *Crew) ConsultationID() string {
	return c.consultationID
}

// Usage returns a snapshot of the run's LLM consumption so far.
func (c *Crew) Usage() models.Usage {
	return c.tracker.Usage()
}

// emit sends an event to the emitter, stamping run identity and time.
func (c *Crew) emit(ev Event) {
	if c.emitter == nil {
		return
	}
	ev.ConsultationID = c.consultationID
	ev.Timestamp = time.Now()
	if ev.Err != nil {
		ev.Error = ev.Err.Error()
	}
	c.emitter.Emit(ev)
}

// Kickoff runs the full consultation pipeline and returns the result.
// A failed completion or rendered prompt fails the whole run; the caller
// decides whether to rerun.
func (c *Crew) Kickoff(ctx context.Context, req models.ConsultationRequest) (*Result, error) {
	if err := c.defs.Validate(); err != nil {
		return nil, fmt.Errorf("crew definitions: %w", err)
	}

	start := time.Now()
	taskCount := len(c.defs.Tasks)

	c.logger.Log("consultation %s started: %s %.0f'x%.0f', budget $%d",
		c.consultationID, req.RoomType, req.RoomLength, req.RoomWidth, req.Budget)
	c.emit(Event{
		Type:      EventConsultationStarted,
		TaskCount: taskCount,
		Message:   fmt.Sprintf("Starting consultation for %s", req.RoomType.Display()),
	})

	outputs := make([]TaskOutput, 0, taskCount)

	for i, task := range c.defs.Tasks {
		if err := ctx.Err(); err != nil {
			c.failRun(task, i, taskCount, start, err)
			return nil, err
		}

		agent, ok := c.defs.AgentFor(task.Agent)
		if !ok {
			err := fmt.Errorf("task %s: no agent with role %s", task.Name, task.Agent)
			c.failRun(task, i, taskCount, start, err)
			return nil, err
		}

		out, err := c.runTask(ctx, task, agent, req, i, taskCount, outputs)
		if err != nil {
			c.failRun(task, i, taskCount, start, err)
			return nil, err
		}
		outputs = append(outputs, out)
	}

	usage := c.tracker.Usage()
	final := outputs[len(outputs)-1]

	plan := &models.DesignPlan{
		ConsultationID: c.consultationID,
		Report:         final.Output,
		Provider:       c.provider.Name(),
		Model:          c.provider.Model(),
		Usage:          usage,
		GeneratedAt:    time.Now(),
	}

	c.logger.Log("consultation %s done: %d tokens, $%.4f, %s",
		c.consultationID, usage.Total(), usage.Cost, time.Since(start).Round(time.Millisecond))
	c.emit(Event{
		Type:       EventConsultationDone,
		TaskCount:  taskCount,
		Message:    "Consultation complete",
		TokensUsed: usage.Total(),
		Cost:       usage.Cost,
		Duration:   time.Since(start),
	})

	return &Result{
		Plan:        plan,
		TaskOutputs: outputs,
		Usage:       usage,
		Duration:    time.Since(start),
	}, nil
}

// runTask renders the prompts for one task and drives the agent loop.
func (c *Crew) runTask(ctx context.Context, task models.TaskDef, agent models.AgentDef, req models.ConsultationRequest, index, count int, prior []TaskOutput) (TaskOutput, error) {
	c.logger.Log("task %d/%d started: %s (%s)", index+1, count, task.Name, task.Agent)
	c.emit(Event{
		Type:       EventTaskStarted,
		Task:       task.Name,
		TaskIndex:  index,
		TaskCount:  count,
		Agent:      task.Agent,
		AgentTitle: agent.Title,
		Message:    fmt.Sprintf("%s working on %s", agent.Title, task.Name),
	})

	description, err := renderDescription(task, req)
	if err != nil {
		return TaskOutput{}, err
	}
	prompt := buildUserPrompt(description, task.ExpectedOutput, prior)

	runner := NewAgentRunner(AgentRunnerConfig{
		Provider:      c.provider,
		Executor:      c.executor,
		Tracker:       c.tracker,
		MaxIterations: c.maxIterations,
		MaxTokens:     c.maxTokens,
		Temperature:   c.temperature,
	})
	runner.SetStreamHandler(func(ev StreamEvent) {
		c.relayStream(task, agent, index, count, ev)
	})

	taskStart := time.Now()
	res, err := runner.Run(ctx, agent, systemPrompt(agent), prompt)
	if err != nil {
		return TaskOutput{}, fmt.Errorf("task %s: %w", task.Name, err)
	}

	out := TaskOutput{
		Task:       task.Name,
		Agent:      task.Agent,
		AgentTitle: agent.Title,
		Output:     res.Output,
		ToolCalls:  res.ToolCalls,
		Iterations: res.Iterations,
		Duration:   time.Since(taskStart),
	}

	c.logger.Log("task %s completed in %s (%d iterations, %d tool calls, %d in / %d out tokens)",
		task.Name, out.Duration.Round(time.Millisecond), res.Iterations, res.ToolCalls, res.TokensIn, res.TokensOut)
	c.emit(Event{
		Type:       EventTaskCompleted,
		Task:       task.Name,
		TaskIndex:  index,
		TaskCount:  count,
		Agent:      task.Agent,
		AgentTitle: agent.Title,
		Message:    fmt.Sprintf("%s finished %s", agent.Title, task.Name),
		Output:     res.Output,
		TokensUsed: c.tracker.Usage().Total(),
		Cost:       c.tracker.Cost(),
		Duration:   out.Duration,
	})

	return out, nil
}

// relayStream converts runner stream events into crew events.
func (c *Crew) relayStream(task models.TaskDef, agent models.AgentDef, index, count int, ev StreamEvent) {
	switch ev.Type {
	case "text":
		c.emit(Event{
			Type:       EventOutputDelta,
			Task:       task.Name,
			TaskIndex:  index,
			TaskCount:  count,
			Agent:      task.Agent,
			AgentTitle: agent.Title,
			Output:     ev.Content,
		})
	case "tool_use":
		action := tools.FormatToolAction(ev.Tool, ev.Input)
		c.logger.Log("task %s tool call: %s", task.Name, action)
		c.emit(Event{
			Type:       EventToolInvoked,
			Task:       task.Name,
			TaskIndex:  index,
			TaskCount:  count,
			Agent:      task.Agent,
			AgentTitle: agent.Title,
			Tool:       ev.Tool,
			Action:     action,
			Message:    action,
		})
	case "tool_result":
		c.logger.Log("task %s tool result (%s): %s", task.Name, ev.Tool, ev.Content)
	case "error":
		c.logger.Log("task %s error: %s", task.Name, ev.Content)
	}
}

// failRun logs and emits the terminal failure events for a run.
func (c *Crew) failRun(task models.TaskDef, index, count int, start time.Time, err error) {
	c.logger.Log("task %s failed: %v", task.Name, err)
	c.emit(Event{
		Type:      EventTaskFailed,
		Task:      task.Name,
		TaskIndex: index,
		TaskCount: count,
		Agent:     task.Agent,
		Message:   fmt.Sprintf("Task %s failed", task.Name),
		Err:       err,
	})
	c.emit(Event{
		Type:       EventConsultationDone,
		TaskCount:  count,
		Message:    "Consultation failed",
		Err:        err,
		TokensUsed: c.tracker.Usage().Total(),
		Cost:       c.tracker.Cost(),
		Duration:   time.Since(start),
	})
}
