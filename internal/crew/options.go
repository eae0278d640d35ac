package crew

import (
	"github.com/decora-ai/decora/internal/config"
	"github.com/decora-ai/decora/internal/tools"
)

// Option configures a Crew. Use With* functions to create Options.
type Option func(*crewOptions)

// crewOptions holds all optional configuration applied during construction.
type crewOptions struct {
	defs           *config.CrewDefs
	executor       *tools.Executor
	emitter        *EventEmitter
	logger         *DebugLogger
	maxIterations  int
	maxTokens      int64
	temperature    float64
	consultationID string
}

func defaultOptions() *crewOptions {
	return &crewOptions{
		maxIterations: 5,
		maxTokens:     4096,
		temperature:   0.7,
	}
}

// WithDefs sets the agent and task definitions.
func WithDefs(d *config.CrewDefs) Option {
	return func(o *crewOptions) { o.defs = d }
}

// WithExecutor sets the tool executor shared by all agents.
func WithExecutor(e *tools.Executor) Option {
	return func(o *crewOptions) { o.executor = e }
}

// WithEmitter sets the emitter that receives progress events.
func WithEmitter(e *EventEmitter) Option {
	return func(o *crewOptions) { o.emitter = e }
}

// WithLogger sets the debug logger.
func WithLogger(l *DebugLogger) Option {
	return func(o *crewOptions) { o.logger = l }
}

// WithMaxIterations caps completion calls per task.
func WithMaxIterations(n int) Option {
	return func(o *crewOptions) {
		if n > 0 {
			o.maxIterations = n
		}
	}
}

// WithMaxTokens caps each completion's length.
func WithMaxTokens(n int64) Option {
	return func(o *crewOptions) {
		if n > 0 {
			o.maxTokens = n
		}
	}
}

// WithTemperature sets the sampling temperature for all agents.
func WithTemperature(t float64) Option {
	return func(o *crewOptions) { o.temperature = t }
}

// WithConsultationID pins the run identifier instead of generating one.
func WithConsultationID(id string) Option {
	return func(o *crewOptions) { o.consultationID = id }
}
