package server

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/decora-ai/decora/internal/config"
	"github.com/decora-ai/decora/internal/crew"
	"github.com/decora-ai/decora/internal/llm"
	"github.com/decora-ai/decora/internal/report"
	"github.com/decora-ai/decora/internal/search"
	"github.com/decora-ai/decora/internal/state"
	"github.com/decora-ai/decora/internal/tools"
	"github.com/decora-ai/decora/pkg/models"
)

// eventBuffer sizes the emitter and each subscriber channel.
const eventBuffer = 256

// retainedRuns caps how many finished runs keep their event history in
// memory for SSE replay. Older finished runs are evicted; late
// subscribers for those get a terminal event from the store instead.
const retainedRuns = 64

// RunnerConfig carries everything a background consultation needs.
type RunnerConfig struct {
	// Provider is the LLM backend, already rate-limited and cached.
	Provider llm.Provider
	// Store persists consultations and layout checks.
	Store *state.DB
	// Reports writes the plan artifacts.
	Reports *report.Writer
	// Search backs the web_search tool; nil disables it.
	Search *search.SerperClient
	// Scraper backs the scrape_website tool; nil disables it.
	Scraper *search.Scraper
	// Crew tunes the pipeline (iterations, verbosity).
	Crew config.CrewConfig
	// LLM tunes completions (temperature, max tokens).
	LLM config.LLMConfig
	// Logger receives debug lines; nil means no debug logging.
	Logger *crew.DebugLogger
}

// run tracks one in-flight or finished consultation's event stream.
type run struct {
	mu          sync.Mutex
	history     []crew.Event
	subscribers map[chan crew.Event]struct{}
	finished    bool
}

// RunManager starts consultations in background goroutines and fans
// their progress events out to SSE subscribers. Each run stays
// internally sequential; the manager only adds the per-run bookkeeping.
type RunManager struct {
	cfg  RunnerConfig
	defs atomic.Pointer[config.CrewDefs]

	mu       sync.Mutex
	runs     map[string]*run
	finished []string // finished run ids, oldest first
}

// NewRunManager creates a manager around the given dependencies.
func NewRunManager(cfg RunnerConfig, defs *config.CrewDefs) *RunManager {
	m := &RunManager{
		cfg:  cfg,
		runs: make(map[string]*run),
	}
	if defs == nil {
		defs = config.DefaultCrewDefs()
	}
	m.defs.Store(defs)
	return m
}

// SetDefs swaps the crew definitions used by future runs. In-flight
// runs keep the definitions they started with.
func (m *RunManager) SetDefs(defs *config.CrewDefs) {
	if defs != nil {
		m.defs.Store(defs)
	}
}

// Defs returns the definitions future runs will use.
func (m *RunManager) Defs() *config.CrewDefs {
	return m.defs.Load()
}

// Start records the consultation and launches it in the background,
// returning the new consultation id.
func (m *RunManager) Start(req models.ConsultationRequest) (string, error) {
	id := uuid.New().String()
	emitter := crew.NewEventEmitter(eventBuffer)
	c := crew.New(m.cfg.Provider,
		crew.WithConsultationID(id),
		crew.WithDefs(m.defs.Load()),
		crew.WithExecutor(m.executor(id)),
		crew.WithEmitter(emitter),
		crew.WithLogger(m.cfg.Logger),
		crew.WithMaxIterations(m.cfg.Crew.MaxToolIterations),
		crew.WithMaxTokens(int64(m.cfg.LLM.MaxTokens)),
		crew.WithTemperature(m.cfg.LLM.Temperature),
	)

	if err := m.cfg.Store.CreateConsultation(&models.Consultation{
		ID:       id,
		Request:  req,
		Status:   models.ConsultationPending,
		Provider: m.cfg.Provider.Name(),
		Model:    m.cfg.Provider.Model(),
	}); err != nil {
		return "", fmt.Errorf("create consultation: %w", err)
	}

	r := &run{subscribers: make(map[chan crew.Event]struct{})}
	m.mu.Lock()
	m.runs[id] = r
	m.mu.Unlock()

	go m.fanout(id, r, emitter)
	go m.execute(c, emitter, req)

	return id, nil
}

// execute drives one consultation to completion and persists the result.
func (m *RunManager) execute(c *crew.Crew, emitter *crew.EventEmitter, req models.ConsultationRequest) {
	defer emitter.Close()

	id := c.ConsultationID()
	if err := m.cfg.Store.StartConsultation(id); err != nil {
		m.cfg.Logger.Log("run %s: mark running: %v", id, err)
	}

	result, err := c.Kickoff(context.Background(), req)
	if err != nil {
		if ferr := m.cfg.Store.FailConsultation(id, err); ferr != nil {
			m.cfg.Logger.Log("run %s: mark failed: %v", id, ferr)
		}
		return
	}

	if _, err := m.cfg.Reports.Save(req, result.Plan); err != nil {
		if ferr := m.cfg.Store.FailConsultation(id, err); ferr != nil {
			m.cfg.Logger.Log("run %s: mark failed: %v", id, ferr)
		}
		return
	}

	if err := m.cfg.Store.CompleteConsultation(id, result.Plan); err != nil {
		m.cfg.Logger.Log("run %s: mark completed: %v", id, err)
	}
}

// executor builds the tool executor for one run, attributing layout
// checks to the consultation.
func (m *RunManager) executor(consultationID string) *tools.Executor {
	var recorder tools.LayoutRecorder
	if m.cfg.Store != nil {
		recorder = m.cfg.Store.Recorder(consultationID)
	}
	return tools.NewExecutor(m.cfg.Search, m.cfg.Scraper, recorder)
}

// fanout relays emitter events into the run's history and subscribers.
func (m *RunManager) fanout(id string, r *run, emitter *crew.EventEmitter) {
	for ev := range emitter.Events() {
		r.mu.Lock()
		r.history = append(r.history, ev)
		for ch := range r.subscribers {
			select {
			case ch <- ev:
			default: // slow subscriber, drop
			}
		}
		r.mu.Unlock()
	}

	r.mu.Lock()
	r.finished = true
	for ch := range r.subscribers {
		close(ch)
	}
	r.subscribers = make(map[chan crew.Event]struct{})
	r.mu.Unlock()

	m.retire(id)
}

// retire records a finished run and evicts the oldest ones beyond the
// retention cap so long-lived serve processes stay bounded.
func (m *RunManager) retire(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finished = append(m.finished, id)
	for len(m.finished) > retainedRuns {
		delete(m.runs, m.finished[0])
		m.finished = m.finished[1:]
	}
}

// Subscribe returns the events emitted so far and a channel for the
// rest. The channel is closed when the run finishes; unsubscribe must be
// called when the consumer goes away. ok is false for unknown or
// already-evicted runs.
func (m *RunManager) Subscribe(id string) (replay []crew.Event, events <-chan crew.Event, unsubscribe func(), ok bool) {
	m.mu.Lock()
	r, found := m.runs[id]
	m.mu.Unlock()
	if !found {
		return nil, nil, nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	replay = append([]crew.Event(nil), r.history...)
	if r.finished {
		closed := make(chan crew.Event)
		close(closed)
		return replay, closed, func() {}, true
	}

	ch := make(chan crew.Event, eventBuffer)
	r.subscribers[ch] = struct{}{}
	unsubscribe = func() {
		r.mu.Lock()
		delete(r.subscribers, ch)
		r.mu.Unlock()
	}
	return replay, ch, unsubscribe, true
}
