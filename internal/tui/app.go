package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/decora-ai/decora/internal/config"
	"github.com/decora-ai/decora/internal/crew"
	"github.com/decora-ai/decora/pkg/models"
)

// CrewEventMsg wraps a crew progress event for the TUI.
type CrewEventMsg struct {
	Event crew.Event
}

// RunDoneMsg signals that the consultation goroutine has returned.
type RunDoneMsg struct {
	Plan *models.DesignPlan
	Err  error
}

// outputTailLines is how many lines of agent output the tail shows.
const outputTailLines = 8

// taskRow is the display state of one pipeline task.
type taskRow struct {
	name       string
	agentTitle string
	status     models.TaskStatus
	action     string
	duration   time.Duration
}

// ConsultApp is the bubbletea model for the consultation progress view.
// It consumes crew events sent via Program.Send and renders one row per
// task, a live output tail, and a token/cost/elapsed footer.
type ConsultApp struct {
	tasks   []taskRow
	spinner spinner.Model

	outputLines []string
	partial     string

	tokensUsed int64
	cost       float64
	started    time.Time

	width  int
	height int

	done     bool
	success  bool
	errMsg   string
	plan     *models.DesignPlan
	quitting bool
}

// NewConsultApp creates the progress view for the given crew definitions.
// Task rows are seeded from the definitions so the full pipeline is
// visible before the first event arrives.
func NewConsultApp(defs *config.CrewDefs) *ConsultApp {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = activeStyle

	rows := make([]taskRow, 0, len(defs.Tasks))
	for _, task := range defs.Tasks {
		title := string(task.Agent)
		if agent, ok := defs.AgentFor(task.Agent); ok {
			title = agent.Title
		}
		rows = append(rows, taskRow{
			name:       task.Name,
			agentTitle: title,
			status:     models.TaskStatusPending,
		})
	}

	return &ConsultApp{
		tasks:   rows,
		spinner: sp,
		started: time.Now(),
	}
}

// Plan returns the design plan once the run completed successfully.
func (a *ConsultApp) Plan() *models.DesignPlan {
	return a.plan
}

// Err returns the failure message, empty on success.
func (a *ConsultApp) Err() string {
	return a.errMsg
}

// Init implements tea.Model.
func (a *ConsultApp) Init() tea.Cmd {
	return a.spinner.Tick
}

// Update implements tea.Model.
func (a *ConsultApp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			a.quitting = true
			return a, tea.Quit
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case CrewEventMsg:
		a.handleEvent(msg.Event)

	case RunDoneMsg:
		a.done = true
		a.success = msg.Err == nil
		a.plan = msg.Plan
		if msg.Err != nil {
			a.errMsg = msg.Err.Error()
		}
	}

	return a, nil
}

// handleEvent folds one crew event into the display state.
func (a *ConsultApp) handleEvent(ev crew.Event) {
	switch ev.Type {
	case crew.EventConsultationStarted:
		a.started = ev.Timestamp

	case crew.EventTaskStarted:
		if row := a.row(ev.TaskIndex); row != nil {
			row.status = models.TaskStatusRunning
			row.action = ""
		}

	case crew.EventTaskCompleted:
		if row := a.row(ev.TaskIndex); row != nil {
			row.status = models.TaskStatusDone
			row.action = ""
			row.duration = ev.Duration
		}
		a.tokensUsed = ev.TokensUsed
		a.cost = ev.Cost
		a.flushPartial()

	case crew.EventTaskFailed:
		if row := a.row(ev.TaskIndex); row != nil {
			row.status = models.TaskStatusFailed
		}
		a.flushPartial()
		if ev.Error != "" {
			a.appendOutput(failStyle.Render("error: " + ev.Error))
		}

	case crew.EventToolInvoked:
		if row := a.row(ev.TaskIndex); row != nil {
			row.action = ev.Action
		}
		a.flushPartial()
		a.appendOutput(dimStyle.Render("⚙ " + ev.Action))

	case crew.EventOutputDelta:
		a.appendDelta(ev.Output)

	case crew.EventConsultationDone:
		a.tokensUsed = ev.TokensUsed
		a.cost = ev.Cost
		a.flushPartial()
	}
}

func (a *ConsultApp) row(index int) *taskRow {
	if index < 0 || index >= len(a.tasks) {
		return nil
	}
	return &a.tasks[index]
}

// appendDelta accumulates streamed text, breaking it into tail lines.
func (a *ConsultApp) appendDelta(chunk string) {
	a.partial += chunk
	for {
		idx := strings.IndexByte(a.partial, '\n')
		if idx < 0 {
			break
		}
		a.appendOutput(a.partial[:idx])
		a.partial = a.partial[idx+1:]
	}
}

func (a *ConsultApp) flushPartial() {
	if a.partial != "" {
		a.appendOutput(a.partial)
		a.partial = ""
	}
}

func (a *ConsultApp) appendOutput(line string) {
	a.outputLines = append(a.outputLines, line)
	if len(a.outputLines) > outputTailLines {
		a.outputLines = a.outputLines[len(a.outputLines)-outputTailLines:]
	}
}

// View implements tea.Model.
func (a *ConsultApp) View() string {
	if a.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("decora"))
	b.WriteString(headerStyle.Render("  interior design consultation"))
	b.WriteString("\n\n")

	for _, row := range a.tasks {
		b.WriteString(a.viewTask(row))
		b.WriteString("\n")
	}

	if len(a.outputLines) > 0 {
		width := a.width - 4
		if width < 20 {
			width = 76
		}
		tail := strings.Join(a.outputLines, "\n")
		b.WriteString("\n")
		b.WriteString(outputBoxStyle.Width(width).Render(tail))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.viewFooter())
	return b.String()
}

// viewTask renders one task row with its status glyph.
func (a *ConsultApp) viewTask(row taskRow) string {
	var glyph, name string
	switch row.status {
	case models.TaskStatusRunning:
		glyph = a.spinner.View()
		name = activeStyle.Render(row.name)
	case models.TaskStatusDone:
		glyph = doneStyle.Render("✓")
		name = row.name
	case models.TaskStatusFailed:
		glyph = failStyle.Render("✗")
		name = failStyle.Render(row.name)
	default:
		glyph = dimStyle.Render("○")
		name = dimStyle.Render(row.name)
	}

	line := fmt.Sprintf("  %s %-16s %s", glyph, name, dimStyle.Render(row.agentTitle))
	if row.status == models.TaskStatusRunning && row.action != "" {
		line += "  " + dimStyle.Render(row.action)
	}
	if row.status == models.TaskStatusDone && row.duration > 0 {
		line += "  " + dimStyle.Render(row.duration.Round(time.Second).String())
	}
	return line
}

// viewFooter renders the stats line and final status.
func (a *ConsultApp) viewFooter() string {
	elapsed := time.Since(a.started).Round(time.Second)
	stats := fmt.Sprintf("tokens %d  ·  $%.4f  ·  %s", a.tokensUsed, a.cost, elapsed)

	if a.done {
		if a.success {
			return doneStyle.Render("✓ Consultation complete") + "  " +
				dimStyle.Render(stats) + "\n" + dimStyle.Render("Press q to exit")
		}
		return failStyle.Render("✗ Consultation failed: "+a.errMsg) + "\n" +
			dimStyle.Render("Press q to exit")
	}
	return dimStyle.Render(stats) + "  " + dimStyle.Render("· q to quit")
}

// NewProgram creates a bubbletea program around the progress view. The
// consultation goroutine feeds it with Send.
func NewProgram(defs *config.CrewDefs) (*tea.Program, *ConsultApp) {
	app := NewConsultApp(defs)
	p := tea.NewProgram(app, tea.WithAltScreen())
	return p, app
}
