package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/decora-ai/decora/internal/config"
	"github.com/decora-ai/decora/internal/crew"
	"github.com/decora-ai/decora/internal/report"
	"github.com/decora-ai/decora/internal/tui"
	"github.com/decora-ai/decora/pkg/models"
)

var (
	consultRoomType    string
	consultLength      float64
	consultWidth       float64
	consultHeight      float64
	consultWindows     string
	consultDoors       string
	consultStyle       string
	consultColors      string
	consultMustHaves   string
	consultAvoid       string
	consultBudget      int
	consultHeadless    bool
	consultInteractive bool
	consultProvider    string
	consultModel       string
	consultDebug       bool
)

var consultCmd = &cobra.Command{
	Use:   "consult",
	Short: "Run an interior design consultation",
	Long: `Run a full five-agent design consultation and save the design plan.

With no flags this runs the sample consultation: a 15x12 living room,
Modern Scandinavian style, $4,000 budget. Use flags to describe your own
room, or --interactive for a guided intake form.

The final plan is saved under the reports directory
(outputs/reports by default) along with a metadata JSON sidecar.`,
	RunE: runConsult,
}

func init() {
	defaults := models.DefaultConsultationRequest()
	consultCmd.Flags().StringVar(&consultRoomType, "room-type", string(defaults.RoomType), "Room type: living_room, bedroom, office, dining_room, kitchen, guest_room")
	consultCmd.Flags().Float64Var(&consultLength, "length", defaults.RoomLength, "Room length in feet (6-50)")
	consultCmd.Flags().Float64Var(&consultWidth, "width", defaults.RoomWidth, "Room width in feet (6-50)")
	consultCmd.Flags().Float64Var(&consultHeight, "height", defaults.RoomHeight, "Ceiling height in feet (7-15)")
	consultCmd.Flags().StringVar(&consultWindows, "windows", defaults.Windows, "Window locations and sizes")
	consultCmd.Flags().StringVar(&consultDoors, "doors", defaults.Doors, "Door locations")
	consultCmd.Flags().StringVar(&consultStyle, "style", defaults.StylePreference, "Design style preference")
	consultCmd.Flags().StringVar(&consultColors, "colors", defaults.ColorPreference, "Color preferences")
	consultCmd.Flags().StringVar(&consultMustHaves, "must-haves", defaults.MustHaves, "Required furniture or features")
	consultCmd.Flags().StringVar(&consultAvoid, "avoid", defaults.Avoid, "Styles or items to avoid")
	consultCmd.Flags().IntVar(&consultBudget, "budget", defaults.Budget, "Budget in USD (500-50000)")
	consultCmd.Flags().BoolVar(&consultHeadless, "headless", false, "Plain output without the TUI")
	consultCmd.Flags().BoolVar(&consultInteractive, "interactive", false, "Collect the request with an intake form")
	consultCmd.Flags().StringVar(&consultProvider, "provider", "", "Force LLM provider: groq, openai, xai, anthropic, bedrock")
	consultCmd.Flags().StringVar(&consultModel, "model", "", "Override the provider's default model")
	consultCmd.Flags().BoolVar(&consultDebug, "debug", false, "Write a debug log under outputs/logs")
}

func runConsult(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if consultProvider != "" {
		cfg.LLM.Provider = consultProvider
	}
	if consultModel != "" {
		cfg.LLM.Model = consultModel
	}
	if consultDebug {
		cfg.Crew.Verbose = true
	}

	req := consultRequest()
	if consultInteractive {
		submitted, ok, err := tui.RunForm(req)
		if err != nil {
			return fmt.Errorf("intake form: %w", err)
		}
		if !ok {
			fmt.Println("Consultation cancelled.")
			return nil
		}
		req = submitted
	}
	if err := req.Validate(); err != nil {
		return err
	}

	provider, cleanup, err := buildProvider(cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	if err := requireSerperKey(cfg); err != nil {
		return err
	}
	announceProvider(provider)

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	logger := crew.NopLogger()
	if cfg.Crew.Verbose {
		path := filepath.Join(cfg.Reports.LogsDir,
			fmt.Sprintf("consult_%s.log", time.Now().Format("20060102_150405")))
		if fileLogger, err := crew.NewDebugLogger(path); err == nil {
			logger = fileLogger
			defer logger.Close()
			fmt.Printf("Debug log: %s\n", path)
		} else {
			fmt.Fprintf(os.Stderr, "warning: debug log disabled: %v\n", err)
		}
	}

	id := uuid.New().String()
	if err := db.CreateConsultation(&models.Consultation{
		ID:       id,
		Request:  req,
		Status:   models.ConsultationPending,
		Provider: provider.Name(),
		Model:    provider.Model(),
	}); err != nil {
		return fmt.Errorf("record consultation: %w", err)
	}

	defs, err := loadDefs(cfg)
	if err != nil {
		return err
	}

	emitter := crew.NewEventEmitter(256)
	c := crew.New(provider,
		crew.WithConsultationID(id),
		crew.WithDefs(defs),
		crew.WithExecutor(buildExecutor(cfg, db.Recorder(id))),
		crew.WithEmitter(emitter),
		crew.WithLogger(logger),
		crew.WithMaxIterations(cfg.Crew.MaxToolIterations),
		crew.WithMaxTokens(int64(cfg.LLM.MaxTokens)),
		crew.WithTemperature(cfg.LLM.Temperature),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := db.StartConsultation(id); err != nil {
		fmt.Fprintf(os.Stderr, "warning: mark running: %v\n", err)
	}

	writer := report.NewWriter(cfg.Reports.Dir)
	var result *crew.Result
	if consultHeadless {
		result, err = runHeadless(ctx, c, emitter, req)
	} else {
		result, err = runWithTUI(ctx, c, emitter, defs, req)
	}

	if err != nil {
		if ferr := db.FailConsultation(id, err); ferr != nil {
			fmt.Fprintf(os.Stderr, "warning: mark failed: %v\n", ferr)
		}
		return fmt.Errorf("consultation failed: %w", err)
	}

	reportFile, err := writer.Save(req, result.Plan)
	if err != nil {
		if ferr := db.FailConsultation(id, err); ferr != nil {
			fmt.Fprintf(os.Stderr, "warning: mark failed: %v\n", ferr)
		}
		return fmt.Errorf("save report: %w", err)
	}
	if err := db.CompleteConsultation(id, result.Plan); err != nil {
		fmt.Fprintf(os.Stderr, "warning: mark completed: %v\n", err)
	}

	printSummary(result, reportFile)
	return nil
}

// consultRequest builds the request from the command's flags.
func consultRequest() models.ConsultationRequest {
	return models.ConsultationRequest{
		RoomType:        models.NormalizeRoomType(consultRoomType),
		RoomLength:      consultLength,
		RoomWidth:       consultWidth,
		RoomHeight:      consultHeight,
		Windows:         consultWindows,
		Doors:           consultDoors,
		StylePreference: consultStyle,
		ColorPreference: consultColors,
		MustHaves:       consultMustHaves,
		Avoid:           consultAvoid,
		Budget:          consultBudget,
	}
}

// runHeadless prints crew progress as plain colored lines.
func runHeadless(ctx context.Context, c *crew.Crew, emitter *crew.EventEmitter, req models.ConsultationRequest) (*crew.Result, error) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range emitter.Events() {
			printEvent(ev)
		}
	}()

	result, err := c.Kickoff(ctx, req)
	emitter.Close()
	<-done
	return result, err
}

// printEvent renders one crew event for headless mode.
func printEvent(ev crew.Event) {
	switch ev.Type {
	case crew.EventConsultationStarted:
		color.Cyan("▶ %s", ev.Message)
	case crew.EventTaskStarted:
		fmt.Printf("  [%d/%d] %s\n", ev.TaskIndex+1, ev.TaskCount, ev.Message)
	case crew.EventToolInvoked:
		color.HiBlack("        %s", ev.Action)
	case crew.EventTaskCompleted:
		color.Green("      ✓ %s (%s)", ev.Task, ev.Duration.Round(time.Second))
	case crew.EventTaskFailed:
		color.Red("      ✗ %s: %s", ev.Task, ev.Error)
	case crew.EventConsultationDone:
		if ev.Error == "" {
			color.Green("✓ %s", ev.Message)
		}
	}
}

// runWithTUI shows the progress view while the crew works.
func runWithTUI(ctx context.Context, c *crew.Crew, emitter *crew.EventEmitter, defs *config.CrewDefs, req models.ConsultationRequest) (*crew.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program, _ := tui.NewProgram(defs)

	type outcome struct {
		result *crew.Result
		err    error
	}
	resultCh := make(chan outcome, 1)

	go func() {
		for ev := range emitter.Events() {
			program.Send(tui.CrewEventMsg{Event: ev})
		}
	}()

	go func() {
		result, err := c.Kickoff(ctx, req)
		emitter.Close()
		var plan *models.DesignPlan
		if result != nil {
			plan = result.Plan
		}
		program.Send(tui.RunDoneMsg{Plan: plan, Err: err})
		resultCh <- outcome{result: result, err: err}
	}()

	if _, err := program.Run(); err != nil {
		cancel()
		<-resultCh
		return nil, fmt.Errorf("tui: %w", err)
	}

	// Quitting the view early cancels the run; a finished run is
	// unaffected.
	cancel()
	out := <-resultCh
	return out.result, out.err
}

// printSummary reports the saved artifacts and run cost.
func printSummary(result *crew.Result, reportFile string) {
	usage := result.Usage
	fmt.Println()
	color.Green("✓ Design plan saved: %s", reportFile)
	fmt.Printf("  Provider: %s (%s)\n", result.Plan.Provider, result.Plan.Model)
	fmt.Printf("  Tokens: %d in / %d out, estimated cost $%.4f\n",
		usage.InputTokens, usage.OutputTokens, usage.Cost)
	fmt.Printf("  Duration: %s\n", result.Duration.Round(time.Second))
}
