package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/decora-ai/decora/internal/config"
	"github.com/decora-ai/decora/internal/state"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	Long: `Show the effective configuration after merging defaults, config
files, and environment variables. API keys are masked.`,
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	color.Cyan("LLM")
	provider := cfg.LLM.Provider
	if provider == "" {
		provider = "(auto-select by API key)"
	}
	fmt.Printf("  provider:    %s\n", provider)
	model := cfg.LLM.Model
	if model == "" {
		model = "(provider default)"
	}
	fmt.Printf("  model:       %s\n", model)
	fmt.Printf("  temperature: %.2f\n", cfg.LLM.Temperature)
	fmt.Printf("  max_tokens:  %d\n", cfg.LLM.MaxTokens)

	color.Cyan("\nAPI keys")
	for _, p := range []string{
		config.ProviderGroq, config.ProviderOpenAI, config.ProviderXAI, config.ProviderAnthropic,
	} {
		key, _ := config.GetAPIKey(cfg, p)
		source := config.GetAPIKeySource(cfg, p)
		fmt.Printf("  %-10s %-22s %s\n", p+":", config.MaskAPIKey(key), sourceNote(source))
	}
	serperKey, _ := config.GetSerperAPIKey(cfg)
	fmt.Printf("  %-10s %s\n", "serper:", config.MaskAPIKey(serperKey))

	color.Cyan("\nCrew")
	fmt.Printf("  max_rpm:             %d\n", cfg.Crew.MaxRPM)
	fmt.Printf("  max_tool_iterations: %d\n", cfg.Crew.MaxToolIterations)
	fmt.Printf("  cache_enabled:       %t\n", cfg.Crew.CacheEnabled)
	fmt.Printf("  defs_dir:            %s\n", cfg.Crew.DefsDir)

	color.Cyan("\nPaths")
	fmt.Printf("  reports:  %s\n", cfg.Reports.Dir)
	fmt.Printf("  logs:     %s\n", cfg.Reports.LogsDir)
	fmt.Printf("  database: %s\n", state.DefaultDBPath())

	color.Cyan("\nServer")
	fmt.Printf("  addr:           %s\n", cfg.Server.Addr)
	fmt.Printf("  rate_limit_rps: %.1f (burst %d)\n", cfg.Server.RateLimitRPS, cfg.Server.RateBurst)
	if cfg.Sentry.DSN != "" {
		fmt.Printf("  sentry:         configured\n")
	}
	return nil
}

func sourceNote(s config.KeySource) string {
	switch s {
	case config.KeySourceEnv:
		return "from environment"
	case config.KeySourceConfig:
		return "from config file"
	default:
		return ""
	}
}
