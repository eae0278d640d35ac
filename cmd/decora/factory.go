package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/decora-ai/decora/internal/config"
	"github.com/decora-ai/decora/internal/llm"
	"github.com/decora-ai/decora/internal/search"
	"github.com/decora-ai/decora/internal/state"
	"github.com/decora-ai/decora/internal/tools"
)

// providerDisplayNames maps provider keys to the names shown to users.
var providerDisplayNames = map[string]string{
	config.ProviderGroq:      "Groq (free tier)",
	config.ProviderOpenAI:    "OpenAI",
	config.ProviderXAI:       "X.AI",
	config.ProviderAnthropic: "Anthropic",
	config.ProviderBedrock:   "Anthropic via AWS Bedrock",
}

// buildProvider selects the LLM backend from configuration and wraps it
// with the crew rate limiter and, when enabled, the response cache.
// cleanup closes the cache; callers defer it.
func buildProvider(cfg *config.Config) (provider llm.Provider, cleanup func(), err error) {
	provider, err = llm.FromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	cleanup = func() {}
	if cfg.Crew.MaxRPM > 0 {
		provider = llm.RateLimited(provider, cfg.Crew.MaxRPM)
	}
	if cfg.Crew.CacheEnabled {
		cache, cerr := llm.OpenResponseCache(cachePath())
		if cerr != nil {
			// A broken cache should not block a consultation.
			fmt.Fprintf(os.Stderr, "warning: response cache disabled: %v\n", cerr)
			return provider, cleanup, nil
		}
		provider = llm.Cached(provider, cache)
		cleanup = func() { cache.Close() }
	}
	return provider, cleanup, nil
}

// cachePath puts the response cache next to the history database.
func cachePath() string {
	return filepath.Join(filepath.Dir(state.DefaultDBPath()), "llm_cache.db")
}

// announceProvider prints which backend will serve the run.
func announceProvider(p llm.Provider) {
	name := providerDisplayNames[p.Name()]
	if name == "" {
		name = p.Name()
	}
	color.Green("✓ Using %s (%s)", name, p.Model())
}

// buildExecutor assembles the tool executor. Search and scrape are only
// enabled when a Serper key is configured; the layout checker always
// works. recorder may be nil.
func buildExecutor(cfg *config.Config, recorder tools.LayoutRecorder) *tools.Executor {
	var serper *search.SerperClient
	if key, err := config.GetSerperAPIKey(cfg); err == nil {
		serper = search.NewSerperClient(key)
	}
	return tools.NewExecutor(serper, search.NewScraper(), recorder)
}

// loadDefs returns the crew definitions from the configs directory, or
// the built-in team when agents.yaml and tasks.yaml are absent.
func loadDefs(cfg *config.Config) (*config.CrewDefs, error) {
	defs, err := config.LoadCrewDefs(cfg.Crew.DefsDir)
	if err == nil {
		return defs, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return config.DefaultCrewDefs(), nil
	}
	return nil, fmt.Errorf("load crew definitions: %w", err)
}

// openStore opens and migrates the history database. Interrupted runs
// from a previous process are swept to failed.
func openStore() (*state.DB, error) {
	db, err := state.OpenDefault()
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history database: %w", err)
	}
	if _, err := db.RecoverInterrupted(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: recover interrupted runs: %v\n", err)
	}
	return db, nil
}

// requireSerperKey fails fast when web research is needed but no key is
// configured. The consultation agents depend on web_search.
func requireSerperKey(cfg *config.Config) error {
	if _, err := config.GetSerperAPIKey(cfg); err != nil {
		return fmt.Errorf("SERPER_API_KEY is not set: the style and furniture agents need web search\n" +
			"Get a free key at https://serper.dev and export SERPER_API_KEY")
	}
	return nil
}
