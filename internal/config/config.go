// Package config handles configuration loading and management for Decora.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for Decora.
type Config struct {
	LLM     LLMConfig     `mapstructure:"llm"`
	Serper  SerperConfig  `mapstructure:"serper"`
	Crew    CrewConfig    `mapstructure:"crew"`
	Reports ReportsConfig `mapstructure:"reports"`
	TUI     TUIConfig     `mapstructure:"tui"`
	Server  ServerConfig  `mapstructure:"server"`
	Sentry  SentryConfig  `mapstructure:"sentry"`
}

// LLMConfig holds LLM provider settings.
type LLMConfig struct {
	// Provider forces a specific provider (groq, openai, xai, anthropic,
	// bedrock). Empty selects automatically by API key priority.
	Provider string `mapstructure:"provider"`
	// Model overrides the provider's default model.
	Model string `mapstructure:"model"`
	// Temperature for chat completions.
	Temperature float64 `mapstructure:"temperature"`
	// MaxTokens caps each completion.
	MaxTokens int `mapstructure:"max_tokens"`
	// GroqAPIKey authenticates against Groq. GROQ_API_KEY overrides.
	GroqAPIKey string `mapstructure:"groq_api_key"`
	// OpenAIAPIKey authenticates against OpenAI. OPENAI_API_KEY overrides.
	OpenAIAPIKey string `mapstructure:"openai_api_key"`
	// XAIAPIKey authenticates against X.AI. XAI_API_KEY overrides.
	XAIAPIKey string `mapstructure:"xai_api_key"`
	// AnthropicAPIKey authenticates against Anthropic. ANTHROPIC_API_KEY overrides.
	AnthropicAPIKey string `mapstructure:"anthropic_api_key"`
	// UseBedrock routes Claude models through AWS Bedrock instead of the
	// direct API. DECORA_USE_BEDROCK overrides.
	UseBedrock bool `mapstructure:"use_bedrock"`
	// BedrockRegion is the AWS region for Bedrock.
	BedrockRegion string `mapstructure:"bedrock_region"`
}

// SerperConfig holds web search API settings.
type SerperConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// CrewConfig holds consultation pipeline settings.
type CrewConfig struct {
	// MaxRPM rate-limits LLM calls per minute across the crew.
	MaxRPM int `mapstructure:"max_rpm"`
	// MaxToolIterations bounds the tool-use loop within one task.
	MaxToolIterations int `mapstructure:"max_tool_iterations"`
	// CacheEnabled turns the LLM response cache on.
	CacheEnabled bool `mapstructure:"cache_enabled"`
	// DefsDir is the directory holding agents.yaml and tasks.yaml.
	DefsDir string `mapstructure:"defs_dir"`
	// Verbose enables debug logging of prompts and tool calls.
	Verbose bool `mapstructure:"verbose"`
}

// ReportsConfig holds output artifact settings.
type ReportsConfig struct {
	// Dir is where design plan reports and metadata are written.
	Dir string `mapstructure:"dir"`
	// LogsDir is where debug logs are written.
	LogsDir string `mapstructure:"logs_dir"`
}

// TUIConfig holds TUI display settings.
type TUIConfig struct {
	RefreshRate time.Duration `mapstructure:"refresh_rate"`
}

// ServerConfig holds web server settings.
type ServerConfig struct {
	// Addr is the listen address for serve mode.
	Addr string `mapstructure:"addr"`
	// RateLimitRPS is the sustained request rate allowed per client.
	RateLimitRPS float64 `mapstructure:"rate_limit_rps"`
	// RateBurst is the burst size allowed per client.
	RateBurst int `mapstructure:"rate_burst"`
}

// SentryConfig holds error reporting settings.
type SentryConfig struct {
	DSN string `mapstructure:"dsn"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (GROQ_API_KEY, SERPER_API_KEY, DECORA_*, ...)
// 2. Project config (.decora.yaml in current directory or parent)
// 3. User config (~/.config/decora/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Load user config from XDG path
	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Load project config if present
	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			// Merge project config (takes precedence)
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	// Environment variable overrides
	v.AutomaticEnv()
	v.SetEnvPrefix("")

	// Map specific environment variables
	v.BindEnv("llm.provider", "DECORA_LLM_PROVIDER")
	v.BindEnv("llm.model", "DECORA_LLM_MODEL")
	v.BindEnv("llm.groq_api_key", "GROQ_API_KEY")
	v.BindEnv("llm.openai_api_key", "OPENAI_API_KEY")
	v.BindEnv("llm.xai_api_key", "XAI_API_KEY")
	v.BindEnv("llm.anthropic_api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("llm.use_bedrock", "DECORA_USE_BEDROCK")
	v.BindEnv("llm.bedrock_region", "DECORA_BEDROCK_REGION")
	v.BindEnv("serper.api_key", "SERPER_API_KEY")
	v.BindEnv("crew.verbose", "DECORA_DEBUG")
	v.BindEnv("sentry.dsn", "SENTRY_DSN")
	v.BindEnv("server.addr", "DECORA_ADDR")
	v.BindEnv("reports.dir", "DECORA_REPORTS_DIR")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references in credentials
	cfg.LLM.GroqAPIKey = expandEnv(cfg.LLM.GroqAPIKey)
	cfg.LLM.OpenAIAPIKey = expandEnv(cfg.LLM.OpenAIAPIKey)
	cfg.LLM.XAIAPIKey = expandEnv(cfg.LLM.XAIAPIKey)
	cfg.LLM.AnthropicAPIKey = expandEnv(cfg.LLM.AnthropicAPIKey)
	cfg.Serper.APIKey = expandEnv(cfg.Serper.APIKey)
	cfg.Sentry.DSN = expandEnv(cfg.Sentry.DSN)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.LLM.GroqAPIKey = expandEnv(cfg.LLM.GroqAPIKey)
	cfg.LLM.OpenAIAPIKey = expandEnv(cfg.LLM.OpenAIAPIKey)
	cfg.LLM.XAIAPIKey = expandEnv(cfg.LLM.XAIAPIKey)
	cfg.LLM.AnthropicAPIKey = expandEnv(cfg.LLM.AnthropicAPIKey)
	cfg.Serper.APIKey = expandEnv(cfg.Serper.APIKey)
	cfg.Sentry.DSN = expandEnv(cfg.Sentry.DSN)

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("llm.provider", cfg.LLM.Provider)
	v.Set("llm.model", cfg.LLM.Model)
	v.Set("llm.temperature", cfg.LLM.Temperature)
	v.Set("llm.max_tokens", cfg.LLM.MaxTokens)
	v.Set("crew.max_rpm", cfg.Crew.MaxRPM)
	v.Set("crew.max_tool_iterations", cfg.Crew.MaxToolIterations)
	v.Set("crew.cache_enabled", cfg.Crew.CacheEnabled)
	v.Set("crew.defs_dir", cfg.Crew.DefsDir)
	v.Set("reports.dir", cfg.Reports.Dir)
	v.Set("reports.logs_dir", cfg.Reports.LogsDir)
	v.Set("tui.refresh_rate", cfg.TUI.RefreshRate.String())
	v.Set("server.addr", cfg.Server.Addr)
	v.Set("server.rate_limit_rps", cfg.Server.RateLimitRPS)
	v.Set("server.rate_burst", cfg.Server.RateBurst)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	// LLM defaults
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 4096)

	// Crew defaults
	v.SetDefault("crew.max_rpm", 10)
	v.SetDefault("crew.max_tool_iterations", 5)
	v.SetDefault("crew.cache_enabled", true)
	v.SetDefault("crew.defs_dir", "configs")
	v.SetDefault("crew.verbose", false)

	// Report defaults
	v.SetDefault("reports.dir", "outputs/reports")
	v.SetDefault("reports.logs_dir", "outputs/logs")

	// TUI defaults
	v.SetDefault("tui.refresh_rate", "100ms")

	// Server defaults
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.rate_limit_rps", 5)
	v.SetDefault("server.rate_burst", 10)
}

// getUserConfigDir returns the XDG config directory for Decora.
func getUserConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "decora")
	}

	// Fall back to ~/.config/decora
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "decora")
	}
	return filepath.Join(home, ".config", "decora")
}

// findProjectConfig searches for .decora.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".decora.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Temperature: 0.7,
			MaxTokens:   4096,
		},
		Crew: CrewConfig{
			MaxRPM:            10,
			MaxToolIterations: 5,
			CacheEnabled:      true,
			DefsDir:           "configs",
		},
		Reports: ReportsConfig{
			Dir:     "outputs/reports",
			LogsDir: "outputs/logs",
		},
		TUI: TUIConfig{
			RefreshRate: 100 * time.Millisecond,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			RateLimitRPS: 5,
			RateBurst:    10,
		},
	}
}
