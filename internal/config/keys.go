// Package config provides API key management utilities.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoAPIKey is returned when no API key is configured for a provider.
var ErrNoAPIKey = errors.New("no API key configured")

// Provider names accepted throughout the configuration. The llm package
// builds its clients from these.
const (
	ProviderGroq      = "groq"
	ProviderOpenAI    = "openai"
	ProviderXAI       = "xai"
	ProviderAnthropic = "anthropic"
	ProviderBedrock   = "bedrock"
)

// keyEnvVars maps each provider to its API key environment variable.
var keyEnvVars = map[string]string{
	ProviderGroq:      "GROQ_API_KEY",
	ProviderOpenAI:    "OPENAI_API_KEY",
	ProviderXAI:       "XAI_API_KEY",
	ProviderAnthropic: "ANTHROPIC_API_KEY",
}

// keyPrefixes maps each provider to its expected API key prefix.
var keyPrefixes = map[string]string{
	ProviderGroq:      "gsk_",
	ProviderOpenAI:    "sk-",
	ProviderXAI:       "xai-",
	ProviderAnthropic: "sk-ant-",
}

// GetAPIKey returns the API key for the given provider.
// It checks in order: environment variable, config file.
func GetAPIKey(cfg *Config, provider string) (string, error) {
	// First check environment variable directly
	if envVar := keyEnvVars[provider]; envVar != "" {
		if key := os.Getenv(envVar); key != "" {
			return key, nil
		}
	}

	// Then check config
	if key := configKey(cfg, provider); key != "" {
		return key, nil
	}

	return "", fmt.Errorf("%s: %w", provider, ErrNoAPIKey)
}

// configKey returns the provider key from the config file, with any
// remaining env var references expanded. Unresolved ${VAR} references
// count as unset.
func configKey(cfg *Config, provider string) string {
	if cfg == nil {
		return ""
	}

	var raw string
	switch provider {
	case ProviderGroq:
		raw = cfg.LLM.GroqAPIKey
	case ProviderOpenAI:
		raw = cfg.LLM.OpenAIAPIKey
	case ProviderXAI:
		raw = cfg.LLM.XAIAPIKey
	case ProviderAnthropic:
		raw = cfg.LLM.AnthropicAPIKey
	default:
		return ""
	}

	key := os.ExpandEnv(raw)
	if key == "" || strings.HasPrefix(key, "${") {
		return ""
	}
	return key
}

// ValidateAPIKey performs basic validation on an API key.
// It checks format but does not verify the key with the provider's API.
func ValidateAPIKey(provider, key string) error {
	if key == "" {
		return ErrNoAPIKey
	}

	prefix, ok := keyPrefixes[provider]
	if !ok {
		return fmt.Errorf("unknown provider %q", provider)
	}

	if !strings.HasPrefix(key, prefix) {
		return fmt.Errorf("invalid %s API key format: expected %q prefix", provider, prefix)
	}

	// Keys should be reasonably long
	if len(key) < 20 {
		return fmt.Errorf("invalid %s API key format: key too short", provider)
	}

	return nil
}

// MaskAPIKey returns a masked version of the API key for display.
// Shows the first 7 characters and last 4 characters.
func MaskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}

	if len(key) <= 15 {
		return "***"
	}

	return key[:7] + "..." + key[len(key)-4:]
}

// KeySource represents where an API key was loaded from.
type KeySource string

const (
	KeySourceEnv    KeySource = "environment"
	KeySourceConfig KeySource = "config_file"
	KeySourceNone   KeySource = "none"
)

// GetAPIKeySource returns where the provider's API key was sourced from.
func GetAPIKeySource(cfg *Config, provider string) KeySource {
	if envVar := keyEnvVars[provider]; envVar != "" {
		if os.Getenv(envVar) != "" {
			return KeySourceEnv
		}
	}

	if configKey(cfg, provider) != "" {
		return KeySourceConfig
	}

	return KeySourceNone
}

// GetSerperAPIKey returns the Serper web search API key.
// It checks in order: environment variable, config file.
func GetSerperAPIKey(cfg *Config) (string, error) {
	if key := os.Getenv("SERPER_API_KEY"); key != "" {
		return key, nil
	}

	if cfg != nil && cfg.Serper.APIKey != "" {
		key := os.ExpandEnv(cfg.Serper.APIKey)
		if key != "" && !strings.HasPrefix(key, "${") {
			return key, nil
		}
	}

	return "", fmt.Errorf("serper: %w", ErrNoAPIKey)
}
