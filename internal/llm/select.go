package llm

import (
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/decora-ai/decora/internal/config"
)

// ErrNoProvider is returned when no LLM credentials are configured
// anywhere. The message doubles as setup guidance for first-time users.
var ErrNoProvider = errors.New("no LLM API key found: set GROQ_API_KEY (recommended, free), OPENAI_API_KEY, XAI_API_KEY, or ANTHROPIC_API_KEY")

// FromConfig builds the provider the configuration asks for. An explicit
// cfg.LLM.Provider selects that provider and a missing key is an error.
// Otherwise providers are tried by key availability in priority order:
// Groq, OpenAI, X.AI, Anthropic, then Bedrock when a region is set.
func FromConfig(cfg *config.Config) (Provider, error) {
	if cfg.LLM.Provider == "" && cfg.LLM.UseBedrock {
		return newBedrock(cfg)
	}

	switch cfg.LLM.Provider {
	case "":
		return autoSelect(cfg)
	case config.ProviderGroq:
		key, err := config.GetAPIKey(cfg, config.ProviderGroq)
		if err != nil {
			return nil, err
		}
		return NewGroq(key, cfg.LLM.Model), nil
	case config.ProviderOpenAI:
		key, err := config.GetAPIKey(cfg, config.ProviderOpenAI)
		if err != nil {
			return nil, err
		}
		return NewOpenAI(key, cfg.LLM.Model), nil
	case config.ProviderXAI:
		key, err := config.GetAPIKey(cfg, config.ProviderXAI)
		if err != nil {
			return nil, err
		}
		return NewXAI(key, cfg.LLM.Model), nil
	case config.ProviderAnthropic:
		key, err := config.GetAPIKey(cfg, config.ProviderAnthropic)
		if err != nil {
			return nil, err
		}
		return NewAnthropic(AnthropicConfig{
			Model:  anthropic.Model(cfg.LLM.Model),
			APIKey: key,
		})
	case config.ProviderBedrock:
		return newBedrock(cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}

// autoSelect picks the first provider with a configured key.
func autoSelect(cfg *config.Config) (Provider, error) {
	if key, err := config.GetAPIKey(cfg, config.ProviderGroq); err == nil {
		return NewGroq(key, cfg.LLM.Model), nil
	}
	if key, err := config.GetAPIKey(cfg, config.ProviderOpenAI); err == nil {
		return NewOpenAI(key, cfg.LLM.Model), nil
	}
	if key, err := config.GetAPIKey(cfg, config.ProviderXAI); err == nil {
		return NewXAI(key, cfg.LLM.Model), nil
	}
	if key, err := config.GetAPIKey(cfg, config.ProviderAnthropic); err == nil {
		return NewAnthropic(AnthropicConfig{
			Model:  anthropic.Model(cfg.LLM.Model),
			APIKey: key,
		})
	}
	if cfg.LLM.BedrockRegion != "" {
		return newBedrock(cfg)
	}
	return nil, ErrNoProvider
}

func newBedrock(cfg *config.Config) (Provider, error) {
	return NewAnthropic(AnthropicConfig{
		Model:         anthropic.Model(cfg.LLM.Model),
		UseAWSBedrock: true,
		AWSRegion:     cfg.LLM.BedrockRegion,
	})
}
