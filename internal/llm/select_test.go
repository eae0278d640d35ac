package llm

import (
	"errors"
	"os"
	"testing"

	"github.com/decora-ai/decora/internal/config"
)

// clearKeyEnv blanks every provider key env var for the duration of the
// test so selection depends only on the config under test.
func clearKeyEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"GROQ_API_KEY", "OPENAI_API_KEY", "XAI_API_KEY", "ANTHROPIC_API_KEY"} {
		original, had := os.LookupEnv(name)
		os.Unsetenv(name)
		name := name
		t.Cleanup(func() {
			if had {
				os.Setenv(name, original)
			}
		})
	}
}

func TestFromConfig_ExplicitProvider(t *testing.T) {
	clearKeyEnv(t)

	tests := []struct {
		name     string
		setup    func(cfg *config.Config)
		wantName string
	}{
		{
			name: "groq",
			setup: func(cfg *config.Config) {
				cfg.LLM.Provider = "groq"
				cfg.LLM.GroqAPIKey = "gsk_test"
			},
			wantName: "groq",
		},
		{
			name: "openai",
			setup: func(cfg *config.Config) {
				cfg.LLM.Provider = "openai"
				cfg.LLM.OpenAIAPIKey = "sk-test"
			},
			wantName: "openai",
		},
		{
			name: "xai",
			setup: func(cfg *config.Config) {
				cfg.LLM.Provider = "xai"
				cfg.LLM.XAIAPIKey = "xai-test"
			},
			wantName: "xai",
		},
		{
			name: "anthropic",
			setup: func(cfg *config.Config) {
				cfg.LLM.Provider = "anthropic"
				cfg.LLM.AnthropicAPIKey = "sk-ant-test"
			},
			wantName: "anthropic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.setup(cfg)

			provider, err := FromConfig(cfg)
			if err != nil {
				t.Fatalf("FromConfig failed: %v", err)
			}
			if provider.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", provider.Name(), tt.wantName)
			}
		})
	}
}

func TestFromConfig_ExplicitProviderMissingKey(t *testing.T) {
	clearKeyEnv(t)

	cfg := config.Default()
	cfg.LLM.Provider = "groq"

	_, err := FromConfig(cfg)
	if err == nil {
		t.Fatal("expected error when forced provider has no key")
	}
	if !errors.Is(err, config.ErrNoAPIKey) {
		t.Errorf("error = %v, want ErrNoAPIKey", err)
	}
}

func TestFromConfig_UnknownProvider(t *testing.T) {
	clearKeyEnv(t)

	cfg := config.Default()
	cfg.LLM.Provider = "cohere"

	_, err := FromConfig(cfg)
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestFromConfig_AutoPriority(t *testing.T) {
	clearKeyEnv(t)

	tests := []struct {
		name     string
		setup    func(cfg *config.Config)
		wantName string
	}{
		{
			name: "groq wins over openai",
			setup: func(cfg *config.Config) {
				cfg.LLM.GroqAPIKey = "gsk_test"
				cfg.LLM.OpenAIAPIKey = "sk-test"
			},
			wantName: "groq",
		},
		{
			name: "openai wins over xai",
			setup: func(cfg *config.Config) {
				cfg.LLM.OpenAIAPIKey = "sk-test"
				cfg.LLM.XAIAPIKey = "xai-test"
			},
			wantName: "openai",
		},
		{
			name: "xai only",
			setup: func(cfg *config.Config) {
				cfg.LLM.XAIAPIKey = "xai-test"
			},
			wantName: "xai",
		},
		{
			name: "anthropic last",
			setup: func(cfg *config.Config) {
				cfg.LLM.AnthropicAPIKey = "sk-ant-test"
			},
			wantName: "anthropic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.setup(cfg)

			provider, err := FromConfig(cfg)
			if err != nil {
				t.Fatalf("FromConfig failed: %v", err)
			}
			if provider.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", provider.Name(), tt.wantName)
			}
		})
	}
}

func TestFromConfig_NoKeys(t *testing.T) {
	clearKeyEnv(t)

	_, err := FromConfig(config.Default())
	if err == nil {
		t.Fatal("expected error with no keys configured")
	}
	if !errors.Is(err, ErrNoProvider) {
		t.Errorf("error = %v, want ErrNoProvider", err)
	}
}

func TestFromConfig_ModelOverride(t *testing.T) {
	clearKeyEnv(t)

	cfg := config.Default()
	cfg.LLM.GroqAPIKey = "gsk_test"
	cfg.LLM.Model = "llama-3.1-8b-instant"

	provider, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig failed: %v", err)
	}
	if provider.Model() != "llama-3.1-8b-instant" {
		t.Errorf("Model() = %q, want llama-3.1-8b-instant", provider.Model())
	}
}
