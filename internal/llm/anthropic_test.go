package llm

import (
	"os"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
)

func TestNewAnthropic_WithAPIKey(t *testing.T) {
	provider, err := NewAnthropic(AnthropicConfig{
		APIKey: "sk-ant-test-key-123",
		Model:  anthropic.ModelClaudeSonnet4_20250514,
	})
	if err != nil {
		t.Fatalf("NewAnthropic failed: %v", err)
	}

	if provider.Name() != "anthropic" {
		t.Errorf("Name() = %q, want anthropic", provider.Name())
	}
	if provider.Model() != string(anthropic.ModelClaudeSonnet4_20250514) {
		t.Errorf("Model() = %q, want %q", provider.Model(), anthropic.ModelClaudeSonnet4_20250514)
	}
}

func TestNewAnthropic_NoAPIKey(t *testing.T) {
	// Save and restore original env var
	original := os.Getenv("ANTHROPIC_API_KEY")
	defer os.Setenv("ANTHROPIC_API_KEY", original)

	os.Unsetenv("ANTHROPIC_API_KEY")

	_, err := NewAnthropic(AnthropicConfig{})
	if err == nil {
		t.Fatal("NewAnthropic should fail without API key")
	}

	expected := "ANTHROPIC_API_KEY environment variable is not set"
	if err.Error() != expected {
		t.Errorf("Error = %q, want %q", err.Error(), expected)
	}
}

func TestNewAnthropic_DefaultModel(t *testing.T) {
	provider, err := NewAnthropic(AnthropicConfig{APIKey: "sk-ant-test"})
	if err != nil {
		t.Fatalf("NewAnthropic failed: %v", err)
	}

	if provider.Model() != string(anthropic.ModelClaudeSonnet4_20250514) {
		t.Errorf("Default model = %q, want %q", provider.Model(), anthropic.ModelClaudeSonnet4_20250514)
	}
}

func TestTranslateModelForBedrock(t *testing.T) {
	tests := []struct {
		model anthropic.Model
		want  anthropic.Model
	}{
		{anthropic.ModelClaudeSonnet4_20250514, "us.anthropic.claude-sonnet-4-20250514-v1:0"},
		{anthropic.ModelClaude3_5Haiku20241022, "us.anthropic.claude-3-5-haiku-20241022-v1:0"},
		{"us.anthropic.claude-sonnet-4-20250514-v1:0", "us.anthropic.claude-sonnet-4-20250514-v1:0"},
		{"custom-model", "custom-model"},
	}

	for _, tt := range tests {
		t.Run(string(tt.model), func(t *testing.T) {
			got := translateModelForBedrock(tt.model)
			if got != tt.want {
				t.Errorf("translateModelForBedrock(%q) = %q, want %q", tt.model, got, tt.want)
			}
		})
	}
}

func TestNewAnthropic_Bedrock(t *testing.T) {
	// Skip if AWS credentials not available
	if os.Getenv("AWS_REGION") == "" && os.Getenv("AWS_DEFAULT_REGION") == "" {
		t.Skip("AWS_REGION not set, skipping Bedrock test")
	}

	provider, err := NewAnthropic(AnthropicConfig{
		UseAWSBedrock: true,
		AWSRegion:     os.Getenv("AWS_REGION"),
	})
	if err != nil {
		t.Fatalf("NewAnthropic failed: %v", err)
	}

	if provider.Name() != "bedrock" {
		t.Errorf("Name() = %q, want bedrock", provider.Name())
	}
	if provider.Model() != "us.anthropic.claude-sonnet-4-20250514-v1:0" {
		t.Errorf("Model() = %q, want Bedrock inference profile", provider.Model())
	}
}
