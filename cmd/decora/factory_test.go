package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/decora-ai/decora/internal/llm"
)

type stubProvider struct {
	name  string
	model string
}

func (p *stubProvider) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	return &llm.Response{}, nil
}

func (p *stubProvider) Name() string  { return p.name }
func (p *stubProvider) Model() string { return p.model }

func TestAnnounceProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider *stubProvider
		want     string
	}{
		{
			name:     "known provider uses display name",
			provider: &stubProvider{name: "groq", model: "llama-3.3-70b-versatile"},
			want:     "✓ Using Groq (free tier) (llama-3.3-70b-versatile)",
		},
		{
			name:     "unknown provider falls back to raw name",
			provider: &stubProvider{name: "custom", model: "m1"},
			want:     "✓ Using custom (m1)",
		},
	}

	origOut := color.Output
	origNoColor := color.NoColor
	defer func() {
		color.Output = origOut
		color.NoColor = origNoColor
	}()
	color.NoColor = true

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			color.Output = &buf

			announceProvider(tt.provider)

			got := strings.TrimSpace(buf.String())
			if got != tt.want {
				t.Errorf("announceProvider output = %q, want %q", got, tt.want)
			}
		})
	}
}
