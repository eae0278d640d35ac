package crew

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/decora-ai/decora/pkg/models"
)

// templateData is the view rendered into task description templates.
// Field names are the placeholder names available in agents.yaml /
// tasks.yaml descriptions, e.g. {{.RoomType}} or {{.Budget}}.
type templateData struct {
	RoomType        string
	RoomLength      float64
	RoomWidth       float64
	RoomHeight      float64
	Windows         string
	Doors           string
	Style           string
	ColorPreference string
	MustHaves       string
	Avoid           string
	Budget          int
}

func newTemplateData(req models.ConsultationRequest) templateData {
	return templateData{
		// Lowercased display form so descriptions read naturally, e.g.
		// "Analyze this living room space".
		RoomType:        strings.ToLower(req.RoomType.Display()),
		RoomLength:      req.RoomLength,
		RoomWidth:       req.RoomWidth,
		RoomHeight:      req.RoomHeight,
		Windows:         req.Windows,
		Doors:           req.Doors,
		Style:           req.StylePreference,
		ColorPreference: req.ColorPreference,
		MustHaves:       req.MustHaves,
		Avoid:           req.Avoid,
		Budget:          req.Budget,
	}
}

// renderDescription renders a task's description template against the
// consultation request.
func renderDescription(task models.TaskDef, req models.ConsultationRequest) (string, error) {
	tmpl, err := template.New(task.Name).Parse(task.Description)
	if err != nil {
		return "", fmt.Errorf("parse task %s description: %w", task.Name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newTemplateData(req)); err != nil {
		return "", fmt.Errorf("render task %s description: %w", task.Name, err)
	}
	return buf.String(), nil
}

// systemPrompt builds an agent's system prompt from its definition.
func systemPrompt(def models.AgentDef) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are %s.\n\n", def.Title)
	b.WriteString(strings.TrimSpace(def.Backstory))
	fmt.Fprintf(&b, "\n\nYour goal: %s\n", def.Goal)

	if len(def.Tools) > 0 {
		b.WriteString("\nUse your tools when real data would improve your answer. " +
			"When you have what you need, stop calling tools and give your complete final answer to the task.\n")
	} else {
		b.WriteString("\nGive your complete final answer to the task.\n")
	}

	return b.String()
}

// buildUserPrompt assembles the task prompt: the rendered description,
// the expected output, and the outputs of prior tasks as shared context.
func buildUserPrompt(description, expected string, prior []TaskOutput) string {
	var b strings.Builder

	b.WriteString(description)
	if expected != "" {
		fmt.Fprintf(&b, "\n\nExpected output: %s", expected)
	}
	if len(prior) > 0 {
		b.WriteString("\n\nContext from the design team so far:")
		for _, out := range prior {
			fmt.Fprintf(&b, "\n\n### %s (%s)\n%s", out.Task, out.AgentTitle, strings.TrimSpace(out.Output))
		}
	}

	return b.String()
}
