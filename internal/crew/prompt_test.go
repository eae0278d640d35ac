package crew

import (
	"strings"
	"testing"

	"github.com/decora-ai/decora/internal/config"
	"github.com/decora-ai/decora/pkg/models"
)

func TestRenderDescription(t *testing.T) {
	task := models.TaskDef{
		Name:        "analyze_space",
		Agent:       models.RoleSpaceAnalyst,
		Description: "Analyze this {{.RoomType}} space: {{.RoomLength}}' x {{.RoomWidth}}', budget ${{.Budget}}.",
	}
	req := models.DefaultConsultationRequest()

	got, err := renderDescription(task, req)
	if err != nil {
		t.Fatalf("renderDescription() error = %v", err)
	}

	want := "Analyze this living room space: 15' x 12', budget $4000."
	if got != want {
		t.Errorf("renderDescription() = %q, want %q", got, want)
	}
}

func TestRenderDescription_StyleAndColors(t *testing.T) {
	task := models.TaskDef{
		Name:        "define_style",
		Agent:       models.RoleStyleConsultant,
		Description: "Style: {{.Style}}. Colors: {{.ColorPreference}}. Avoid: {{.Avoid}}.",
	}
	req := models.ConsultationRequest{
		RoomType:        models.RoomBedroom,
		StylePreference: "Japandi",
		ColorPreference: "Earth tones",
		Avoid:           "Clutter",
	}

	got, err := renderDescription(task, req)
	if err != nil {
		t.Fatalf("renderDescription() error = %v", err)
	}

	want := "Style: Japandi. Colors: Earth tones. Avoid: Clutter."
	if got != want {
		t.Errorf("renderDescription() = %q, want %q", got, want)
	}
}

func TestRenderDescription_AllDefaultTasks(t *testing.T) {
	defs := config.DefaultCrewDefs()
	req := models.DefaultConsultationRequest()

	for _, task := range defs.Tasks {
		t.Run(task.Name, func(t *testing.T) {
			got, err := renderDescription(task, req)
			if err != nil {
				t.Fatalf("renderDescription() error = %v", err)
			}
			if got == "" {
				t.Fatal("renderDescription() returned empty description")
			}
			if strings.Contains(got, "{{") {
				t.Errorf("renderDescription() left unrendered placeholders: %q", got)
			}
		})
	}
}

func TestRenderDescription_ParseError(t *testing.T) {
	task := models.TaskDef{
		Name:        "broken",
		Description: "Unclosed {{.RoomType",
	}

	_, err := renderDescription(task, models.DefaultConsultationRequest())
	if err == nil {
		t.Fatal("renderDescription() error = nil, want parse error")
	}
	if !strings.Contains(err.Error(), "parse task broken") {
		t.Errorf("renderDescription() error = %v, want mention of parse task broken", err)
	}
}

func TestRenderDescription_UnknownField(t *testing.T) {
	task := models.TaskDef{
		Name:        "broken",
		Description: "Uses {{.NoSuchField}}.",
	}

	_, err := renderDescription(task, models.DefaultConsultationRequest())
	if err == nil {
		t.Fatal("renderDescription() error = nil, want render error")
	}
	if !strings.Contains(err.Error(), "render task broken") {
		t.Errorf("renderDescription() error = %v, want mention of render task broken", err)
	}
}

func TestSystemPrompt(t *testing.T) {
	def := models.AgentDef{
		Role:      models.RoleSpaceAnalyst,
		Title:     "Space Planning Specialist",
		Goal:      "Analyze room dimensions",
		Backstory: "You measure rooms for a living.",
		Tools:     []models.ToolName{models.ToolRoomLayoutCheck},
	}

	got := systemPrompt(def)

	if !strings.HasPrefix(got, "You are Space Planning Specialist.") {
		t.Errorf("systemPrompt() = %q, want prefix %q", got, "You are Space Planning Specialist.")
	}
	if !strings.Contains(got, "You measure rooms for a living.") {
		t.Error("systemPrompt() missing backstory")
	}
	if !strings.Contains(got, "Your goal: Analyze room dimensions") {
		t.Error("systemPrompt() missing goal")
	}
	if !strings.Contains(got, "tools") {
		t.Error("systemPrompt() missing tool guidance for agent with tools")
	}
}

func TestSystemPrompt_NoTools(t *testing.T) {
	def := models.AgentDef{
		Role:      models.RoleProjectManager,
		Title:     "Interior Design Project Manager",
		Goal:      "Write the final plan",
		Backstory: "You run the team.",
	}

	got := systemPrompt(def)

	if strings.Contains(got, "tools") {
		t.Errorf("systemPrompt() = %q, mentions tools for agent without any", got)
	}
	if !strings.Contains(got, "complete final answer") {
		t.Error("systemPrompt() missing final answer instruction")
	}
}

func TestBuildUserPrompt(t *testing.T) {
	prior := []TaskOutput{
		{Task: "analyze_space", AgentTitle: "Space Planning Specialist", Output: "The room is 180 sqft."},
		{Task: "define_style", AgentTitle: "Interior Design Style Consultant", Output: "Warm Scandinavian."},
	}

	got := buildUserPrompt("Find furniture.", "A list of items", prior)

	if !strings.HasPrefix(got, "Find furniture.") {
		t.Errorf("buildUserPrompt() = %q, want description first", got)
	}
	if !strings.Contains(got, "Expected output: A list of items") {
		t.Error("buildUserPrompt() missing expected output")
	}
	if !strings.Contains(got, "Context from the design team so far:") {
		t.Error("buildUserPrompt() missing context header")
	}
	if !strings.Contains(got, "### analyze_space (Space Planning Specialist)\nThe room is 180 sqft.") {
		t.Errorf("buildUserPrompt() missing first context block: %q", got)
	}
	if !strings.Contains(got, "### define_style (Interior Design Style Consultant)\nWarm Scandinavian.") {
		t.Errorf("buildUserPrompt() missing second context block: %q", got)
	}

	// Context blocks appear in pipeline order
	if strings.Index(got, "analyze_space") > strings.Index(got, "define_style") {
		t.Error("buildUserPrompt() context blocks out of order")
	}
}

func TestBuildUserPrompt_NoContext(t *testing.T) {
	got := buildUserPrompt("Analyze the space.", "A brief analysis", nil)

	if strings.Contains(got, "Context from the design team") {
		t.Errorf("buildUserPrompt() = %q, has context section with no prior outputs", got)
	}
}

func TestBuildUserPrompt_NoExpectedOutput(t *testing.T) {
	got := buildUserPrompt("Analyze the space.", "", nil)

	if got != "Analyze the space." {
		t.Errorf("buildUserPrompt() = %q, want bare description", got)
	}
}
