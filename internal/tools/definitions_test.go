package tools

import (
	"strings"
	"testing"

	"github.com/decora-ai/decora/internal/llm"
	"github.com/decora-ai/decora/pkg/models"
)

func TestDefinitions(t *testing.T) {
	defs := Definitions()

	if len(defs) != 3 {
		t.Fatalf("len(Definitions()) = %d, want 3", len(defs))
	}

	expected := []string{"web_search", "scrape_website", "room_layout_check"}
	for _, name := range expected {
		found := false
		for _, d := range defs {
			if d.Name == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing expected tool: %s", name)
		}
	}
}

func TestDefinitions_RoomLayoutSchema(t *testing.T) {
	var def llm.ToolDef
	found := false
	for _, d := range Definitions() {
		if d.Name == "room_layout_check" {
			def = d
			found = true
		}
	}
	if !found {
		t.Fatal("room_layout_check definition not found")
	}

	for _, name := range []string{"room_length", "room_width", "furniture_list", "room_type"} {
		if _, ok := def.Properties[name]; !ok {
			t.Errorf("schema missing property %s", name)
		}
	}

	wantRequired := map[string]bool{"room_length": true, "room_width": true, "furniture_list": true}
	if len(def.Required) != 3 {
		t.Errorf("Required = %v, want the three mandatory fields", def.Required)
	}
	for _, r := range def.Required {
		if !wantRequired[r] {
			t.Errorf("unexpected required field %s", r)
		}
	}

	if !strings.Contains(def.Description, "INCHES") {
		t.Error("description should stress that dimensions are in inches")
	}
	if !strings.Contains(def.Description, "JSON array string") {
		t.Error("description should spell out the furniture_list format")
	}
}

func TestForAgent(t *testing.T) {
	tests := []struct {
		name  string
		agent models.AgentDef
		want  []string
	}{
		{
			name:  "no tools",
			agent: models.AgentDef{Role: models.RoleProjectManager},
			want:  nil,
		},
		{
			name:  "layout only",
			agent: models.AgentDef{Role: models.RoleSpaceAnalyst, Tools: []models.ToolName{models.ToolRoomLayoutCheck}},
			want:  []string{"room_layout_check"},
		},
		{
			name: "web pair",
			agent: models.AgentDef{
				Role:  models.RoleStyleConsultant,
				Tools: []models.ToolName{models.ToolWebSearch, models.ToolScrapeWebsite},
			},
			want: []string{"web_search", "scrape_website"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ForAgent(&tt.agent)
			if len(got) != len(tt.want) {
				t.Fatalf("len(ForAgent) = %d, want %d", len(got), len(tt.want))
			}
			for i, name := range tt.want {
				if got[i].Name != name {
					t.Errorf("ForAgent[%d].Name = %q, want %q", i, got[i].Name, name)
				}
			}
		})
	}
}
