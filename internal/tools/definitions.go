// Package tools wires the crew's tools: the model-facing definitions and
// the executor that runs them.
package tools

import (
	"github.com/decora-ai/decora/internal/llm"
	"github.com/decora-ai/decora/pkg/models"
)

// Definitions returns the model-facing definitions of every tool.
func Definitions() []llm.ToolDef {
	return []llm.ToolDef{
		{
			Name: string(models.ToolWebSearch),
			Description: "Searches the web with Google and returns the top results " +
				"(title, link, snippet). Use for researching furniture options, " +
				"price ranges, and design trends.",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "The search query",
				},
			},
			Required: []string{"query"},
		},
		{
			Name: string(models.ToolScrapeWebsite),
			Description: "Fetches a web page and returns its readable text with " +
				"markup removed. Use to read product pages or articles found " +
				"through web_search.",
			Properties: map[string]interface{}{
				"url": map[string]interface{}{
					"type":        "string",
					"description": "The URL to fetch (http or https)",
				},
			},
			Required: []string{"url"},
		},
		{
			Name: string(models.ToolRoomLayoutCheck),
			Description: "Validates if furniture fits in a room and provides layout recommendations. " +
				"CRITICAL: furniture_list MUST be a JSON array string with this exact format: " +
				`[{"name":"ItemName","width":##,"depth":##},...] ` +
				"where width and depth are in INCHES (not feet). " +
				"Example input: room_length=15.0, room_width=12.0, " +
				`furniture_list='[{"name":"Sofa","width":84,"depth":36},{"name":"Chair","width":32,"depth":34}]', ` +
				"room_type='living_room'. " +
				"Returns: JSON with layout validation, space analysis, and recommendations.",
			Properties: map[string]interface{}{
				"room_length": map[string]interface{}{
					"type":        "number",
					"description": "Room length in feet",
				},
				"room_width": map[string]interface{}{
					"type":        "number",
					"description": "Room width in feet",
				},
				"furniture_list": map[string]interface{}{
					"type": "string",
					"description": "JSON array string with furniture items. " +
						`REQUIRED format: [{"name":"ItemName","width":##,"depth":##},...] ` +
						"where width and depth are in INCHES. " +
						`Example: "[{\"name\":\"Sofa\",\"width\":84,\"depth\":36},{\"name\":\"Table\",\"width\":48,\"depth\":24}]"`,
				},
				"room_type": map[string]interface{}{
					"type":        "string",
					"description": "Type of room: living_room, bedroom, office, etc.",
				},
			},
			Required: []string{"room_length", "room_width", "furniture_list"},
		},
	}
}

// ForAgent returns the definitions of the tools granted to the agent, in
// the Definitions order.
func ForAgent(def *models.AgentDef) []llm.ToolDef {
	var out []llm.ToolDef
	for _, td := range Definitions() {
		if def.HasTool(models.ToolName(td.Name)) {
			out = append(out, td)
		}
	}
	return out
}
