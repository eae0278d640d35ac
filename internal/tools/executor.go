package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/decora-ai/decora/internal/layout"
	"github.com/decora-ai/decora/internal/search"
	"github.com/decora-ai/decora/pkg/models"
)

// toolTimeout bounds one web tool call so a hung site cannot stall a
// consultation task.
const toolTimeout = 30 * time.Second

// ToolResult represents the result of a tool execution.
type ToolResult struct {
	Content string
	IsError bool
}

// LayoutRecorder receives every layout check for the history store.
type LayoutRecorder interface {
	RecordLayoutCheck(ctx context.Context, req layout.CheckRequest, result models.LayoutResult) error
}

// Executor executes tool calls issued by the crew's agents.
type Executor struct {
	search   *search.SerperClient
	scraper  *search.Scraper
	recorder LayoutRecorder
}

// NewExecutor creates an executor. A nil search client disables the web
// tools; a nil recorder skips layout history.
func NewExecutor(searchClient *search.SerperClient, scraper *search.Scraper, recorder LayoutRecorder) *Executor {
	return &Executor{
		search:   searchClient,
		scraper:  scraper,
		recorder: recorder,
	}
}

// Execute runs a tool by name with the given JSON input.
func (e *Executor) Execute(ctx context.Context, name string, input json.RawMessage) ToolResult {
	switch models.ToolName(name) {
	case models.ToolWebSearch:
		return e.execWebSearch(ctx, input)
	case models.ToolScrapeWebsite:
		return e.execScrapeWebsite(ctx, input)
	case models.ToolRoomLayoutCheck:
		return e.execRoomLayoutCheck(ctx, input)
	default:
		return ToolResult{Content: fmt.Sprintf("Unknown tool: %s", name), IsError: true}
	}
}

func (e *Executor) execWebSearch(ctx context.Context, input json.RawMessage) ToolResult {
	var params struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(input, &params); err != nil {
		return ToolResult{Content: fmt.Sprintf("Invalid parameters: %v", err), IsError: true}
	}
	if strings.TrimSpace(params.Query) == "" {
		return ToolResult{Content: "Missing 'query' parameter", IsError: true}
	}
	if e.search == nil {
		return ToolResult{Content: "Web search is not configured: set SERPER_API_KEY", IsError: true}
	}

	ctx, cancel := context.WithTimeout(ctx, toolTimeout)
	defer cancel()

	results, err := e.search.Search(ctx, params.Query)
	if err != nil {
		return ToolResult{Content: fmt.Sprintf("Search failed: %v", err), IsError: true}
	}
	return ToolResult{Content: results.Format()}
}

func (e *Executor) execScrapeWebsite(ctx context.Context, input json.RawMessage) ToolResult {
	var params struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(input, &params); err != nil {
		return ToolResult{Content: fmt.Sprintf("Invalid parameters: %v", err), IsError: true}
	}
	if !strings.HasPrefix(params.URL, "http://") && !strings.HasPrefix(params.URL, "https://") {
		return ToolResult{Content: fmt.Sprintf("Invalid URL %q: must start with http:// or https://", params.URL), IsError: true}
	}
	if e.scraper == nil {
		return ToolResult{Content: "Website scraping is not configured", IsError: true}
	}

	ctx, cancel := context.WithTimeout(ctx, toolTimeout)
	defer cancel()

	text, err := e.scraper.Scrape(ctx, params.URL)
	if err != nil {
		return ToolResult{Content: fmt.Sprintf("Scrape failed: %v", err), IsError: true}
	}
	return ToolResult{Content: text}
}

func (e *Executor) execRoomLayoutCheck(ctx context.Context, input json.RawMessage) ToolResult {
	var params struct {
		RoomLength    float64 `json:"room_length"`
		RoomWidth     float64 `json:"room_width"`
		FurnitureList string  `json:"furniture_list"`
		RoomType      string  `json:"room_type"`
	}
	if err := json.Unmarshal(input, &params); err != nil {
		return ToolResult{Content: fmt.Sprintf("Invalid parameters: %v", err), IsError: true}
	}

	var items []models.FurnitureItem
	if strings.TrimSpace(params.FurnitureList) != "" {
		if err := json.Unmarshal([]byte(params.FurnitureList), &items); err != nil {
			return ToolResult{
				Content: fmt.Sprintf("Invalid furniture_list: %v. Expected a JSON array string like "+
					`[{"name":"Sofa","width":84,"depth":36}]`, err),
				IsError: true,
			}
		}
	}

	roomType := models.NormalizeRoomType(params.RoomType)
	if roomType == "" {
		roomType = models.RoomLivingRoom
	}

	req := layout.CheckRequest{
		RoomLength: params.RoomLength,
		RoomWidth:  params.RoomWidth,
		RoomType:   roomType,
		Furniture:  items,
	}
	result := layout.Check(req)

	if e.recorder != nil {
		_ = e.recorder.RecordLayoutCheck(ctx, req, result)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return ToolResult{Content: fmt.Sprintf("Failed to encode result: %v", err), IsError: true}
	}
	return ToolResult{Content: string(out)}
}

// FormatToolAction returns a short human-readable line describing a tool
// call, for progress displays.
func FormatToolAction(name string, input json.RawMessage) string {
	switch models.ToolName(name) {
	case models.ToolWebSearch:
		var p struct {
			Query string `json:"query"`
		}
		json.Unmarshal(input, &p)
		return "Searching: " + truncate(p.Query, 60)
	case models.ToolScrapeWebsite:
		var p struct {
			URL string `json:"url"`
		}
		json.Unmarshal(input, &p)
		return "Reading " + truncate(p.URL, 60)
	case models.ToolRoomLayoutCheck:
		var p struct {
			RoomLength float64 `json:"room_length"`
			RoomWidth  float64 `json:"room_width"`
		}
		json.Unmarshal(input, &p)
		return fmt.Sprintf("Checking layout: %g' x %g' room", p.RoomLength, p.RoomWidth)
	default:
		return "Using " + name
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
