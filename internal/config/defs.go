package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/decora-ai/decora/pkg/models"
)

// CrewDefs holds the agent and task definitions that make up the design
// crew. They are loaded from agents.yaml and tasks.yaml, with built-in
// defaults as fallback.
type CrewDefs struct {
	Agents []models.AgentDef `yaml:"agents"`
	Tasks  []models.TaskDef  `yaml:"tasks"`
}

// Validate checks that the definitions form a runnable crew: every agent
// role and tool is known, every task names a defined agent, and there is
// at least one task.
func (d *CrewDefs) Validate() error {
	if len(d.Tasks) == 0 {
		return fmt.Errorf("no tasks defined")
	}

	roles := make(map[models.AgentRole]bool, len(d.Agents))
	for i, agent := range d.Agents {
		if !agent.Role.Valid() {
			return fmt.Errorf("agent %d: unknown role %q", i+1, agent.Role)
		}
		if roles[agent.Role] {
			return fmt.Errorf("agent %d: duplicate role %q", i+1, agent.Role)
		}
		roles[agent.Role] = true
		for _, tool := range agent.Tools {
			if !tool.Valid() {
				return fmt.Errorf("agent %q: unknown tool %q", agent.Role, tool)
			}
		}
	}

	names := make(map[string]bool, len(d.Tasks))
	for i, task := range d.Tasks {
		if task.Name == "" {
			return fmt.Errorf("task %d: missing name", i+1)
		}
		if names[task.Name] {
			return fmt.Errorf("task %d: duplicate name %q", i+1, task.Name)
		}
		names[task.Name] = true
		if !roles[task.Agent] {
			return fmt.Errorf("task %q: references undefined agent %q", task.Name, task.Agent)
		}
		if task.Description == "" {
			return fmt.Errorf("task %q: missing description", task.Name)
		}
	}

	return nil
}

// AgentFor returns the agent definition assigned to the given role.
func (d *CrewDefs) AgentFor(role models.AgentRole) (models.AgentDef, bool) {
	for _, agent := range d.Agents {
		if agent.Role == role {
			return agent, true
		}
	}
	return models.AgentDef{}, false
}

// LoadCrewDefs loads agent and task definitions from the given directory.
// It looks for agents.yaml and tasks.yaml. If configsDir is empty, it
// defaults to "configs" relative to the current directory.
func LoadCrewDefs(configsDir string) (*CrewDefs, error) {
	if configsDir == "" {
		configsDir = "configs"
	}

	defs := &CrewDefs{}

	agentsPath := filepath.Join(configsDir, "agents.yaml")
	if err := loadDefsFile(agentsPath, defs); err != nil {
		return nil, fmt.Errorf("load agent defs: %w", err)
	}

	tasksPath := filepath.Join(configsDir, "tasks.yaml")
	if err := loadDefsFile(tasksPath, defs); err != nil {
		return nil, fmt.Errorf("load task defs: %w", err)
	}

	if err := defs.Validate(); err != nil {
		return nil, fmt.Errorf("invalid crew defs: %w", err)
	}

	return defs, nil
}

// loadDefsFile unmarshals one YAML definitions file into defs. Both files
// share the CrewDefs structure; each contributes only its own section.
func loadDefsFile(path string, defs *CrewDefs) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, defs); err != nil {
		return fmt.Errorf("unmarshaling %s: %w", path, err)
	}

	return nil
}

// DefaultCrewDefs returns the built-in agent and task definitions.
// This is used as a fallback when YAML files are not available.
func DefaultCrewDefs() *CrewDefs {
	return &CrewDefs{
		Agents: []models.AgentDef{
			{
				Role:  models.RoleProjectManager,
				Title: "Interior Design Project Manager",
				Goal: "Orchestrate comprehensive interior design consultation by coordinating " +
					"specialized agents to analyze spaces, recommend furniture, create color " +
					"schemes, and optimize budgets to deliver complete design plans",
				Backstory: `You are an experienced interior design project manager with 15 years
in residential design. You excel at breaking down client needs into actionable
tasks and coordinating teams of specialists.

Your approach is methodical:
1. First, understand the space through analysis
2. Then, define the design direction and style
3. Next, find specific furniture that fits
4. Finally, ensure everything fits the budget

You maintain context across the entire project and ensure all team members
have the information they need. You're skilled at synthesizing diverse inputs
into cohesive, actionable design plans.`,
				AllowDelegation: true,
			},
			{
				Role:  models.RoleSpaceAnalyst,
				Title: "Space Planning Specialist",
				Goal: "Analyze room dimensions, validate furniture layouts, and ensure optimal " +
					"space utilization using the room layout check tool",
				Backstory: `You are a certified space planner with expertise in residential
interior design. You have a degree in Interior Architecture and understand
spatial relationships, traffic flow, and ergonomics.

You always start by understanding the room:
- Exact dimensions (length, width, height)
- Door and window locations
- Existing constraints
- Functional requirements

You use the room layout check tool to validate every furniture recommendation.
You never guess - you calculate. You ensure that:
- All furniture physically fits
- Walkways are adequate (30-36 inches)
- The room doesn't feel cramped
- Traffic flow is unobstructed

When you identify issues, you provide specific solutions with measurements.`,
				Tools: []models.ToolName{models.ToolRoomLayoutCheck},
			},
			{
				Role:  models.RoleStyleConsultant,
				Title: "Interior Design Style Consultant",
				Goal: "Define design style direction by interpreting preferences and creating " +
					"cohesive aesthetic guidelines that other agents can follow",
				Backstory: `You are a senior interior designer with 12 years of experience
and a keen eye for style. You've worked on hundreds of residential projects
and can instantly recognize design styles and translate vague preferences
into concrete design directions.

You understand all major design styles:
- Modern Scandinavian: Light, minimal, natural materials, hygge
- Mid-Century Modern: Organic curves, wood, retro charm
- Industrial: Raw materials, exposed elements, urban edge
- Bohemian: Eclectic, layered, global influences
- Minimalist: Clean lines, maximum function, minimum clutter
- Traditional: Classic elegance, rich fabrics, symmetry

When a user says "modern but warm," you know they likely want Modern
Scandinavian or Japandi. When they say "edgy," you think Industrial or
Contemporary.

You always:
1. Define 3-5 key style characteristics
2. Specify materials and textures
3. Identify what to avoid
4. Provide real examples for inspiration

You use web search to find current style trends and inspiration.`,
				Tools: []models.ToolName{models.ToolWebSearch, models.ToolScrapeWebsite},
			},
			{
				Role:  models.RoleFurnitureSpecialist,
				Title: "Furniture & Product Specialist",
				Goal: "Find specific furniture products with real purchase links that match the " +
					"style direction, fit the space dimensions, and align with the budget",
				Backstory: `You are a furniture sourcing expert with encyclopedic knowledge
of home furnishing retailers. You've worked as a buyer for major design firms
and know exactly where to find the best pieces.

Your go-to retailers:
- Article: Modern, mid-century, quality construction
- West Elm: Contemporary, wide range, good mid-tier
- IKEA: Budget-friendly, Scandinavian, functional
- CB2: Modern, urban, design-forward
- Wayfair: Huge selection, all price points
- AllModern: Clean contemporary, good value

When recommending furniture, you always:
1. Search for products matching the style
2. Verify dimensions fit the space
3. Include exact product names and links
4. Provide 2-3 options at different price points
5. Note reviews and quality indicators
6. Check availability

You use web search to find products and web scraping to get detailed
specifications, pricing, and reviews. You provide specific, actionable
recommendations - not generic suggestions.`,
				Tools: []models.ToolName{models.ToolWebSearch, models.ToolScrapeWebsite},
			},
			{
				Role:  models.RoleBudgetOptimizer,
				Title: "Budget & Value Optimization Specialist",
				Goal: "Ensure the entire design plan fits within budget by finding alternatives, " +
					"suggesting smart spending priorities, and identifying cost-saving opportunities",
				Backstory: `You are a budget-conscious design consultant with 10 years of
experience helping clients maximize value. You understand that good design
doesn't require unlimited budgets - it requires smart choices.

Your philosophy on spending:

SPLURGE on (invest in quality):
- Sofa/seating: Used daily, lasts 10+ years
- Bed/mattress: Affects health and sleep
- Lighting: Impacts entire room ambiance
- Key statement pieces

SAVE on (find budget options):
- Side tables: Easy to upgrade later
- Decorative accessories: Can DIY or thrift
- Textiles: Affordable at HomeGoods, Target
- Small decor items

You always:
1. Calculate the total cost
2. Compare against the budget
3. Identify where costs can be reduced
4. Suggest phased implementation if over budget
5. Find sales, discounts, and alternatives
6. Provide specific money-saving tips

You use web search to find sales, compare prices, and identify better-value
alternatives. You're honest about what's worth the investment and what isn't.`,
				Tools: []models.ToolName{models.ToolWebSearch},
			},
		},
		Tasks: []models.TaskDef{
			{
				Name:  "analyze_space",
				Agent: models.RoleSpaceAnalyst,
				Description: `Analyze this {{.RoomType}} space:
- Size: {{.RoomLength}}' x {{.RoomWidth}}'
- Features: {{.Windows}}, {{.Doors}}
- Needs: {{.MustHaves}}

Provide: room area, layout constraints, furniture size recommendations (2-3 sentences).`,
				ExpectedOutput: "Brief space analysis with key measurements and recommendations",
			},
			{
				Name:  "define_style",
				Agent: models.RoleStyleConsultant,
				Description: `Define design style for:
- Preferred style: {{.Style}}
- Colors: {{.ColorPreference}}
- Budget: ${{.Budget}}

Provide: style name, 3-4 key characteristics, color palette (keep brief).`,
				ExpectedOutput: "Concise style direction with key guidelines",
			},
			{
				Name:  "find_furniture",
				Agent: models.RoleFurnitureSpecialist,
				Description: `Find 5-6 furniture items for {{.RoomType}}:
- Style: {{.Style}}
- Needs: {{.MustHaves}}
- Budget: ${{.Budget}}

For each item provide: name, price, dimensions, store, brief reason. Keep descriptions short.`,
				ExpectedOutput: "List of 5-6 furniture items with essential details",
			},
			{
				Name:  "optimize_budget",
				Agent: models.RoleBudgetOptimizer,
				Description: `Review furniture list and optimize for ${{.Budget}} budget.

Provide: total cost, budget status, 2-3 money-saving tips (brief).`,
				ExpectedOutput: "Budget summary with optimization suggestions",
			},
			{
				Name:  "final_plan",
				Agent: models.RoleProjectManager,
				Description: `Create final design plan summary for {{.RoomType}}.

Include:
1. Executive summary (2-3 sentences)
2. Room: {{.RoomLength}}' x {{.RoomWidth}}'
3. Style direction from Style Consultant
4. Furniture list from Furniture Agent
5. Budget summary from Budget Agent
6. Next steps (3-4 bullet points)

Keep concise and actionable. Total output should be 200-300 words.`,
				ExpectedOutput: "Concise final design plan (200-300 words)",
			},
		},
	}
}
