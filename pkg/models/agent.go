package models

// AgentRole identifies one of the specialist personas on the design team.
type AgentRole string

const (
	// RoleProjectManager orchestrates the consultation and writes the final plan.
	RoleProjectManager AgentRole = "project_manager"
	// RoleSpaceAnalyst analyzes dimensions and validates furniture layouts.
	RoleSpaceAnalyst AgentRole = "space_analyst"
	// RoleStyleConsultant defines the style direction and aesthetic guidelines.
	RoleStyleConsultant AgentRole = "style_consultant"
	// RoleFurnitureSpecialist sources specific furniture products.
	RoleFurnitureSpecialist AgentRole = "furniture_specialist"
	// RoleBudgetOptimizer keeps the plan within budget and finds alternatives.
	RoleBudgetOptimizer AgentRole = "budget_optimizer"
)

// Valid returns true if the role is a known value.
func (r AgentRole) Valid() bool {
	switch r {
	case RoleProjectManager, RoleSpaceAnalyst, RoleStyleConsultant,
		RoleFurnitureSpecialist, RoleBudgetOptimizer:
		return true
	default:
		return false
	}
}

// ToolName identifies a tool an agent may invoke during a task.
type ToolName string

const (
	// ToolWebSearch searches the web through the Serper API.
	ToolWebSearch ToolName = "web_search"
	// ToolScrapeWebsite fetches a page and returns its readable text.
	ToolScrapeWebsite ToolName = "scrape_website"
	// ToolRoomLayoutCheck validates a furniture layout against room dimensions.
	ToolRoomLayoutCheck ToolName = "room_layout_check"
)

// Valid returns true if the tool name is a known value.
func (t ToolName) Valid() bool {
	switch t {
	case ToolWebSearch, ToolScrapeWebsite, ToolRoomLayoutCheck:
		return true
	default:
		return false
	}
}

// AgentDef describes one agent persona: who it is, what it is trying to
// achieve, and which tools it may use. Definitions are data; the crew
// runner turns them into system prompts.
type AgentDef struct {
	// Role is the stable identifier used by task definitions.
	Role AgentRole `json:"role" yaml:"role"`
	// Title is the human-readable role title shown in prompts and UIs.
	Title string `json:"title" yaml:"title"`
	// Goal states what the agent is responsible for delivering.
	Goal string `json:"goal" yaml:"goal"`
	// Backstory primes the model with expertise and working style.
	Backstory string `json:"backstory" yaml:"backstory"`
	// Tools lists the tools this agent is allowed to invoke.
	Tools []ToolName `json:"tools,omitempty" yaml:"tools,omitempty"`
	// AllowDelegation marks the coordinating agent that may hand work
	// to specialists. Only the project manager sets this.
	AllowDelegation bool `json:"allow_delegation,omitempty" yaml:"allow_delegation,omitempty"`
}

// HasTool returns true if the agent is allowed to use the named tool.
func (a *AgentDef) HasTool(name ToolName) bool {
	for _, t := range a.Tools {
		if t == name {
			return true
		}
	}
	return false
}
