package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/decora-ai/decora/internal/config"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Show the design team roster",
	Long: `Show the agents and tasks that make up the consultation pipeline.

Definitions come from agents.yaml and tasks.yaml in the crew definitions
directory (configs/ by default); the built-in team is used when those
files are absent.`,
	RunE: runAgents,
}

func runAgents(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	defs, err := loadDefs(cfg)
	if err != nil {
		return err
	}

	color.Cyan("Agents (%d)", len(defs.Agents))
	for _, agent := range defs.Agents {
		fmt.Printf("\n  %s", color.GreenString(agent.Title))
		fmt.Printf("  (%s)\n", agent.Role)
		fmt.Printf("    goal:  %s\n", agent.Goal)
		if len(agent.Tools) > 0 {
			fmt.Printf("    tools: ")
			for i, tool := range agent.Tools {
				if i > 0 {
					fmt.Print(", ")
				}
				fmt.Print(tool)
			}
			fmt.Println()
		}
		if agent.AllowDelegation {
			fmt.Printf("    delegates to specialists\n")
		}
	}

	color.Cyan("\nPipeline (%d tasks)", len(defs.Tasks))
	for i, task := range defs.Tasks {
		fmt.Printf("  %d. %-16s → %s\n", i+1, task.Name, task.Agent)
	}
	return nil
}
