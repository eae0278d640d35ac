package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "decora",
	Short: "AI interior design consultation",
	Long: `Decora runs a five-agent AI interior design consultation: space
analysis, style direction, furniture sourcing, budget optimization, and
a final design plan, produced by hosted LLMs with live web research.

With no arguments, shows this help. Run 'decora consult' to start a
consultation with the sample room, or 'decora serve' for the web UI.

Required environment:
  One LLM key   GROQ_API_KEY (free), OPENAI_API_KEY, XAI_API_KEY,
                or ANTHROPIC_API_KEY
  SERPER_API_KEY   web search for the style and furniture agents`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(consultCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
