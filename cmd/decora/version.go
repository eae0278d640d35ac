package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/decora-ai/decora/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("decora %s\n", version.Get())
	},
}
