package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/decora-ai/decora/internal/layout"
	"github.com/decora-ai/decora/pkg/models"
)

var (
	checkLength   float64
	checkWidth    float64
	checkRoomType string
	checkFile     string
	checkJSONOnly bool
)

var checkCmd = &cobra.Command{
	Use:   "check [furniture-json]",
	Short: "Check a furniture layout against room geometry",
	Long: `Check whether a furniture list fits a room, with circulation and
clearance analysis. Runs entirely offline; no LLM or API keys needed.

Furniture is a JSON array of pieces with dimensions in inches:

  [{"name": "Sofa", "width": 84, "depth": 38},
   {"name": "Coffee Table", "width": 48, "depth": 24,
    "placement": {"x_in": 30, "y_in": 50}}]

Pass it as the argument, via --file, or on stdin. The full result is
printed as JSON; the exit code is 0 when the layout is valid and 1
when it is not.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().Float64Var(&checkLength, "length", 15, "Room length in feet")
	checkCmd.Flags().Float64Var(&checkWidth, "width", 12, "Room width in feet")
	checkCmd.Flags().StringVar(&checkRoomType, "room-type", "living_room", "Room type label")
	checkCmd.Flags().StringVarP(&checkFile, "file", "f", "", "Read the furniture JSON from a file ('-' for stdin)")
	checkCmd.Flags().BoolVar(&checkJSONOnly, "json", false, "Print only the JSON result")
}

func runCheck(cmd *cobra.Command, args []string) error {
	raw, err := readFurnitureInput(args)
	if err != nil {
		return err
	}

	var furniture []models.FurnitureItem
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &furniture); err != nil {
			return fmt.Errorf("parse furniture JSON: %w", err)
		}
	}

	req := layout.CheckRequest{
		RoomLength: checkLength,
		RoomWidth:  checkWidth,
		RoomType:   models.NormalizeRoomType(checkRoomType),
		Furniture:  furniture,
	}
	result := layout.Check(req)

	// History is best-effort; a locked or missing database must not
	// block an offline check.
	if db, err := openStore(); err == nil {
		if err := db.RecordLayoutCheck(context.Background(), req, result); err != nil {
			fmt.Fprintf(os.Stderr, "warning: record layout check: %v\n", err)
		}
		db.Close()
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Println(string(out))

	if !checkJSONOnly {
		fmt.Println()
		if result.LayoutValid {
			color.Green("✓ %s", result.Summary)
		} else {
			color.Red("✗ %s", result.Summary)
			for _, issue := range result.Issues {
				color.Yellow("  • %s", issue)
			}
		}
	}

	if !result.LayoutValid {
		// Exit 1 without cobra's usage noise.
		cmd.SilenceUsage = true
		return fmt.Errorf("layout is not valid")
	}
	return nil
}

// readFurnitureInput resolves the furniture JSON from the argument,
// --file, or stdin, in that order of precedence.
func readFurnitureInput(args []string) ([]byte, error) {
	if len(args) == 1 && args[0] != "" {
		return []byte(args[0]), nil
	}
	switch checkFile {
	case "":
		return nil, nil
	case "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	default:
		data, err := os.ReadFile(checkFile)
		if err != nil {
			return nil, fmt.Errorf("read furniture file: %w", err)
		}
		return data, nil
	}
}
