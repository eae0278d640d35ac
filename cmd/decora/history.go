package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/decora-ai/decora/pkg/models"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past consultations",
	Long: `List past consultations from the local history database, most
recent first, with their status and saved report paths.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of consultations to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	consultations, err := db.ListConsultations(historyLimit)
	if err != nil {
		return fmt.Errorf("list consultations: %w", err)
	}
	if len(consultations) == 0 {
		fmt.Println("No consultations yet. Run 'decora consult' to start one.")
		return nil
	}

	fmt.Printf("%-36s  %-10s  %-12s  %-8s  %s\n", "ID", "STATUS", "ROOM", "BUDGET", "WHEN")
	fmt.Println(strings.Repeat("-", 90))
	for _, c := range consultations {
		fmt.Printf("%-36s  %s  %-12s  $%-7d  %s\n",
			c.ID,
			statusCell(c.Status),
			c.Request.RoomType,
			c.Request.Budget,
			c.CreatedAt.Format("2006-01-02 15:04"),
		)
		if c.Status == models.ConsultationCompleted && c.ReportFile != "" {
			fmt.Printf("    report: %s\n", c.ReportFile)
		}
		if c.Status == models.ConsultationFailed && c.Error != "" {
			color.Red("    error: %s", c.Error)
		}
	}
	return nil
}

// statusCell pads the status to column width before coloring, so ANSI
// escape bytes do not break the alignment.
func statusCell(s models.ConsultationStatus) string {
	padded := fmt.Sprintf("%-10s", s)
	switch s {
	case models.ConsultationCompleted:
		return color.GreenString(padded)
	case models.ConsultationFailed:
		return color.RedString(padded)
	case models.ConsultationRunning:
		return color.YellowString(padded)
	default:
		return padded
	}
}
