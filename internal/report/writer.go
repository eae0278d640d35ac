// Package report writes consultation artifacts to disk: the design plan
// text and a metadata JSON sidecar next to it.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/decora-ai/decora/pkg/models"
)

// DefaultDir is where reports land, relative to the working directory.
const DefaultDir = "outputs/reports"

// timestampLayout produces names like design_plan_20250101_143000.txt.
const timestampLayout = "20060102_150405"

// Writer saves design plans under a reports directory.
type Writer struct {
	dir string
}

// NewWriter creates a writer that saves under dir. An empty dir uses
// DefaultDir.
func NewWriter(dir string) *Writer {
	if dir == "" {
		dir = DefaultDir
	}
	return &Writer{dir: dir}
}

// Dir returns the reports directory.
func (w *Writer) Dir() string {
	return w.dir
}

// roomInfo is the room section of the metadata file.
type roomInfo struct {
	RoomType   string  `json:"room_type"`
	RoomLength float64 `json:"room_length"`
	RoomWidth  float64 `json:"room_width"`
	RoomHeight float64 `json:"room_height"`
	Windows    string  `json:"windows"`
	Doors      string  `json:"doors"`
	MustHaves  string  `json:"must_haves"`
}

// userPreferences is the preferences section of the metadata file.
type userPreferences struct {
	Style           string `json:"style"`
	ColorPreference string `json:"color_preference"`
	MustHaves       string `json:"must_haves"`
	Avoid           string `json:"avoid"`
	Budget          int    `json:"budget"`
}

// Metadata is the sidecar JSON written next to each report.
type Metadata struct {
	Timestamp       string          `json:"timestamp"`
	RoomInfo        roomInfo        `json:"room_info"`
	UserPreferences userPreferences `json:"user_preferences"`
	Budget          int             `json:"budget"`
	ReportFile      string          `json:"report_file"`
	Provider        string          `json:"provider,omitempty"`
	Model           string          `json:"model,omitempty"`
	Usage           models.Usage    `json:"usage"`
}

// Save writes the plan text and its metadata sidecar, fills the plan's
// ReportFile and MetadataFile fields, and returns the report path.
func (w *Writer) Save(req models.ConsultationRequest, plan *models.DesignPlan) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("create reports directory: %w", err)
	}

	if plan.GeneratedAt.IsZero() {
		plan.GeneratedAt = time.Now()
	}
	ts := plan.GeneratedAt.Format(timestampLayout)

	reportFile := filepath.Join(w.dir, fmt.Sprintf("design_plan_%s.txt", ts))
	if err := os.WriteFile(reportFile, []byte(plan.Report), 0644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	meta := Metadata{
		Timestamp: ts,
		RoomInfo: roomInfo{
			RoomType:   string(req.RoomType),
			RoomLength: req.RoomLength,
			RoomWidth:  req.RoomWidth,
			RoomHeight: req.RoomHeight,
			Windows:    req.Windows,
			Doors:      req.Doors,
			MustHaves:  req.MustHaves,
		},
		UserPreferences: userPreferences{
			Style:           req.StylePreference,
			ColorPreference: req.ColorPreference,
			MustHaves:       req.MustHaves,
			Avoid:           req.Avoid,
			Budget:          req.Budget,
		},
		Budget:     req.Budget,
		ReportFile: reportFile,
		Provider:   plan.Provider,
		Model:      plan.Model,
		Usage:      plan.Usage,
	}

	metaJSON, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}
	metadataFile := filepath.Join(w.dir, fmt.Sprintf("metadata_%s.json", ts))
	if err := os.WriteFile(metadataFile, metaJSON, 0644); err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}

	plan.ReportFile = reportFile
	plan.MetadataFile = metadataFile
	return reportFile, nil
}
