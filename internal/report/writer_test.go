package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/decora-ai/decora/pkg/models"
)

func TestWriter_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	w := NewWriter(dir)

	req := models.DefaultConsultationRequest()
	plan := &models.DesignPlan{
		ConsultationID: "c-1",
		Report:         "COMPLETE DESIGN PLAN\n\n1. Executive Summary\n...",
		Provider:       "groq",
		Model:          "llama-3.3-70b-versatile",
		Usage: models.Usage{
			InputTokens:  2000,
			OutputTokens: 900,
			Calls:        7,
			Cost:         0.15,
		},
		GeneratedAt: time.Date(2025, 3, 14, 9, 26, 53, 0, time.Local),
	}

	reportFile, err := w.Save(req, plan)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if filepath.Base(reportFile) != "design_plan_20250314_092653.txt" {
		t.Errorf("report file = %q, want design_plan_20250314_092653.txt", filepath.Base(reportFile))
	}

	content, err := os.ReadFile(reportFile)
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	if string(content) != plan.Report {
		t.Errorf("report content = %q, want the plan text", string(content))
	}

	if plan.ReportFile != reportFile {
		t.Errorf("plan.ReportFile = %q, want %q", plan.ReportFile, reportFile)
	}
	if filepath.Base(plan.MetadataFile) != "metadata_20250314_092653.json" {
		t.Errorf("metadata file = %q, want metadata_20250314_092653.json", filepath.Base(plan.MetadataFile))
	}

	metaJSON, err := os.ReadFile(plan.MetadataFile)
	if err != nil {
		t.Fatalf("failed to read metadata: %v", err)
	}
	var meta Metadata
	if err := json.Unmarshal(metaJSON, &meta); err != nil {
		t.Fatalf("metadata is not valid JSON: %v", err)
	}

	if meta.Timestamp != "20250314_092653" {
		t.Errorf("Timestamp = %q, want 20250314_092653", meta.Timestamp)
	}
	if meta.RoomInfo.RoomType != "living_room" {
		t.Errorf("RoomInfo.RoomType = %q, want living_room", meta.RoomInfo.RoomType)
	}
	if meta.RoomInfo.RoomLength != 15 || meta.RoomInfo.RoomWidth != 12 {
		t.Errorf("room dims = %gx%g, want 15x12", meta.RoomInfo.RoomLength, meta.RoomInfo.RoomWidth)
	}
	if meta.UserPreferences.Style != req.StylePreference {
		t.Errorf("Style = %q, want %q", meta.UserPreferences.Style, req.StylePreference)
	}
	if meta.Budget != 4000 {
		t.Errorf("Budget = %d, want 4000", meta.Budget)
	}
	if meta.ReportFile != reportFile {
		t.Errorf("ReportFile = %q, want %q", meta.ReportFile, reportFile)
	}
	if meta.Provider != "groq" {
		t.Errorf("Provider = %q, want groq", meta.Provider)
	}
	if meta.Usage.Total() != 2900 {
		t.Errorf("Usage.Total() = %d, want 2900", meta.Usage.Total())
	}
}

func TestWriter_SaveSetsGeneratedAt(t *testing.T) {
	w := NewWriter(t.TempDir())

	plan := &models.DesignPlan{Report: "plan"}
	before := time.Now()
	if _, err := w.Save(models.DefaultConsultationRequest(), plan); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if plan.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not set")
	}
	if plan.GeneratedAt.Before(before.Truncate(time.Second)) {
		t.Errorf("GeneratedAt = %v, want at or after %v", plan.GeneratedAt, before)
	}
}

func TestWriter_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "reports")
	w := NewWriter(dir)

	if _, err := w.Save(models.DefaultConsultationRequest(), &models.DesignPlan{Report: "x"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Errorf("reports directory not created: %s", dir)
	}
}

func TestNewWriter_DefaultDir(t *testing.T) {
	w := NewWriter("")
	if w.Dir() != DefaultDir {
		t.Errorf("Dir() = %q, want %q", w.Dir(), DefaultDir)
	}
	if !strings.HasSuffix(DefaultDir, "reports") {
		t.Errorf("DefaultDir = %q, want an outputs/reports path", DefaultDir)
	}
}
