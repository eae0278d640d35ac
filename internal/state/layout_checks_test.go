package state

import (
	"context"
	"strings"
	"testing"

	"github.com/decora-ai/decora/internal/layout"
	"github.com/decora-ai/decora/pkg/models"
)

// sampleCheck returns a check request and result for recording.
func sampleCheck() (layout.CheckRequest, models.LayoutResult) {
	req := layout.CheckRequest{
		RoomLength: 15,
		RoomWidth:  12,
		RoomType:   models.RoomLivingRoom,
		Furniture: []models.FurnitureItem{
			{Name: "Sofa", Width: 84, Depth: 36},
			{Name: "Coffee Table", Width: 48, Depth: 24},
		},
	}
	result := models.LayoutResult{
		LayoutValid: true,
		SpaceAnalysis: models.SpaceAnalysis{
			OpenSpacePercent:  75.5,
			CirculationRating: "good",
		},
	}
	return req, result
}

func TestRecordLayoutCheck_Standalone(t *testing.T) {
	db := setupTestDB(t)

	req, result := sampleCheck()
	if err := db.RecordLayoutCheck(context.Background(), req, result); err != nil {
		t.Fatalf("RecordLayoutCheck failed: %v", err)
	}

	checks, err := db.ListLayoutChecks("", 0)
	if err != nil {
		t.Fatalf("ListLayoutChecks failed: %v", err)
	}
	if len(checks) != 1 {
		t.Fatalf("len(checks) = %d, want 1", len(checks))
	}

	lc := checks[0]
	if lc.ConsultationID != "" {
		t.Errorf("ConsultationID = %q, want empty for standalone check", lc.ConsultationID)
	}
	if lc.RoomType != models.RoomLivingRoom {
		t.Errorf("RoomType = %q, want living_room", lc.RoomType)
	}
	if lc.RoomLength != 15 || lc.RoomWidth != 12 {
		t.Errorf("room dims = %gx%g, want 15x12", lc.RoomLength, lc.RoomWidth)
	}
	if len(lc.Furniture) != 2 {
		t.Fatalf("len(Furniture) = %d, want 2", len(lc.Furniture))
	}
	if lc.Furniture[0].Name != "Sofa" || lc.Furniture[0].Width != 84 {
		t.Errorf("Furniture[0] = %+v, want Sofa 84x36", lc.Furniture[0])
	}
	if !lc.LayoutValid {
		t.Error("LayoutValid = false, want true")
	}
	if lc.OpenSpacePercent != 75.5 {
		t.Errorf("OpenSpacePercent = %g, want 75.5", lc.OpenSpacePercent)
	}
	if lc.Rating != "good" {
		t.Errorf("Rating = %q, want good", lc.Rating)
	}
	if lc.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero, want set")
	}
}

func TestRecorder_AttributesConsultation(t *testing.T) {
	db := setupTestDB(t)

	if err := db.CreateConsultation(sampleConsultation("c-1")); err != nil {
		t.Fatalf("CreateConsultation failed: %v", err)
	}

	req, result := sampleCheck()
	recorder := db.Recorder("c-1")
	if err := recorder.RecordLayoutCheck(context.Background(), req, result); err != nil {
		t.Fatalf("RecordLayoutCheck failed: %v", err)
	}

	checks, err := db.ListLayoutChecks("c-1", 0)
	if err != nil {
		t.Fatalf("ListLayoutChecks failed: %v", err)
	}
	if len(checks) != 1 {
		t.Fatalf("len(checks) = %d, want 1", len(checks))
	}
	if checks[0].ConsultationID != "c-1" {
		t.Errorf("ConsultationID = %q, want c-1", checks[0].ConsultationID)
	}

	other, err := db.ListLayoutChecks("c-other", 0)
	if err != nil {
		t.Fatalf("ListLayoutChecks failed: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("len(other) = %d, want 0", len(other))
	}
}

func TestListLayoutChecks_Limit(t *testing.T) {
	db := setupTestDB(t)

	req, result := sampleCheck()
	for i := 0; i < 3; i++ {
		if err := db.RecordLayoutCheck(context.Background(), req, result); err != nil {
			t.Fatalf("RecordLayoutCheck failed: %v", err)
		}
	}

	checks, err := db.ListLayoutChecks("", 2)
	if err != nil {
		t.Fatalf("ListLayoutChecks failed: %v", err)
	}
	if len(checks) != 2 {
		t.Errorf("len(checks) = %d, want 2", len(checks))
	}
	// Newest first by insertion order
	if len(checks) == 2 && checks[0].ID < checks[1].ID {
		t.Errorf("checks not newest first: ids %d, %d", checks[0].ID, checks[1].ID)
	}
}

func TestRecordLayoutCheck_UnknownConsultation(t *testing.T) {
	db := setupTestDB(t)

	req, result := sampleCheck()
	err := db.Recorder("missing").RecordLayoutCheck(context.Background(), req, result)
	if err == nil {
		t.Error("expected foreign key error for unknown consultation")
	}
}

func TestListLayoutChecks_CorruptFurnitureRow(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.Exec(`
		INSERT INTO layout_checks (room_type, room_length, room_width, furniture,
			layout_valid, open_space_percent, circulation_rating, created_at)
		VALUES ('living_room', 15, 12, '{not json', 1, 75.5, 'good', '2026-01-01T00:00:00Z')
	`)
	if err != nil {
		t.Fatalf("insert corrupt row: %v", err)
	}

	_, err = db.ListLayoutChecks("", 0)
	if err == nil {
		t.Fatal("expected error for corrupt stored furniture")
	}
	if !strings.Contains(err.Error(), "parse furniture") {
		t.Errorf("error = %v, want furniture parse failure", err)
	}
}
