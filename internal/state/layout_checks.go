package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/decora-ai/decora/internal/layout"
	"github.com/decora-ai/decora/pkg/models"
)

// LayoutCheck is one stored layout check row.
type LayoutCheck struct {
	ID               int64                  `json:"id"`
	ConsultationID   string                 `json:"consultation_id,omitempty"`
	RoomType         models.RoomType        `json:"room_type"`
	RoomLength       float64                `json:"room_length"`
	RoomWidth        float64                `json:"room_width"`
	Furniture        []models.FurnitureItem `json:"furniture"`
	LayoutValid      bool                   `json:"layout_valid"`
	OpenSpacePercent float64                `json:"open_space_percent"`
	Rating           string                 `json:"circulation_rating"`
	CreatedAt        time.Time              `json:"created_at"`
}

// RecordLayoutCheck stores a standalone layout check, one not tied to any
// consultation (the `decora check` path).
func (db *DB) RecordLayoutCheck(ctx context.Context, req layout.CheckRequest, result models.LayoutResult) error {
	return db.recordLayoutCheck(ctx, "", req, result)
}

// Recorder returns a layout recorder that attributes every check to the
// given consultation. The consultation row must already exist.
func (db *DB) Recorder(consultationID string) *ConsultationRecorder {
	return &ConsultationRecorder{db: db, consultationID: consultationID}
}

// ConsultationRecorder records layout checks under one consultation run.
type ConsultationRecorder struct {
	db             *DB
	consultationID string
}

// RecordLayoutCheck stores a layout check attributed to the consultation.
func (r *ConsultationRecorder) RecordLayoutCheck(ctx context.Context, req layout.CheckRequest, result models.LayoutResult) error {
	return r.db.recordLayoutCheck(ctx, r.consultationID, req, result)
}

func (db *DB) recordLayoutCheck(ctx context.Context, consultationID string, req layout.CheckRequest, result models.LayoutResult) error {
	furniture, err := json.Marshal(req.Furniture)
	if err != nil {
		return fmt.Errorf("encode furniture: %w", err)
	}

	var cid *string
	if consultationID != "" {
		cid = &consultationID
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO layout_checks (consultation_id, room_type, room_length, room_width, furniture,
			layout_valid, open_space_percent, circulation_rating, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, cid, string(req.RoomType), req.RoomLength, req.RoomWidth, string(furniture),
		result.LayoutValid, result.SpaceAnalysis.OpenSpacePercent, result.SpaceAnalysis.CirculationRating,
		formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("record layout check: %w", err)
	}
	return nil
}

// ListLayoutChecks lists stored layout checks newest first. An empty
// consultationID lists checks from every run; a limit of 0 lists them all.
func (db *DB) ListLayoutChecks(consultationID string, limit int) ([]LayoutCheck, error) {
	query := `
		SELECT id, consultation_id, room_type, room_length, room_width, furniture,
			layout_valid, open_space_percent, circulation_rating, created_at
		FROM layout_checks`
	var args []any
	if consultationID != "" {
		query += " WHERE consultation_id = ?"
		args = append(args, consultationID)
	}
	query += " ORDER BY created_at DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list layout checks: %w", err)
	}
	defer rows.Close()

	var checks []LayoutCheck
	for rows.Next() {
		var lc LayoutCheck
		var cid sql.NullString
		var roomType, furniture string
		var rating sql.NullString
		var createdAt string
		if err := rows.Scan(&lc.ID, &cid, &roomType, &lc.RoomLength, &lc.RoomWidth, &furniture,
			&lc.LayoutValid, &lc.OpenSpacePercent, &rating, &createdAt); err != nil {
			return nil, fmt.Errorf("scan layout check: %w", err)
		}
		if cid.Valid {
			lc.ConsultationID = cid.String
		}
		lc.RoomType = models.RoomType(roomType)
		if err := json.Unmarshal([]byte(furniture), &lc.Furniture); err != nil {
			return nil, fmt.Errorf("parse furniture for layout check %d: %w", lc.ID, err)
		}
		lc.Rating = rating.String
		lc.CreatedAt, _ = parseTime(createdAt)
		checks = append(checks, lc)
	}
	return checks, nil
}
