package state

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/decora-ai/decora/pkg/models"
)

// Consultation CRUD operations

// CreateConsultation inserts a new consultation record.
func (db *DB) CreateConsultation(c *models.Consultation) error {
	var completedAt *string
	if c.CompletedAt != nil {
		s := formatTime(*c.CompletedAt)
		completedAt = &s
	}

	_, err := db.Exec(`
		INSERT INTO consultations (id, room_type, room_length, room_width, room_height,
			windows, doors, style_preference, color_preference, must_haves, avoid, budget,
			status, provider, model, tokens_used, cost, report_file, metadata_file, error,
			created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, string(c.Request.RoomType), c.Request.RoomLength, c.Request.RoomWidth, c.Request.RoomHeight,
		c.Request.Windows, c.Request.Doors, c.Request.StylePreference, c.Request.ColorPreference,
		c.Request.MustHaves, c.Request.Avoid, c.Request.Budget,
		string(c.Status), c.Provider, c.Model, c.TokensUsed, c.Cost, c.ReportFile, c.MetadataFile, c.Error,
		formatTime(c.CreatedAt), completedAt)
	if err != nil {
		return fmt.Errorf("create consultation: %w", err)
	}
	return nil
}

// GetConsultation retrieves a consultation by ID.
func (db *DB) GetConsultation(id string) (*models.Consultation, error) {
	row := db.QueryRow(`
		SELECT id, room_type, room_length, room_width, room_height,
			windows, doors, style_preference, color_preference, must_haves, avoid, budget,
			status, provider, model, tokens_used, cost, report_file, metadata_file, error,
			created_at, completed_at
		FROM consultations WHERE id = ?
	`, id)

	c, err := scanConsultation(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get consultation: %w", err)
	}
	return c, nil
}

// UpdateConsultation updates a consultation's lifecycle fields. The request
// fields are immutable once created and are not touched.
func (db *DB) UpdateConsultation(c *models.Consultation) error {
	var completedAt *string
	if c.CompletedAt != nil {
		s := formatTime(*c.CompletedAt)
		completedAt = &s
	}

	_, err := db.Exec(`
		UPDATE consultations SET status = ?, provider = ?, model = ?, tokens_used = ?, cost = ?,
			report_file = ?, metadata_file = ?, error = ?, completed_at = ?
		WHERE id = ?
	`, string(c.Status), c.Provider, c.Model, c.TokensUsed, c.Cost,
		c.ReportFile, c.MetadataFile, c.Error, completedAt, c.ID)
	if err != nil {
		return fmt.Errorf("update consultation: %w", err)
	}
	return nil
}

// StartConsultation marks a consultation as running.
func (db *DB) StartConsultation(id string) error {
	_, err := db.Exec(`
		UPDATE consultations SET status = ? WHERE id = ?
	`, string(models.ConsultationRunning), id)
	if err != nil {
		return fmt.Errorf("start consultation: %w", err)
	}
	return nil
}

// CompleteConsultation marks a consultation as completed and records the
// plan artifacts and usage.
func (db *DB) CompleteConsultation(id string, plan *models.DesignPlan) error {
	completedAt := plan.GeneratedAt
	if completedAt.IsZero() {
		completedAt = time.Now()
	}

	_, err := db.Exec(`
		UPDATE consultations SET status = ?, provider = ?, model = ?, tokens_used = ?, cost = ?,
			report_file = ?, metadata_file = ?, error = '', completed_at = ?
		WHERE id = ?
	`, string(models.ConsultationCompleted), plan.Provider, plan.Model,
		plan.Usage.Total(), plan.Usage.Cost, plan.ReportFile, plan.MetadataFile,
		formatTime(completedAt), id)
	if err != nil {
		return fmt.Errorf("complete consultation: %w", err)
	}
	return nil
}

// FailConsultation marks a consultation as failed with the given cause.
func (db *DB) FailConsultation(id string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}

	_, err := db.Exec(`
		UPDATE consultations SET status = ?, error = ?, completed_at = ?
		WHERE id = ?
	`, string(models.ConsultationFailed), msg, formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("fail consultation: %w", err)
	}
	return nil
}

// ListConsultations lists consultations newest first. A limit of 0 lists
// them all.
func (db *DB) ListConsultations(limit int) ([]models.Consultation, error) {
	var rows *sql.Rows
	var err error

	if limit > 0 {
		rows, err = db.Query(`
			SELECT id, room_type, room_length, room_width, room_height,
				windows, doors, style_preference, color_preference, must_haves, avoid, budget,
				status, provider, model, tokens_used, cost, report_file, metadata_file, error,
				created_at, completed_at
			FROM consultations ORDER BY created_at DESC LIMIT ?
		`, limit)
	} else {
		rows, err = db.Query(`
			SELECT id, room_type, room_length, room_width, room_height,
				windows, doors, style_preference, color_preference, must_haves, avoid, budget,
				status, provider, model, tokens_used, cost, report_file, metadata_file, error,
				created_at, completed_at
			FROM consultations ORDER BY created_at DESC
		`)
	}
	if err != nil {
		return nil, fmt.Errorf("list consultations: %w", err)
	}
	defer rows.Close()

	var consultations []models.Consultation
	for rows.Next() {
		c, err := scanConsultation(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan consultation: %w", err)
		}
		consultations = append(consultations, *c)
	}
	return consultations, nil
}

// RecoverInterrupted marks consultations left pending or running by a
// previous process as failed. Called on startup so history never shows
// phantom in-progress runs. Returns the number of runs recovered.
func (db *DB) RecoverInterrupted() (int64, error) {
	result, err := db.Exec(`
		UPDATE consultations SET status = ?, error = 'interrupted', completed_at = ?
		WHERE status IN (?, ?)
	`, string(models.ConsultationFailed), formatTime(time.Now()),
		string(models.ConsultationPending), string(models.ConsultationRunning))
	if err != nil {
		return 0, fmt.Errorf("recover interrupted consultations: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return count, nil
}

// scanConsultation scans one consultation row via the given scan function.
func scanConsultation(scan func(dest ...any) error) (*models.Consultation, error) {
	var c models.Consultation
	var roomType string
	var windows, doors, stylePref, colorPref, mustHaves, avoid sql.NullString
	var provider, model, reportFile, metadataFile, errMsg sql.NullString
	var createdAt string
	var completedAt sql.NullString

	err := scan(&c.ID, &roomType, &c.Request.RoomLength, &c.Request.RoomWidth, &c.Request.RoomHeight,
		&windows, &doors, &stylePref, &colorPref, &mustHaves, &avoid, &c.Request.Budget,
		&c.Status, &provider, &model, &c.TokensUsed, &c.Cost, &reportFile, &metadataFile, &errMsg,
		&createdAt, &completedAt)
	if err != nil {
		return nil, err
	}

	c.Request.RoomType = models.RoomType(roomType)
	c.Request.Windows = windows.String
	c.Request.Doors = doors.String
	c.Request.StylePreference = stylePref.String
	c.Request.ColorPreference = colorPref.String
	c.Request.MustHaves = mustHaves.String
	c.Request.Avoid = avoid.String
	c.Provider = provider.String
	c.Model = model.String
	c.ReportFile = reportFile.String
	c.MetadataFile = metadataFile.String
	c.Error = errMsg.String
	c.CreatedAt, _ = parseTime(createdAt)
	c.CompletedAt = parseNullableTime(completedAt)
	return &c, nil
}
