package models

import (
	"fmt"
	"strings"
	"time"
)

// Budget bounds in USD. Matches the intake form.
const (
	MinBudgetUSD = 500
	MaxBudgetUSD = 50000
)

// ConsultationStatus represents the lifecycle state of a consultation.
type ConsultationStatus string

const (
	// ConsultationPending indicates the run is queued but not started.
	ConsultationPending ConsultationStatus = "pending"
	// ConsultationRunning indicates the crew is working.
	ConsultationRunning ConsultationStatus = "running"
	// ConsultationCompleted indicates a design plan was produced.
	ConsultationCompleted ConsultationStatus = "completed"
	// ConsultationFailed indicates the run ended with an error.
	ConsultationFailed ConsultationStatus = "failed"
)

// Valid returns true if the status is a known value.
func (s ConsultationStatus) Valid() bool {
	switch s {
	case ConsultationPending, ConsultationRunning, ConsultationCompleted, ConsultationFailed:
		return true
	default:
		return false
	}
}

// Terminal reports whether the status is an end state.
func (s ConsultationStatus) Terminal() bool {
	return s == ConsultationCompleted || s == ConsultationFailed
}

// ConsultationRequest is the user's input to one consultation run.
// Read-only once the pipeline starts.
type ConsultationRequest struct {
	// RoomType is the kind of room being designed.
	RoomType RoomType `json:"room_type"`
	// RoomLength is the room length in feet.
	RoomLength float64 `json:"room_length"`
	// RoomWidth is the room width in feet.
	RoomWidth float64 `json:"room_width"`
	// RoomHeight is the ceiling height in feet.
	RoomHeight float64 `json:"room_height"`
	// Windows describes window locations and sizes.
	Windows string `json:"windows"`
	// Doors describes door locations.
	Doors string `json:"doors"`
	// StylePreference is the desired design style.
	StylePreference string `json:"style_preference"`
	// ColorPreference describes preferred colors.
	ColorPreference string `json:"color_preference"`
	// MustHaves lists required furniture or features.
	MustHaves string `json:"must_haves"`
	// Avoid lists styles or items to stay away from.
	Avoid string `json:"avoid"`
	// Budget is the total budget in USD.
	Budget int `json:"budget"`
}

// Room returns the Room described by the request.
func (r ConsultationRequest) Room() Room {
	return Room{
		Type:    r.RoomType,
		Length:  r.RoomLength,
		Width:   r.RoomWidth,
		Height:  r.RoomHeight,
		Windows: r.Windows,
		Doors:   r.Doors,
	}
}

// Validate checks the request against the intake bounds. It collects all
// problems into a single error so the user can fix them in one pass.
func (r ConsultationRequest) Validate() error {
	var problems []string

	if !r.RoomType.Valid() {
		problems = append(problems, fmt.Sprintf("unknown room type %q", r.RoomType))
	}
	if r.RoomLength < MinRoomSideFt || r.RoomLength > MaxRoomSideFt {
		problems = append(problems, fmt.Sprintf("room length %.1f' outside range (%.0f-%.0f feet)", r.RoomLength, MinRoomSideFt, MaxRoomSideFt))
	}
	if r.RoomWidth < MinRoomSideFt || r.RoomWidth > MaxRoomSideFt {
		problems = append(problems, fmt.Sprintf("room width %.1f' outside range (%.0f-%.0f feet)", r.RoomWidth, MinRoomSideFt, MaxRoomSideFt))
	}
	if r.RoomHeight < MinRoomHeightFt || r.RoomHeight > MaxRoomHeightFt {
		problems = append(problems, fmt.Sprintf("ceiling height %.1f' outside range (%.0f-%.0f feet)", r.RoomHeight, MinRoomHeightFt, MaxRoomHeightFt))
	}
	if r.StylePreference == "" {
		problems = append(problems, "style preference is required")
	}
	if r.Budget < MinBudgetUSD || r.Budget > MaxBudgetUSD {
		problems = append(problems, fmt.Sprintf("budget $%d outside range ($%d-$%d)", r.Budget, MinBudgetUSD, MaxBudgetUSD))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid consultation request: %s", strings.Join(problems, "; "))
	}
	return nil
}

// DefaultConsultationRequest returns the sample consultation used when no
// input is given: a 15x12 living room, Modern Scandinavian, $4000.
func DefaultConsultationRequest() ConsultationRequest {
	return ConsultationRequest{
		RoomType:        RoomLivingRoom,
		RoomLength:      15,
		RoomWidth:       12,
		RoomHeight:      9,
		Windows:         "Large window on north wall (6 feet wide)",
		Doors:           "Entry door on south wall (left side)",
		StylePreference: "Modern Scandinavian with warm, cozy elements",
		ColorPreference: "Warm whites, light grays, natural wood tones",
		MustHaves:       "Comfortable seating for 4-5 people, TV viewing area, book storage",
		Avoid:           "Too minimal or cold, heavy dark furniture",
		Budget:          4000,
	}
}

// Usage records LLM consumption for one consultation run.
type Usage struct {
	// InputTokens is the total prompt tokens sent.
	InputTokens int64 `json:"input_tokens"`
	// OutputTokens is the total completion tokens received.
	OutputTokens int64 `json:"output_tokens"`
	// Calls is the number of LLM requests made.
	Calls int `json:"calls"`
	// Cost is the estimated cost in dollars.
	Cost float64 `json:"cost"`
}

// Total returns input plus output tokens.
func (u Usage) Total() int64 {
	return u.InputTokens + u.OutputTokens
}

// DesignPlan is the final product of a consultation: the report text plus
// where it was saved and what it cost to produce. Immutable once generated.
type DesignPlan struct {
	// ConsultationID links the plan to its consultation.
	ConsultationID string `json:"consultation_id"`
	// Report is the full plan text written by the project manager.
	Report string `json:"report"`
	// ReportFile is the path of the saved text report.
	ReportFile string `json:"report_file,omitempty"`
	// MetadataFile is the path of the saved metadata JSON.
	MetadataFile string `json:"metadata_file,omitempty"`
	// Provider is the LLM provider that served the run.
	Provider string `json:"provider"`
	// Model is the model that served the run.
	Model string `json:"model"`
	// Usage is the token and cost accounting for the run.
	Usage Usage `json:"usage"`
	// GeneratedAt is when the plan was completed.
	GeneratedAt time.Time `json:"generated_at"`
}

// Consultation is the stored record of one run: the request, its lifecycle
// state, and the plan artifacts once completed.
type Consultation struct {
	// ID is the unique identifier for this consultation.
	ID string `json:"id"`
	// Request is the user input that started the run.
	Request ConsultationRequest `json:"request"`
	// Status is the current lifecycle state.
	Status ConsultationStatus `json:"status"`
	// Provider is the LLM provider used.
	Provider string `json:"provider,omitempty"`
	// Model is the model used.
	Model string `json:"model,omitempty"`
	// TokensUsed is the total tokens consumed.
	TokensUsed int64 `json:"tokens_used,omitempty"`
	// Cost is the estimated cost in dollars.
	Cost float64 `json:"cost,omitempty"`
	// ReportFile is the saved report path, when completed.
	ReportFile string `json:"report_file,omitempty"`
	// MetadataFile is the saved metadata path, when completed.
	MetadataFile string `json:"metadata_file,omitempty"`
	// Error holds the failure message, when failed.
	Error string `json:"error,omitempty"`
	// CreatedAt is when the run was requested.
	CreatedAt time.Time `json:"created_at"`
	// CompletedAt is when the run reached a terminal state.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
