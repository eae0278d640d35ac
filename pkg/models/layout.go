package models

// Walkway clearance standards in inches.
const (
	MinWalkwayIn       = 30
	PreferredWalkwayIn = 36
	// StandardDoorwayIn is the width of a standard interior doorway.
	StandardDoorwayIn = 32
)

// RoomDimensions reports the room geometry used for a layout check.
type RoomDimensions struct {
	LengthFt    float64 `json:"length_ft"`
	WidthFt     float64 `json:"width_ft"`
	TotalAreaFt float64 `json:"total_area_sqft"`
}

// FurnitureAnalysis aggregates the footprint of the checked furniture set.
type FurnitureAnalysis struct {
	TotalPieces      int     `json:"total_pieces"`
	TotalFootprintFt float64 `json:"total_footprint_sqft"`
	FootprintPercent float64 `json:"footprint_percent"`
}

// SpaceAnalysis reports open floor space and the derived circulation rating.
type SpaceAnalysis struct {
	OpenSpaceFt       float64 `json:"open_space_sqft"`
	OpenSpacePercent  float64 `json:"open_space_percent"`
	CirculationRating string  `json:"circulation_rating"`
}

// Clearance is one advisory clearance entry. Doorway entries carry a
// pass/fail flag; the walkway estimate carries the standard widths instead.
type Clearance struct {
	Passes          *bool  `json:"passes,omitempty"`
	MinimumInches   int    `json:"minimum_inches,omitempty"`
	PreferredInches int    `json:"preferred_inches,omitempty"`
	Note            string `json:"note"`
}

// LayoutResult is the structured outcome of a room layout feasibility
// check. It is only meaningful for the exact room/furniture set it was
// computed from and is never cached across requests.
type LayoutResult struct {
	// LayoutValid is false when the furniture cannot feasibly fit:
	// oversized items, footprint exceeding floor area, placed items
	// overlapping or lying outside the room, or invalid input data.
	LayoutValid bool `json:"layout_valid"`
	// RoomDimensions echoes the checked room geometry.
	RoomDimensions RoomDimensions `json:"room_dimensions"`
	// FurnitureAnalysis aggregates the furniture footprint.
	FurnitureAnalysis FurnitureAnalysis `json:"furniture_analysis"`
	// SpaceAnalysis reports open space and circulation quality.
	SpaceAnalysis SpaceAnalysis `json:"space_analysis"`
	// Clearances holds advisory clearance entries keyed by subject
	// ("Sofa_doorway", "walkway_estimate", ...).
	Clearances map[string]Clearance `json:"clearances"`
	// Issues lists the problems that made the layout invalid.
	Issues []string `json:"issues"`
	// Recommendations lists actionable layout advice.
	Recommendations []string `json:"recommendations"`
	// Summary is the one-line human-readable verdict.
	Summary string `json:"summary"`
}
