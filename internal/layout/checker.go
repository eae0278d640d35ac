// Package layout implements the room layout feasibility check: a pure
// geometric validation of furniture footprints against room dimensions
// and clearance standards.
package layout

import (
	"fmt"
	"math"

	"github.com/decora-ai/decora/pkg/models"
)

// maxWallDepthIn is the deepest a piece can be and still sit against a
// wall without eating into the main walkway.
const maxWallDepthIn = 36.0

// CheckRequest describes one room and the candidate furniture set to
// validate against it.
type CheckRequest struct {
	// RoomLength is the room length in feet.
	RoomLength float64 `json:"room_length"`
	// RoomWidth is the room width in feet.
	RoomWidth float64 `json:"room_width"`
	// RoomType categorizes the room (living_room, bedroom, ...).
	// Informational only; it does not change the geometry rules.
	RoomType models.RoomType `json:"room_type,omitempty"`
	// Furniture lists the candidate pieces, dimensions in inches.
	Furniture []models.FurnitureItem `json:"furniture"`
}

// Check validates a furniture arrangement against room geometry and
// clearance standards. It never fails: malformed input is reported as
// issues on the result with LayoutValid false, so a bad furniture list
// proposed by an agent cannot abort a consultation.
//
// An empty furniture list is a valid layout with 100% open space.
func Check(req CheckRequest) models.LayoutResult {
	issues := validateInputs(req)

	area := req.RoomLength * req.RoomWidth
	footprint := models.TotalFootprintSqFt(req.Furniture)
	openSqFt := area - footprint

	var openPercent, footprintPercent float64
	if area > 0 {
		openPercent = clampPercent(openSqFt / area * 100)
		footprintPercent = clampPercent(footprint / area * 100)
	}
	if openSqFt < 0 {
		openSqFt = 0
	}

	if area > 0 && footprint > area {
		issues = append(issues, fmt.Sprintf("Furniture footprint (%g sqft) exceeds room area (%g sqft)",
			round2(footprint), round2(area)))
	}

	clearances := make(map[string]models.Clearance)
	issues = append(issues, fitIssues(req, clearances)...)
	issues = append(issues, placementIssues(req, clearances)...)

	// Always present, whether or not any piece was placed.
	clearances["walkway_estimate"] = models.Clearance{
		MinimumInches:   models.MinWalkwayIn,
		PreferredInches: models.PreferredWalkwayIn,
		Note:            "Ensure 30-36\" clearance for main walkways",
	}

	valid := len(issues) == 0

	return models.LayoutResult{
		LayoutValid: valid,
		RoomDimensions: models.RoomDimensions{
			LengthFt:    req.RoomLength,
			WidthFt:     req.RoomWidth,
			TotalAreaFt: round2(area),
		},
		FurnitureAnalysis: models.FurnitureAnalysis{
			TotalPieces:      len(req.Furniture),
			TotalFootprintFt: round2(footprint),
			FootprintPercent: round2(footprintPercent),
		},
		SpaceAnalysis: models.SpaceAnalysis{
			OpenSpaceFt:       round2(openSqFt),
			OpenSpacePercent:  round2(openPercent),
			CirculationRating: rateCirculation(openPercent),
		},
		Clearances:      clearances,
		Issues:          issues,
		Recommendations: recommendations(req, openPercent, len(issues)),
		Summary:         summary(valid, openPercent, len(issues)),
	}
}

// validateInputs checks room and furniture dimensions against realistic
// bounds. Problems come back as issue strings, never errors.
func validateInputs(req CheckRequest) []string {
	var issues []string

	if req.RoomLength < models.MinRoomSideFt || req.RoomLength > models.MaxRoomSideFt {
		issues = append(issues, fmt.Sprintf("Room length (%g') outside range (6-50 feet)", req.RoomLength))
	}
	if req.RoomWidth < models.MinRoomSideFt || req.RoomWidth > models.MaxRoomSideFt {
		issues = append(issues, fmt.Sprintf("Room width (%g') outside range (6-50 feet)", req.RoomWidth))
	}
	if len(req.Furniture) > models.MaxFurnitureItems {
		issues = append(issues, fmt.Sprintf("Too many furniture pieces (max %d)", models.MaxFurnitureItems))
	}

	for i, item := range req.Furniture {
		name := item.Name
		if name == "" {
			name = fmt.Sprintf("%d", i+1)
			issues = append(issues, fmt.Sprintf("Item %d missing 'name' field", i+1))
		}
		if item.Width < models.MinFurnitureSideIn || item.Width > models.MaxFurnitureSideIn {
			issues = append(issues, fmt.Sprintf("Item '%s' width (%g\") unrealistic", name, item.Width))
		}
		if item.Depth < models.MinFurnitureSideIn || item.Depth > models.MaxFurnitureSideIn {
			issues = append(issues, fmt.Sprintf("Item '%s' depth (%g\") unrealistic", name, item.Depth))
		}
	}

	return issues
}

// fitIssues applies the wall-placement heuristic to each piece: a piece
// fits if it can sit along either wall with its depth within the walkway
// limit. It also records doorway advisories for pieces wider than a
// standard interior doorway.
func fitIssues(req CheckRequest, clearances map[string]models.Clearance) []string {
	var issues []string

	roomLengthIn := req.RoomLength * 12
	roomWidthIn := req.RoomWidth * 12

	for _, item := range req.Furniture {
		name := item.Name
		if name == "" {
			name = "Unknown"
		}

		larger := math.Max(item.Width, item.Depth)
		if larger > models.StandardDoorwayIn {
			fails := false
			clearances[name+"_doorway"] = models.Clearance{
				Passes: &fails,
				Note: fmt.Sprintf("May not fit through standard %d\" doorway (%g\")",
					models.StandardDoorwayIn, larger),
			}
		}

		fitsLength := item.Width <= roomLengthIn && item.Depth <= maxWallDepthIn
		fitsWidth := item.Width <= roomWidthIn && item.Depth <= maxWallDepthIn
		if !fitsLength && !fitsWidth {
			issues = append(issues, fmt.Sprintf("%s (%g\"x%g\") too large for room", name, item.Width, item.Depth))
		}
	}

	return issues
}

// rect is a placed footprint in room coordinates, inches. Width runs
// along the room length axis, depth along the width axis.
type rect struct {
	name       string
	x, y, w, d float64
}

// placementIssues validates the pieces that carry placement data:
// out-of-bounds and overlapping footprints invalidate the layout, while
// walkway gaps narrower than the minimum are recorded as failed
// clearances without invalidating it. Unplaced pieces are simply not
// yet positioned and are skipped.
func placementIssues(req CheckRequest, clearances map[string]models.Clearance) []string {
	var issues []string

	roomLengthIn := req.RoomLength * 12
	roomWidthIn := req.RoomWidth * 12

	var placed []rect
	for _, item := range req.Furniture {
		if !item.Placed() {
			continue
		}
		w, d := item.Extent()
		name := item.Name
		if name == "" {
			name = "Unknown"
		}
		placed = append(placed, rect{name: name, x: item.Placement.X, y: item.Placement.Y, w: w, d: d})
	}

	for _, r := range placed {
		if r.x < 0 || r.y < 0 || r.x+r.w > roomLengthIn || r.y+r.d > roomWidthIn {
			issues = append(issues, fmt.Sprintf("%s placed outside room bounds", r.name))
		}
	}

	for i := 0; i < len(placed); i++ {
		for j := i + 1; j < len(placed); j++ {
			a, b := placed[i], placed[j]
			if overlaps(a, b) {
				issues = append(issues, fmt.Sprintf("%s overlaps %s", a.name, b.name))
				continue
			}
			gap, facing := rectGap(a, b)
			if facing && gap > 0 && gap < models.MinWalkwayIn {
				fails := false
				clearances[a.name+"_"+b.name+"_gap"] = models.Clearance{
					Passes: &fails,
					Note: fmt.Sprintf("Only %g\" between %s and %s - below %d\" walkway minimum",
						gap, a.name, b.name, models.MinWalkwayIn),
				}
			}
		}
	}

	return issues
}

// overlaps reports whether two footprints intersect with positive area.
// Touching edges do not count as overlap.
func overlaps(a, b rect) bool {
	return a.x < b.x+b.w && b.x < a.x+a.w && a.y < b.y+b.d && b.y < a.y+a.d
}

// rectGap returns the clear distance between two non-overlapping
// footprints and whether they face each other across a single axis.
// Diagonal neighbors do not form a walkway and report facing false.
func rectGap(a, b rect) (gap float64, facing bool) {
	gapX := math.Max(a.x-(b.x+b.w), b.x-(a.x+a.w))
	gapY := math.Max(a.y-(b.y+b.d), b.y-(a.y+a.d))
	switch {
	case gapX >= 0 && gapY < 0:
		return gapX, true
	case gapY >= 0 && gapX < 0:
		return gapY, true
	default:
		return 0, false
	}
}

// rateCirculation maps open space percentage to a qualitative label.
// Same percentage always yields the same rating.
func rateCirculation(openSpacePercent float64) string {
	switch {
	case openSpacePercent >= 70:
		return "Excellent - Very spacious"
	case openSpacePercent >= 60:
		return "Good - Comfortable circulation"
	case openSpacePercent >= 50:
		return "Adequate - Functional but cozy"
	case openSpacePercent >= 40:
		return "Tight - May feel cramped"
	default:
		return "Poor - Too crowded"
	}
}

// recommendations generates actionable layout advice from the computed
// metrics and room proportions.
func recommendations(req CheckRequest, openPercent float64, issueCount int) []string {
	var recs []string

	if openPercent < 50 {
		recs = append(recs, "Consider reducing furniture - less than 50% open space")
	} else if openPercent > 80 {
		recs = append(recs, "Room has extra space - could add accent pieces")
	}

	if req.RoomLength > req.RoomWidth*1.5 {
		recs = append(recs, "Long narrow room - create zones")
	}

	if issueCount > 0 {
		recs = append(recs, "Layout issues detected - see issues list")
	} else {
		recs = append(recs, "Layout is feasible - maintain 30-36\" walkways")
	}

	return recs
}

// summary renders the one-line verdict.
func summary(valid bool, openPercent float64, issueCount int) string {
	if !valid {
		return fmt.Sprintf("❌ Layout NOT feasible - %d issue(s) found.", issueCount)
	}
	switch {
	case openPercent >= 60:
		return fmt.Sprintf("✓ Layout VALIDATED - %.0f%% open space.", openPercent)
	case openPercent >= 50:
		return fmt.Sprintf("✓ Layout FEASIBLE - %.0f%% open space.", openPercent)
	default:
		return fmt.Sprintf("⚠ Layout POSSIBLE but tight - %.0f%% open space.", openPercent)
	}
}

// clampPercent bounds a percentage to [0, 100].
func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// round2 rounds to two decimal places for reporting.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
