package models

// Furniture dimension bounds in inches. Anything outside is treated as a
// data error by the layout checker.
const (
	MinFurnitureSideIn = 6.0
	MaxFurnitureSideIn = 200.0
	MaxFurnitureItems  = 20
)

// Placement locates a furniture item inside the room. Coordinates are in
// inches from the room's north-west corner. Placement is optional: items
// proposed by an agent may not have been positioned yet.
type Placement struct {
	// X is the distance from the west wall to the item's left edge.
	X float64 `json:"x_in"`
	// Y is the distance from the north wall to the item's top edge.
	Y float64 `json:"y_in"`
	// Rotated swaps width and depth (a 90 degree turn).
	Rotated bool `json:"rotated,omitempty"`
}

// FurnitureItem is one candidate piece with its floor footprint and an
// optional placement within the room.
type FurnitureItem struct {
	// Name identifies the piece ("Sofa", "Coffee Table").
	Name string `json:"name"`
	// Width is the footprint width in inches.
	Width float64 `json:"width"`
	// Depth is the footprint depth in inches.
	Depth float64 `json:"depth"`
	// Placement positions the item in the room, when known.
	Placement *Placement `json:"placement,omitempty"`
}

// FootprintSqFt returns the floor area the item occupies in square feet.
func (f FurnitureItem) FootprintSqFt() float64 {
	return (f.Width / 12) * (f.Depth / 12)
}

// Placed reports whether the item carries placement data.
func (f FurnitureItem) Placed() bool {
	return f.Placement != nil
}

// Extent returns the effective width and depth in inches after applying
// rotation. For unplaced items it returns the raw dimensions.
func (f FurnitureItem) Extent() (w, d float64) {
	if f.Placement != nil && f.Placement.Rotated {
		return f.Depth, f.Width
	}
	return f.Width, f.Depth
}

// TotalFootprintSqFt sums the footprints of a furniture set in square feet.
func TotalFootprintSqFt(items []FurnitureItem) float64 {
	var total float64
	for _, it := range items {
		total += it.FootprintSqFt()
	}
	return total
}
