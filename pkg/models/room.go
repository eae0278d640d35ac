package models

import "strings"

// RoomType categorizes the space being designed.
type RoomType string

const (
	RoomLivingRoom RoomType = "living_room"
	RoomBedroom    RoomType = "bedroom"
	RoomOffice     RoomType = "office"
	RoomDiningRoom RoomType = "dining_room"
	RoomKitchen    RoomType = "kitchen"
	RoomGuestRoom  RoomType = "guest_room"
)

// Valid returns true if the room type is a known value.
func (r RoomType) Valid() bool {
	switch r {
	case RoomLivingRoom, RoomBedroom, RoomOffice, RoomDiningRoom, RoomKitchen, RoomGuestRoom:
		return true
	default:
		return false
	}
}

// Display returns the human-readable form ("living_room" -> "Living Room").
func (r RoomType) Display() string {
	parts := strings.Split(string(r), "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

// NormalizeRoomType converts free-form input ("Living Room", "living room")
// to the canonical RoomType value. The result may still be invalid; callers
// decide whether unknown types are acceptable.
func NormalizeRoomType(s string) RoomType {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return RoomType(s)
}

// Room bounds for validation, in feet. Matches the intake form.
const (
	MinRoomSideFt   = 6.0
	MaxRoomSideFt   = 50.0
	MinRoomHeightFt = 7.0
	MaxRoomHeightFt = 15.0
)

// Room describes the space under consultation. Immutable once a
// consultation starts.
type Room struct {
	// Type is the kind of room (living_room, bedroom, ...).
	Type RoomType `json:"type"`
	// Length is the room length in feet.
	Length float64 `json:"length_ft"`
	// Width is the room width in feet.
	Width float64 `json:"width_ft"`
	// Height is the ceiling height in feet.
	Height float64 `json:"height_ft"`
	// Windows describes window locations and sizes.
	Windows string `json:"windows,omitempty"`
	// Doors describes door locations.
	Doors string `json:"doors,omitempty"`
}

// Area returns the floor area in square feet.
func (r Room) Area() float64 {
	return r.Length * r.Width
}

// LongNarrow reports whether the room is long enough relative to its width
// that zoning advice applies (length > 1.5x width).
func (r Room) LongNarrow() bool {
	return r.Length > r.Width*1.5
}
