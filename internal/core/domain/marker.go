package domain

// MarkerID is an opaque handle to a marker owned by the surface controller.
type MarkerID uint64

// MarkerKind determines rendering style and whether the marker participates
// in route planning.
type MarkerKind string

const (
	// ClickMarker is placed by a user click; click markers are the waypoints
	// of a planned route, in placement order.
	ClickMarker MarkerKind = "click"
	// LocationMarker shows the current location fix. At most one exists.
	LocationMarker MarkerKind = "location"
	// SearchResult is placed from a resolved geocoding query.
	SearchResult MarkerKind = "search"
)

// Marker is a pin on the map.
type Marker struct {
	ID       MarkerID   `json:"id"`
	Position GeoPoint   `json:"position"`
	Label    string     `json:"label,omitempty"`
	Kind     MarkerKind `json:"kind"`
}
