package domain

import "time"

// FixSource tells where a location fix came from.
type FixSource string

const (
	// FixDevice means the platform geolocation capability answered in time.
	FixDevice FixSource = "device"
	// FixSimulated means the capability was denied or timed out and the
	// documented fallback coordinate was used instead.
	FixSimulated FixSource = "simulated"
)

// LocationFix is a resolved geolocation result. At most one fix is live at a
// time; a new fix replaces the previous one.
type LocationFix struct {
	Position       GeoPoint  `json:"position"`
	AccuracyMeters float64   `json:"accuracy_meters"`
	Source         FixSource `json:"source"`
	Time           time.Time `json:"time"`
}
