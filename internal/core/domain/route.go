package domain

// RouteRequest is an ordered waypoint list handed to the routing provider.
// Waypoints preserve click order, not spatial order.
type RouteRequest struct {
	RequestID uint64     `json:"request_id"`
	Waypoints []GeoPoint `json:"waypoints"`
	Profile   string     `json:"profile"` // driving, walking, cycling
}

// RouteStep is a single turn-by-turn instruction.
type RouteStep struct {
	Text            string   `json:"text"`
	DistanceMeters  float64  `json:"distance_m"`
	DurationSeconds float64  `json:"duration_s"`
	Position        GeoPoint `json:"position"`
}

// Route is a completed routing result. At most one route is displayed at a
// time; a newer route replaces the previous overlay.
type Route struct {
	RequestID       uint64      `json:"request_id"`
	Geometry        []GeoPoint  `json:"geometry"`
	GeometryGeoJSON string      `json:"geometry_geojson"`
	DistanceMeters  float64     `json:"distance_m"`
	DurationSeconds float64     `json:"duration_s"`
	StepCount       uint        `json:"step_count"`
	Steps           []RouteStep `json:"steps,omitempty"`
}
