package domain

// Place is a named position returned by a geocoding lookup.
type Place struct {
	Name     string   `json:"name"`
	Position GeoPoint `json:"position"`
}
