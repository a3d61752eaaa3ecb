package domain

import "github.com/codedsleep/mapd/internal/pkg/geospatial"

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the coordinate is inside the WGS 84 envelope.
func (p GeoPoint) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// DistanceTo returns the great-circle distance to other in meters.
func (p GeoPoint) DistanceTo(other GeoPoint) float64 {
	return geospatial.Haversine(p.Lat, p.Lng, other.Lat, other.Lng)
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}

// BoundsOf returns the smallest bounding box enclosing all points.
// Points must not be empty.
func BoundsOf(points []GeoPoint) Bounds {
	b := Bounds{
		MinLat: points[0].Lat, MaxLat: points[0].Lat,
		MinLng: points[0].Lng, MaxLng: points[0].Lng,
	}
	for _, p := range points[1:] {
		b = b.Extend(p)
	}
	return b
}

// Extend grows the bounds to include p.
func (b Bounds) Extend(p GeoPoint) Bounds {
	if p.Lat < b.MinLat {
		b.MinLat = p.Lat
	}
	if p.Lat > b.MaxLat {
		b.MaxLat = p.Lat
	}
	if p.Lng < b.MinLng {
		b.MinLng = p.Lng
	}
	if p.Lng > b.MaxLng {
		b.MaxLng = p.Lng
	}
	return b
}

// Pad expands each side by fraction of the current span. A zero-area box
// (single point) is padded by a small fixed margin so the viewport never
// collapses.
func (b Bounds) Pad(fraction float64) Bounds {
	const minSpan = 0.005
	latSpan := b.MaxLat - b.MinLat
	lngSpan := b.MaxLng - b.MinLng
	if latSpan < minSpan {
		latSpan = minSpan
	}
	if lngSpan < minSpan {
		lngSpan = minSpan
	}
	return Bounds{
		MinLat: b.MinLat - latSpan*fraction,
		MinLng: b.MinLng - lngSpan*fraction,
		MaxLat: b.MaxLat + latSpan*fraction,
		MaxLng: b.MaxLng + lngSpan*fraction,
	}
}

// Contains reports whether p lies inside the bounds.
func (b Bounds) Contains(p GeoPoint) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

// Center returns the midpoint of the bounds.
func (b Bounds) Center() GeoPoint {
	return GeoPoint{
		Lat: (b.MinLat + b.MaxLat) / 2,
		Lng: (b.MinLng + b.MaxLng) / 2,
	}
}
