package domain

import (
	"encoding/json"
	"fmt"
)

// geoJSONObject is the subset of GeoJSON the surface exchange needs: a bare
// LineString geometry, a Feature wrapping one, or a FeatureCollection whose
// first line feature carries the path. Coordinates are [lng, lat] per RFC 7946.
type geoJSONObject struct {
	Type        string            `json:"type"`
	Coordinates [][]float64       `json:"coordinates"`
	Geometry    *geoJSONObject    `json:"geometry"`
	Features    []json.RawMessage `json:"features"`
}

// ParseLineString extracts an ordered point sequence from a GeoJSON text
// payload. Anything that is not a LineString with at least two valid
// coordinates yields ErrMalformedGeometry; the caller keeps prior state.
func ParseLineString(data string) ([]GeoPoint, error) {
	var obj geoJSONObject
	if err := json.Unmarshal([]byte(data), &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedGeometry, err)
	}
	return lineStringOf(&obj)
}

func lineStringOf(obj *geoJSONObject) ([]GeoPoint, error) {
	switch obj.Type {
	case "LineString":
		return pointsOf(obj.Coordinates)
	case "Feature":
		if obj.Geometry == nil {
			return nil, fmt.Errorf("%w: feature without geometry", ErrMalformedGeometry)
		}
		return lineStringOf(obj.Geometry)
	case "FeatureCollection":
		for _, raw := range obj.Features {
			var feat geoJSONObject
			if err := json.Unmarshal(raw, &feat); err != nil {
				continue
			}
			if pts, err := lineStringOf(&feat); err == nil {
				return pts, nil
			}
		}
		return nil, fmt.Errorf("%w: no line feature in collection", ErrMalformedGeometry)
	default:
		return nil, fmt.Errorf("%w: unsupported type %q", ErrMalformedGeometry, obj.Type)
	}
}

func pointsOf(coords [][]float64) ([]GeoPoint, error) {
	if len(coords) < 2 {
		return nil, fmt.Errorf("%w: %d coordinates", ErrMalformedGeometry, len(coords))
	}
	pts := make([]GeoPoint, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			return nil, fmt.Errorf("%w: short coordinate", ErrMalformedGeometry)
		}
		p := GeoPoint{Lat: c[1], Lng: c[0]}
		if !p.Valid() {
			return nil, fmt.Errorf("%w: coordinate out of range", ErrMalformedGeometry)
		}
		pts = append(pts, p)
	}
	return pts, nil
}
