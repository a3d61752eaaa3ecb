package geospatial

import "math"

const earthRadiusKm = 6371.0

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c * 1000 // meters
}

// CompassDirection maps a bearing in degrees to one of the eight compass
// directions. Used for turn-by-turn departure instructions.
func CompassDirection(bearing float64) string {
	b := math.Mod(math.Mod(bearing, 360)+360, 360)
	switch {
	case b < 22.5 || b >= 337.5:
		return "north"
	case b < 67.5:
		return "northeast"
	case b < 112.5:
		return "east"
	case b < 157.5:
		return "southeast"
	case b < 202.5:
		return "south"
	case b < 247.5:
		return "southwest"
	case b < 292.5:
		return "west"
	default:
		return "northwest"
	}
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
