package geospatial

import (
	"math"
	"testing"
)

func TestHaversine(t *testing.T) {
	// London to Paris, roughly 344 km.
	d := Haversine(51.5074, -0.1278, 48.8566, 2.3522)
	if math.Abs(d-344000) > 5000 {
		t.Errorf("expected ~344 km, got %.0f m", d)
	}

	if Haversine(43.263, -2.935, 43.263, -2.935) != 0 {
		t.Error("zero distance expected for identical points")
	}
}

func TestCompassDirection(t *testing.T) {
	cases := []struct {
		bearing float64
		want    string
	}{
		{0, "north"},
		{45, "northeast"},
		{90, "east"},
		{135, "southeast"},
		{180, "south"},
		{225, "southwest"},
		{270, "west"},
		{315, "northwest"},
		{359, "north"},
		{-90, "west"},
		{450, "east"},
	}
	for _, tc := range cases {
		if got := CompassDirection(tc.bearing); got != tc.want {
			t.Errorf("CompassDirection(%g) = %q, want %q", tc.bearing, got, tc.want)
		}
	}
}
