package osrm

import (
	"fmt"
	"strings"

	"github.com/codedsleep/mapd/internal/core/domain"
	"github.com/codedsleep/mapd/internal/pkg/geospatial"
)

// parseSteps flattens OSRM legs into turn-by-turn instructions.
func parseSteps(legs []leg, units string) []domain.RouteStep {
	var out []domain.RouteStep
	for _, l := range legs {
		for _, s := range l.Steps {
			out = append(out, domain.RouteStep{
				Text:            instructionText(s, units),
				DistanceMeters:  s.Distance,
				DurationSeconds: s.Duration,
				Position: domain.GeoPoint{
					Lat: s.Maneuver.Location[1],
					Lng: s.Maneuver.Location[0],
				},
			})
		}
	}
	return out
}

func instructionText(s step, units string) string {
	street := streetInfo(s.Name, s.Ref)
	dist := FormatDistance(s.Distance, units)

	switch s.Maneuver.Type {
	case "depart":
		dir := geospatial.CompassDirection(s.Maneuver.BearingAfter)
		if street == "" {
			return fmt.Sprintf("Head %s for %s", dir, dist)
		}
		return fmt.Sprintf("Head %s %s for %s", dir, street, dist)
	case "turn":
		if street == "" {
			return fmt.Sprintf("Turn %s for %s", s.Maneuver.Modifier, dist)
		}
		return fmt.Sprintf("Turn %s %s for %s", s.Maneuver.Modifier, street, dist)
	case "merge":
		if street == "" {
			return fmt.Sprintf("Merge %s for %s", s.Maneuver.Modifier, dist)
		}
		return fmt.Sprintf("Merge %s %s for %s", s.Maneuver.Modifier, street, dist)
	case "ramp", "on ramp", "off ramp":
		if street == "" {
			return fmt.Sprintf("Take the ramp %s for %s", s.Maneuver.Modifier, dist)
		}
		return fmt.Sprintf("Take the ramp %s %s for %s", s.Maneuver.Modifier, street, dist)
	case "fork":
		mod := s.Maneuver.Modifier
		if mod == "" {
			mod = "left"
		}
		if street == "" {
			return fmt.Sprintf("Keep %s at the fork for %s", mod, dist)
		}
		return fmt.Sprintf("Keep %s at the fork %s for %s", mod, street, dist)
	case "roundabout", "rotary":
		if street == "" {
			return fmt.Sprintf("Enter the roundabout for %s", dist)
		}
		return fmt.Sprintf("Enter the roundabout and exit onto %s for %s",
			strings.TrimPrefix(street, "on "), dist)
	case "arrive":
		return "Arrive at your destination"
	default:
		if street == "" {
			return fmt.Sprintf("Continue for %s", dist)
		}
		return fmt.Sprintf("Continue %s for %s", street, dist)
	}
}

func streetInfo(name, ref string) string {
	switch {
	case name != "" && ref != "":
		return fmt.Sprintf("on %s (%s)", name, ref)
	case name != "":
		return "on " + name
	case ref != "":
		return "on " + ref
	default:
		return ""
	}
}

// FormatDistance renders meters for display in the configured unit system.
func FormatDistance(meters float64, units string) string {
	if units == "imperial" {
		return fmt.Sprintf("%.1f mi", meters*0.000621371)
	}
	if meters >= 1000 {
		return fmt.Sprintf("%.1f km", meters/1000)
	}
	return fmt.Sprintf("%.0f m", meters)
}
