// Package bridge implements the message channel between the embedded map
// surface and the native host. Messages are JSON frames tagged with a channel
// name; each direction is a FIFO, and no ordering holds across directions.
package bridge

import (
	"encoding/json"
	"fmt"

	"github.com/codedsleep/mapd/internal/core/domain"
)

// Surface → host channels.
const (
	ChanLocationClick   = "location_click"
	ChanRequestRoute    = "request_route"
	ChanSearchLocation  = "search_location"
	ChanRequestLocation = "request_location"
	ChanRequestClear    = "request_clear"
)

// Host → surface channels.
const (
	ChanLocationUpdate = "location_update"
	ChanRouteReady     = "route_ready"
	ChanClearMap       = "clear_map"
	ChanMarkerAdd      = "marker_add"
	ChanMarkerRemove   = "marker_remove"
	ChanRecenter       = "recenter"
	ChanFitBounds      = "fit_bounds"
	ChanNotice         = "notice"
)

// Message is the wire unit crossing the surface/host boundary.
type Message struct {
	Channel string          `json:"channel"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage marshals payload into a tagged frame.
func NewMessage(channel string, payload any) (Message, error) {
	if payload == nil {
		return Message{Channel: channel}, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("encode %s payload: %w", channel, err)
	}
	return Message{Channel: channel, Payload: data}, nil
}

// LocationClick is sent by the surface when the user places a marker.
type LocationClick struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SearchLocation is sent by the surface to request a geocode lookup.
type SearchLocation struct {
	Query string `json:"query"`
}

// LocationUpdate pushes a resolved fix to the surface. The surface replaces
// any previous location indicator and accuracy circle.
type LocationUpdate struct {
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	AccuracyMeters float64 `json:"accuracy_meters"`
	Source         string  `json:"source"`
}

// RouteReady pushes a completed route for rendering.
type RouteReady struct {
	GeometryGeoJSON string             `json:"geometry_geojson"`
	DistanceM       float64            `json:"distance_m"`
	DurationS       float64            `json:"duration_s"`
	StepCount       uint               `json:"step_count"`
	Steps           []domain.RouteStep `json:"steps,omitempty"`
}

// MarkerAdd tells the surface to draw a marker.
type MarkerAdd struct {
	ID    uint64  `json:"id"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Label string  `json:"label,omitempty"`
	Kind  string  `json:"kind"`
}

// MarkerRemove tells the surface to remove a marker by handle.
type MarkerRemove struct {
	ID uint64 `json:"id"`
}

// Recenter moves the viewport without touching markers or routes.
type Recenter struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Zoom int     `json:"zoom"`
}

// FitBounds asks the surface to fit the viewport to a bounding box.
type FitBounds struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}

// Notice surfaces a user-visible message (route failures, empty search
// results). The surface shows it as a transient banner.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}
