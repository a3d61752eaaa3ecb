package bridge

import (
	"log/slog"

	"github.com/codedsleep/mapd/internal/core/domain"
	"github.com/codedsleep/mapd/internal/core/ports"
	"github.com/codedsleep/mapd/internal/pkg/metrics"
)

// Renderer implements ports.SurfaceRenderer by enqueueing host → surface
// messages on a single ordered queue. The WebSocket writer drains Outbound;
// a full queue (no surface attached) drops the newest message with a warning
// rather than blocking the host loop.
type Renderer struct {
	out chan Message
}

// NewRenderer creates a renderer with the given queue depth.
func NewRenderer(buffer int) *Renderer {
	if buffer <= 0 {
		buffer = 256
	}
	return &Renderer{out: make(chan Message, buffer)}
}

// Outbound is the ordered host → surface queue.
func (r *Renderer) Outbound() <-chan Message {
	return r.out
}

func (r *Renderer) send(channel string, payload any) {
	msg, err := NewMessage(channel, payload)
	if err != nil {
		slog.Error("outbound message not encodable", "channel", channel, "error", err)
		return
	}
	select {
	case r.out <- msg:
		metrics.BridgeMessages.WithLabelValues("outbound", channel).Inc()
	default:
		slog.Warn("outbound queue full, message dropped", "channel", channel)
		metrics.BridgeOutboundDropped.Inc()
	}
}

func (r *Renderer) ShowMarker(m domain.Marker) {
	r.send(ChanMarkerAdd, MarkerAdd{
		ID:    uint64(m.ID),
		Lat:   m.Position.Lat,
		Lng:   m.Position.Lng,
		Label: m.Label,
		Kind:  string(m.Kind),
	})
}

func (r *Renderer) RemoveMarker(id domain.MarkerID) {
	r.send(ChanMarkerRemove, MarkerRemove{ID: uint64(id)})
}

func (r *Renderer) ShowLocation(fix domain.LocationFix) {
	r.send(ChanLocationUpdate, LocationUpdate{
		Lat:            fix.Position.Lat,
		Lng:            fix.Position.Lng,
		AccuracyMeters: fix.AccuracyMeters,
		Source:         string(fix.Source),
	})
}

func (r *Renderer) ShowRoute(route domain.Route) {
	r.send(ChanRouteReady, RouteReady{
		GeometryGeoJSON: route.GeometryGeoJSON,
		DistanceM:       route.DistanceMeters,
		DurationS:       route.DurationSeconds,
		StepCount:       route.StepCount,
		Steps:           route.Steps,
	})
}

func (r *Renderer) Recenter(center domain.GeoPoint, zoom int) {
	r.send(ChanRecenter, Recenter{Lat: center.Lat, Lng: center.Lng, Zoom: zoom})
}

func (r *Renderer) FitBounds(b domain.Bounds) {
	r.send(ChanFitBounds, FitBounds{
		MinLat: b.MinLat, MinLng: b.MinLng,
		MaxLat: b.MaxLat, MaxLng: b.MaxLng,
	})
}

func (r *Renderer) Clear() {
	r.send(ChanClearMap, nil)
}

func (r *Renderer) Notify(level ports.NoticeLevel, message string) {
	r.send(ChanNotice, Notice{Level: string(level), Message: message})
}
