package usecases

import (
	"github.com/codedsleep/mapd/internal/core/domain"
	"github.com/codedsleep/mapd/internal/core/ports"
)

// Viewport is the surface's camera state as the host last commanded it.
type Viewport struct {
	Center domain.GeoPoint
	Zoom   int
	Bounds *domain.Bounds
}

// MapSurfaceController owns the authoritative marker/route/location state and
// mirrors every mutation to the surface through the renderer. It is
// loop-confined: all methods must be called from the bridge loop goroutine,
// which serializes mutation by construction.
type MapSurfaceController struct {
	renderer ports.SurfaceRenderer

	nextID  domain.MarkerID
	markers map[domain.MarkerID]domain.Marker
	order   []domain.MarkerID // insertion (click) order

	route    *domain.Route
	fix      *domain.LocationFix
	viewport Viewport

	fitPadding float64
}

// NewMapSurfaceController creates a controller pushing to renderer.
// fitPadding is the fraction of the route span added on each side when the
// viewport is fitted to a new route.
func NewMapSurfaceController(renderer ports.SurfaceRenderer, fitPadding float64) *MapSurfaceController {
	return &MapSurfaceController{
		renderer:   renderer,
		markers:    make(map[domain.MarkerID]domain.Marker),
		fitPadding: fitPadding,
	}
}

// AddMarker appends a marker to the live set and returns its handle. It
// always succeeds and never affects other markers.
func (c *MapSurfaceController) AddMarker(pos domain.GeoPoint, label string, kind domain.MarkerKind) domain.MarkerID {
	c.nextID++
	m := domain.Marker{ID: c.nextID, Position: pos, Label: label, Kind: kind}
	c.markers[m.ID] = m
	c.order = append(c.order, m.ID)
	c.renderer.ShowMarker(m)
	return m.ID
}

// RemoveMarker removes a marker if present; an absent id is a no-op, not an
// error.
func (c *MapSurfaceController) RemoveMarker(id domain.MarkerID) {
	if _, ok := c.markers[id]; !ok {
		return
	}
	delete(c.markers, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.renderer.RemoveMarker(id)
}

// ClearAll removes every marker, the route overlay, and the location
// indicator, leaving only the base tiles visible.
func (c *MapSurfaceController) ClearAll() {
	c.markers = make(map[domain.MarkerID]domain.Marker)
	c.order = nil
	c.route = nil
	c.fix = nil
	c.renderer.Clear()
}

// SetLocationFix replaces the current fix. The surface removes the previous
// location marker and accuracy overlay before drawing the new ones, so two
// identical calls leave exactly one of each visible.
func (c *MapSurfaceController) SetLocationFix(fix domain.LocationFix) {
	c.fix = &fix
	c.renderer.ShowLocation(fix)
}

// RenderRoute replaces any existing route overlay and refits the viewport to
// the new geometry with the configured padding. A geometry that cannot be
// parsed or has fewer than two points fails with domain.ErrMalformedGeometry
// and leaves the previous overlay untouched.
func (c *MapSurfaceController) RenderRoute(route domain.Route) error {
	geometry := route.Geometry
	if len(geometry) == 0 && route.GeometryGeoJSON != "" {
		pts, err := domain.ParseLineString(route.GeometryGeoJSON)
		if err != nil {
			return err
		}
		geometry = pts
	}
	if len(geometry) < 2 {
		return domain.ErrMalformedGeometry
	}
	route.Geometry = geometry

	c.route = &route

	bounds := domain.BoundsOf(geometry).Pad(c.fitPadding)
	c.viewport.Bounds = &bounds
	c.viewport.Center = bounds.Center()

	c.renderer.ShowRoute(route)
	c.renderer.FitBounds(bounds)
	return nil
}

// Recenter moves the viewport only; markers and routes are untouched.
func (c *MapSurfaceController) Recenter(pos domain.GeoPoint, zoom int) {
	c.viewport.Center = pos
	c.viewport.Zoom = zoom
	c.viewport.Bounds = nil
	c.renderer.Recenter(pos, zoom)
}

// Waypoints returns the positions of click markers in placement order. These
// are the inputs to route planning; location and search markers do not
// participate.
func (c *MapSurfaceController) Waypoints() []domain.GeoPoint {
	var pts []domain.GeoPoint
	for _, id := range c.order {
		if m, ok := c.markers[id]; ok && m.Kind == domain.ClickMarker {
			pts = append(pts, m.Position)
		}
	}
	return pts
}

// Markers returns the live markers in placement order.
func (c *MapSurfaceController) Markers() []domain.Marker {
	out := make([]domain.Marker, 0, len(c.order))
	for _, id := range c.order {
		if m, ok := c.markers[id]; ok {
			out = append(out, m)
		}
	}
	return out
}

// Route returns the displayed route, or nil.
func (c *MapSurfaceController) Route() *domain.Route {
	return c.route
}

// Fix returns the live location fix, or nil.
func (c *MapSurfaceController) Fix() *domain.LocationFix {
	return c.fix
}

// Viewport returns the last commanded camera state.
func (c *MapSurfaceController) Viewport() Viewport {
	return c.viewport
}
