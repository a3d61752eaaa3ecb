package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/codedsleep/mapd/internal/core/domain"
	"github.com/codedsleep/mapd/internal/core/ports"
	"github.com/codedsleep/mapd/internal/pkg/metrics"
)

const (
	searchZoom    = 15
	routeCacheTTL = 300 // seconds
)

// RouteRequestCoordinator orchestrates outbound routing and geocoding
// requests and feeds results back into the surface controller. Requests are
// identified by a monotonic id; a late response whose id is not the most
// recent issued is discarded, so a slow stale response can never overwrite a
// fresher route.
type RouteRequestCoordinator struct {
	ctrl      *MapSurfaceController
	routing   ports.RoutingProvider
	geocoder  ports.Geocoder
	cache     ports.Cache
	renderer  ports.SurfaceRenderer
	publisher ports.EventPublisher
	post      func(func())

	profile string

	nextRouteID  uint64
	latestRoute  uint64
	nextSearchID uint64
	latestSearch uint64
}

// NewRouteRequestCoordinator creates a coordinator. cache and publisher may
// be nil; post marshals network completions back onto the bridge loop.
func NewRouteRequestCoordinator(
	ctrl *MapSurfaceController,
	routing ports.RoutingProvider,
	geocoder ports.Geocoder,
	cache ports.Cache,
	renderer ports.SurfaceRenderer,
	publisher ports.EventPublisher,
	post func(func()),
	profile string,
) *RouteRequestCoordinator {
	if profile == "" {
		profile = "driving"
	}
	return &RouteRequestCoordinator{
		ctrl:      ctrl,
		routing:   routing,
		geocoder:  geocoder,
		cache:     cache,
		renderer:  renderer,
		publisher: publisher,
		post:      post,
		profile:   profile,
	}
}

// PlanRoute issues a routing request across waypoints in click order. Fewer
// than two waypoints is rejected before any network call. Must be called
// from the bridge loop.
func (c *RouteRequestCoordinator) PlanRoute(ctx context.Context, waypoints []domain.GeoPoint) error {
	if len(waypoints) < 2 {
		c.renderer.Notify(ports.NoticeWarning,
			"Place at least 2 points on the map to plan a route")
		return domain.ErrInsufficientWaypoints
	}

	c.nextRouteID++
	id := c.nextRouteID
	c.latestRoute = id

	req := domain.RouteRequest{RequestID: id, Waypoints: waypoints, Profile: c.profile}
	metrics.RouteRequests.Inc()

	// Read-through cache: identical waypoint lists reuse the last answer.
	key := c.routeCacheKey(waypoints)
	if c.cache != nil {
		if data, err := c.cache.Get(ctx, key); err == nil {
			var route domain.Route
			if err := json.Unmarshal(data, &route); err == nil {
				metrics.CacheHits.WithLabelValues("route").Inc()
				c.completeRoute(ctx, id, key, &route, nil)
				return nil
			}
		}
		metrics.CacheMisses.WithLabelValues("route").Inc()
	}

	go func() {
		route, err := c.routing.CalculateRoute(ctx, req)
		c.post(func() { c.completeRoute(ctx, id, key, route, err) })
	}()
	return nil
}

// completeRoute runs on the bridge loop.
func (c *RouteRequestCoordinator) completeRoute(ctx context.Context, id uint64, cacheKey string, route *domain.Route, err error) {
	if id != c.latestRoute {
		slog.Debug("stale route response discarded", "request_id", id, "latest", c.latestRoute)
		metrics.RouteStaleDiscards.Inc()
		return
	}

	if err != nil {
		metrics.RouteErrors.Inc()
		slog.Warn("route request failed", "request_id", id, "error", err)
		c.renderer.Notify(ports.NoticeError, "Route calculation failed: "+userMessage(err))
		return
	}

	route.RequestID = id
	if rerr := c.ctrl.RenderRoute(*route); rerr != nil {
		metrics.RouteErrors.Inc()
		slog.Warn("route geometry rejected", "request_id", id, "error", rerr)
		c.renderer.Notify(ports.NoticeError, "Route calculation failed: "+userMessage(rerr))
		return
	}

	if c.cache != nil {
		if data, merr := json.Marshal(route); merr == nil {
			_ = c.cache.Set(ctx, cacheKey, data, routeCacheTTL)
		}
	}
	if c.publisher != nil {
		if perr := c.publisher.PublishRoute(ctx, *route); perr != nil {
			slog.Warn("route publish failed", "error", perr)
		}
	}
}

// Geocode resolves a free-text query. The first match becomes a search
// marker and the viewport recenters on it; no match surfaces a notice and
// leaves map state untouched. Must be called from the bridge loop.
func (c *RouteRequestCoordinator) Geocode(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		c.renderer.Notify(ports.NoticeWarning, "Enter a location to search for")
		return domain.ErrNoResult
	}

	c.nextSearchID++
	id := c.nextSearchID
	c.latestSearch = id
	metrics.GeocodeRequests.Inc()

	key := "geocode:" + strings.ToLower(query)
	if c.cache != nil {
		if data, err := c.cache.Get(ctx, key); err == nil {
			var places []domain.Place
			if err := json.Unmarshal(data, &places); err == nil {
				metrics.CacheHits.WithLabelValues("geocode").Inc()
				c.completeSearch(ctx, id, query, key, places, nil)
				return nil
			}
		}
		metrics.CacheMisses.WithLabelValues("geocode").Inc()
	}

	go func() {
		places, err := c.geocoder.Geocode(ctx, query)
		c.post(func() { c.completeSearch(ctx, id, query, key, places, err) })
	}()
	return nil
}

// completeSearch runs on the bridge loop.
func (c *RouteRequestCoordinator) completeSearch(ctx context.Context, id uint64, query, cacheKey string, places []domain.Place, err error) {
	if id != c.latestSearch {
		slog.Debug("stale geocode response discarded", "request_id", id)
		return
	}

	if err != nil && !errors.Is(err, domain.ErrNoResult) {
		slog.Warn("geocode failed", "query", query, "error", err)
		c.renderer.Notify(ports.NoticeError, "Search failed: "+userMessage(err))
		return
	}
	if len(places) == 0 {
		slog.Info("geocode returned no results", "query", query)
		c.renderer.Notify(ports.NoticeWarning, fmt.Sprintf("No results for %q", query))
		return
	}

	place := places[0]
	label := place.Name
	if label == "" {
		label = query
	}
	c.ctrl.AddMarker(place.Position, label, domain.SearchResult)
	c.ctrl.Recenter(place.Position, searchZoom)

	if c.cache != nil {
		if data, merr := json.Marshal(places); merr == nil {
			_ = c.cache.Set(ctx, cacheKey, data, routeCacheTTL)
		}
	}
}

func (c *RouteRequestCoordinator) routeCacheKey(waypoints []domain.GeoPoint) string {
	var b strings.Builder
	b.WriteString("route:")
	b.WriteString(c.profile)
	for _, p := range waypoints {
		fmt.Fprintf(&b, ":%.6f,%.6f", p.Lat, p.Lng)
	}
	return b.String()
}

// userMessage strips wrapping detail down to something the surface can show.
func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrMalformedGeometry):
		return "the routing service returned unusable geometry"
	case errors.Is(err, domain.ErrNoResult):
		return "no route found"
	case errors.Is(err, domain.ErrServiceError):
		return "the service is unavailable"
	default:
		return err.Error()
	}
}
