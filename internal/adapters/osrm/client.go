// Package osrm talks to an OSRM-compatible routing HTTP API.
package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/codedsleep/mapd/internal/core/domain"
)

// Client implements ports.RoutingProvider against an OSRM server.
type Client struct {
	baseURL string
	units   string // "metric" or "imperial", for instruction text
	http    *http.Client
}

// NewClient creates a routing client. baseURL is the OSRM root, e.g.
// https://router.project-osrm.org.
func NewClient(baseURL, units string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		units:   units,
		http:    &http.Client{Timeout: timeout},
	}
}

// CalculateRoute fetches a route through the waypoints in order.
func (c *Client) CalculateRoute(ctx context.Context, req domain.RouteRequest) (*domain.Route, error) {
	ctx, span := otel.Tracer("mapd/osrm").Start(ctx, "osrm.route")
	defer span.End()
	span.SetAttributes(
		attribute.Int("waypoints", len(req.Waypoints)),
		attribute.String("profile", req.Profile),
	)

	if len(req.Waypoints) < 2 {
		return nil, domain.ErrInsufficientWaypoints
	}

	coords := make([]string, 0, len(req.Waypoints))
	for _, wp := range req.Waypoints {
		// OSRM wants lng,lat order.
		coords = append(coords, fmt.Sprintf("%f,%f", wp.Lng, wp.Lat))
	}

	url := fmt.Sprintf(
		"%s/route/v1/%s/%s?overview=full&geometries=geojson&steps=true&continue_straight=true",
		c.baseURL, req.Profile, strings.Join(coords, ";"),
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build routing request: %w", err)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("routing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: routing API HTTP %d", domain.ErrServiceError, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read routing response: %w", err)
	}

	var osrmResp response
	if err := json.Unmarshal(body, &osrmResp); err != nil {
		return nil, fmt.Errorf("%w: decode routing response: %v", domain.ErrServiceError, err)
	}
	if len(osrmResp.Routes) == 0 {
		return nil, fmt.Errorf("%w: no route found", domain.ErrNoResult)
	}

	r := osrmResp.Routes[0]
	steps := parseSteps(r.Legs, c.units)

	return &domain.Route{
		RequestID:       req.RequestID,
		GeometryGeoJSON: string(r.Geometry),
		DistanceMeters:  r.Distance,
		DurationSeconds: r.Duration,
		StepCount:       uint(len(steps)),
		Steps:           steps,
	}, nil
}

// OSRM API response structures.
type response struct {
	Code   string  `json:"code"`
	Routes []route `json:"routes"`
}

type route struct {
	Distance float64         `json:"distance"`
	Duration float64         `json:"duration"`
	Geometry json.RawMessage `json:"geometry"`
	Legs     []leg           `json:"legs"`
}

type leg struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
	Steps    []step  `json:"steps"`
}

type step struct {
	Distance float64  `json:"distance"`
	Duration float64  `json:"duration"`
	Name     string   `json:"name"`
	Ref      string   `json:"ref"`
	Maneuver maneuver `json:"maneuver"`
}

type maneuver struct {
	Location     [2]float64 `json:"location"` // lng, lat
	Type         string     `json:"type"`
	Modifier     string     `json:"modifier"`
	BearingAfter float64    `json:"bearing_after"`
}
