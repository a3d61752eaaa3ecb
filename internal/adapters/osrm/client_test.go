package osrm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/codedsleep/mapd/internal/core/domain"
)

const routeResponse = `{
	"code": "Ok",
	"routes": [{
		"distance": 1800.5,
		"duration": 240.2,
		"geometry": {"type":"LineString","coordinates":[[-0.1278,51.5074],[-0.08,51.51]]},
		"legs": [{
			"distance": 1800.5,
			"duration": 240.2,
			"steps": [
				{"distance": 900, "duration": 120, "name": "Strand",
				 "maneuver": {"location": [-0.1278, 51.5074], "type": "depart", "bearing_after": 85}},
				{"distance": 0, "duration": 0, "name": "",
				 "maneuver": {"location": [-0.08, 51.51], "type": "arrive"}}
			]
		}]
	}]
}`

func TestClient_CalculateRoute(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(routeResponse))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "metric", 5*time.Second)
	route, err := c.CalculateRoute(context.Background(), domain.RouteRequest{
		RequestID: 3,
		Waypoints: []domain.GeoPoint{
			{Lat: 51.5074, Lng: -0.1278},
			{Lat: 51.51, Lng: -0.08},
		},
		Profile: "driving",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// OSRM takes lng,lat pairs in the path.
	if !strings.HasPrefix(gotPath, "/route/v1/driving/-0.127800,51.507400;") {
		t.Errorf("unexpected request path: %s", gotPath)
	}
	for _, param := range []string{"overview=full", "geometries=geojson", "steps=true"} {
		if !strings.Contains(gotQuery, param) {
			t.Errorf("query missing %s: %s", param, gotQuery)
		}
	}

	if route.RequestID != 3 {
		t.Errorf("request id not carried through: %d", route.RequestID)
	}
	if route.DistanceMeters != 1800.5 || route.DurationSeconds != 240.2 {
		t.Errorf("unexpected totals: %+v", route)
	}
	if !strings.Contains(route.GeometryGeoJSON, "LineString") {
		t.Errorf("geometry not preserved: %s", route.GeometryGeoJSON)
	}
	if route.StepCount != 2 || len(route.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(route.Steps))
	}
	if route.Steps[1].Text != "Arrive at your destination" {
		t.Errorf("unexpected final step: %q", route.Steps[1].Text)
	}
}

func TestClient_CalculateRoute_NoRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"NoRoute","routes":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "metric", 5*time.Second)
	_, err := c.CalculateRoute(context.Background(), domain.RouteRequest{
		Waypoints: []domain.GeoPoint{{Lat: 0, Lng: 0}, {Lat: 1, Lng: 1}},
		Profile:   "driving",
	})
	if !errors.Is(err, domain.ErrNoResult) {
		t.Fatalf("expected ErrNoResult, got %v", err)
	}
}

func TestClient_CalculateRoute_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "metric", 5*time.Second)
	_, err := c.CalculateRoute(context.Background(), domain.RouteRequest{
		Waypoints: []domain.GeoPoint{{Lat: 0, Lng: 0}, {Lat: 1, Lng: 1}},
		Profile:   "driving",
	})
	if !errors.Is(err, domain.ErrServiceError) {
		t.Fatalf("expected ErrServiceError, got %v", err)
	}
}

func TestClient_CalculateRoute_TooFewWaypoints(t *testing.T) {
	c := NewClient("http://unused", "metric", time.Second)
	_, err := c.CalculateRoute(context.Background(), domain.RouteRequest{
		Waypoints: []domain.GeoPoint{{Lat: 0, Lng: 0}},
	})
	if !errors.Is(err, domain.ErrInsufficientWaypoints) {
		t.Fatalf("expected ErrInsufficientWaypoints, got %v", err)
	}
}
