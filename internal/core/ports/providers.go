package ports

import (
	"context"

	"github.com/codedsleep/mapd/internal/core/domain"
)

// RoutingProvider computes a route through an ordered waypoint list.
type RoutingProvider interface {
	CalculateRoute(ctx context.Context, req domain.RouteRequest) (*domain.Route, error)
}

// Geocoder resolves a free-text query to candidate places.
type Geocoder interface {
	Geocode(ctx context.Context, query string) ([]domain.Place, error)
}

// LocationProvider is the platform geolocation capability. It returns a
// device-backed fix, or domain.ErrGeolocationDenied when the platform refuses.
type LocationProvider interface {
	CurrentLocation(ctx context.Context) (*domain.LocationFix, error)
}
