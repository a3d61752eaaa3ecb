package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedGeometry means a route geometry could not be parsed or has
	// fewer than two points. The previous overlay is left untouched.
	ErrMalformedGeometry = errors.New("malformed route geometry")

	// ErrInsufficientWaypoints means route planning was requested with fewer
	// than two waypoints. No network call is made.
	ErrInsufficientWaypoints = errors.New("at least 2 waypoints are required")

	// ErrGeolocationDenied means the device capability refused the query.
	ErrGeolocationDenied = errors.New("geolocation denied")

	// ErrGeolocationTimeout means the device capability did not answer within
	// the bounded wait.
	ErrGeolocationTimeout = errors.New("geolocation timed out")

	// ErrServiceError means a routing or geocoding call failed. Map state is
	// unchanged.
	ErrServiceError = errors.New("service error")

	// ErrNoResult means a routing or geocoding call succeeded but returned
	// zero results. It classifies as a service error: the provider could not
	// serve the request, and map state is unchanged either way.
	ErrNoResult = fmt.Errorf("%w: no result", ErrServiceError)
)
