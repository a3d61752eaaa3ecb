// Package iplocate resolves a coarse device position from an IP geolocation
// HTTP API. It stands in for a platform geolocation capability on desktops
// without one; the tracker falls back to its simulated coordinate when the
// lookup is refused or too slow.
package iplocate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/codedsleep/mapd/internal/core/domain"
)

// IP-level fixes are city-accurate at best.
const nominalAccuracyMeters = 5000.0

// Client implements ports.LocationProvider against an ip-api style endpoint.
type Client struct {
	url  string
	http *http.Client
}

// NewClient creates a location client. url is the full JSON endpoint, e.g.
// http://ip-api.com/json/.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{url: url, http: &http.Client{Timeout: timeout}}
}

// CurrentLocation queries the endpoint. A "fail" status maps to
// domain.ErrGeolocationDenied; a slow answer surfaces as the caller's context
// deadline.
func (c *Client) CurrentLocation(ctx context.Context) (*domain.LocationFix, error) {
	ctx, span := otel.Tracer("mapd/iplocate").Start(ctx, "iplocate.lookup")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build location request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("location request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: location API HTTP %d", domain.ErrGeolocationDenied, resp.StatusCode)
	}

	var body result
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode location response: %w", err)
	}
	if body.Status == "fail" {
		return nil, fmt.Errorf("%w: %s", domain.ErrGeolocationDenied, body.Message)
	}

	pos := domain.GeoPoint{Lat: body.Lat, Lng: body.Lon}
	if !pos.Valid() {
		return nil, fmt.Errorf("%w: coordinate out of range", domain.ErrGeolocationDenied)
	}

	return &domain.LocationFix{
		Position:       pos,
		AccuracyMeters: nominalAccuracyMeters,
		Source:         domain.FixDevice,
		Time:           time.Now(),
	}, nil
}

type result struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}
