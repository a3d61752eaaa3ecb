// Package nominatim talks to a Nominatim-compatible geocoding HTTP API.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/codedsleep/mapd/internal/core/domain"
)

// Client implements ports.Geocoder against a Nominatim server.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewClient creates a geocoding client. Nominatim's usage policy requires an
// identifying User-Agent.
func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		http:      &http.Client{Timeout: timeout},
	}
}

// Geocode resolves a free-text query to candidate places, best match first.
// An empty result set is not an error; the caller decides how to surface it.
func (c *Client) Geocode(ctx context.Context, query string) ([]domain.Place, error) {
	ctx, span := otel.Tracer("mapd/nominatim").Start(ctx, "nominatim.search")
	defer span.End()
	span.SetAttributes(attribute.String("query", query))

	u := fmt.Sprintf("%s/search?format=json&limit=5&q=%s", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build geocode request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: geocoding API HTTP %d", domain.ErrServiceError, resp.StatusCode)
	}

	var results []result
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("%w: decode geocode response: %v", domain.ErrServiceError, err)
	}

	places := make([]domain.Place, 0, len(results))
	for _, r := range results {
		lat, latErr := strconv.ParseFloat(r.Lat, 64)
		lng, lngErr := strconv.ParseFloat(r.Lon, 64)
		if latErr != nil || lngErr != nil {
			continue
		}
		p := domain.GeoPoint{Lat: lat, Lng: lng}
		if !p.Valid() {
			continue
		}
		places = append(places, domain.Place{Name: r.DisplayName, Position: p})
	}
	return places, nil
}

// Nominatim returns coordinates as strings.
type result struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}
