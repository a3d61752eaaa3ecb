package ports

import (
	"context"

	"github.com/codedsleep/mapd/internal/core/domain"
)

// NoticeLevel grades a notice pushed to the surface.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// SurfaceRenderer pushes render commands to the embedded map surface. The
// surface owns pixels; implementations only enqueue ordered messages and never
// block the caller.
type SurfaceRenderer interface {
	ShowMarker(m domain.Marker)
	RemoveMarker(id domain.MarkerID)
	ShowLocation(fix domain.LocationFix)
	ShowRoute(route domain.Route)
	Recenter(center domain.GeoPoint, zoom int)
	FitBounds(b domain.Bounds)
	Clear()
	Notify(level NoticeLevel, message string)
}

// EventPublisher mirrors resolved host events to a message broker for
// external tooling. Implementations must tolerate a nil receiver pattern at
// the call sites (publishing is best-effort).
type EventPublisher interface {
	PublishLocationFix(ctx context.Context, fix domain.LocationFix) error
	PublishRoute(ctx context.Context, route domain.Route) error
}

// Cache provides read-through caching for provider responses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
