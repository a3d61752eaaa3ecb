package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/codedsleep/mapd/internal/core/domain"
	"github.com/codedsleep/mapd/internal/core/usecases"
)

// Bind registers the surface → host channel handlers. The dispatcher runs
// them on the bridge loop, so the controller methods are safe to call
// directly.
func Bind(
	d *Dispatcher,
	ctrl *usecases.MapSurfaceController,
	tracker *usecases.LocationTracker,
	coord *usecases.RouteRequestCoordinator,
) {
	d.Handle(ChanLocationClick, func(ctx context.Context, payload json.RawMessage) error {
		var click LocationClick
		if err := json.Unmarshal(payload, &click); err != nil {
			return fmt.Errorf("decode location_click: %w", err)
		}
		pos := domain.GeoPoint{Lat: click.Lat, Lng: click.Lng}
		if !pos.Valid() {
			return fmt.Errorf("location_click out of range: %.4f, %.4f", click.Lat, click.Lng)
		}
		ctrl.AddMarker(pos, "", domain.ClickMarker)
		return nil
	})

	d.Handle(ChanRequestRoute, func(ctx context.Context, payload json.RawMessage) error {
		err := coord.PlanRoute(ctx, ctrl.Waypoints())
		if errors.Is(err, domain.ErrInsufficientWaypoints) {
			// Already surfaced as a notice; the message itself was well-formed.
			return nil
		}
		return err
	})

	d.Handle(ChanSearchLocation, func(ctx context.Context, payload json.RawMessage) error {
		var search SearchLocation
		if err := json.Unmarshal(payload, &search); err != nil {
			return fmt.Errorf("decode search_location: %w", err)
		}
		_ = coord.Geocode(ctx, search.Query)
		return nil
	})

	d.Handle(ChanRequestLocation, func(ctx context.Context, payload json.RawMessage) error {
		tracker.Resolve(ctx)
		return nil
	})

	d.Handle(ChanRequestClear, func(ctx context.Context, payload json.RawMessage) error {
		ctrl.ClearAll()
		return nil
	})
}
