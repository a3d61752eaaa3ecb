package usecases

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/codedsleep/mapd/internal/core/domain"
	"github.com/codedsleep/mapd/internal/core/ports"
	"github.com/codedsleep/mapd/internal/pkg/metrics"
)

const fixHistoryLimit = 100

type trackerState int

const (
	trackerIdle trackerState = iota
	trackerRequesting
	trackerResolved
)

// LocationTracker resolves the current position through the platform
// capability, falling back to a fixed simulated coordinate on denial or
// timeout. The fallback is a design choice, not an error: the UI always gets
// some location to center on.
type LocationTracker struct {
	provider  ports.LocationProvider
	ctrl      *MapSurfaceController
	publisher ports.EventPublisher
	post      func(func())

	timeout  time.Duration
	fallback domain.LocationFix
	zoom     int

	state   trackerState
	current *domain.LocationFix
	history []domain.LocationFix
}

// NewLocationTracker creates a tracker. provider and publisher may be nil:
// a nil provider resolves every query through the simulated fallback, and a
// nil publisher skips event mirroring. post marshals completions back onto
// the bridge loop.
func NewLocationTracker(
	provider ports.LocationProvider,
	ctrl *MapSurfaceController,
	publisher ports.EventPublisher,
	post func(func()),
	timeout time.Duration,
	fallback domain.GeoPoint,
	fallbackAccuracyM float64,
	zoom int,
) *LocationTracker {
	return &LocationTracker{
		provider:  provider,
		ctrl:      ctrl,
		publisher: publisher,
		post:      post,
		timeout:   timeout,
		zoom:      zoom,
		fallback: domain.LocationFix{
			Position:       fallback,
			AccuracyMeters: fallbackAccuracyM,
			Source:         domain.FixSimulated,
		},
	}
}

// Resolve issues a location query. Only one query is outstanding at a time;
// calling Resolve while already requesting is a no-op. Must be called from
// the bridge loop.
func (t *LocationTracker) Resolve(ctx context.Context) {
	if t.state == trackerRequesting {
		slog.Debug("location query already in flight")
		return
	}
	t.state = trackerRequesting

	go func() {
		qctx, cancel := context.WithTimeout(ctx, t.timeout)
		defer cancel()

		var fix *domain.LocationFix
		var err error
		if t.provider == nil {
			err = domain.ErrGeolocationDenied
		} else {
			fix, err = t.provider.CurrentLocation(qctx)
			if errors.Is(err, context.DeadlineExceeded) {
				err = domain.ErrGeolocationTimeout
			}
		}
		t.post(func() { t.complete(ctx, fix, err) })
	}()
}

// complete runs on the bridge loop. Exactly one SetLocationFix, one Recenter,
// and one published event per resolution, device-backed or simulated.
func (t *LocationTracker) complete(ctx context.Context, fix *domain.LocationFix, err error) {
	t.state = trackerResolved

	if err != nil || fix == nil {
		f := t.fallback
		f.Time = time.Now()
		fix = &f
		slog.Info("using simulated location",
			"reason", err,
			"lat", f.Position.Lat, "lng", f.Position.Lng)
	} else {
		fix.Source = domain.FixDevice
		if fix.Time.IsZero() {
			fix.Time = time.Now()
		}
	}

	t.current = fix
	t.history = append(t.history, *fix)
	if len(t.history) > fixHistoryLimit {
		t.history = t.history[len(t.history)-fixHistoryLimit:]
	}

	t.ctrl.SetLocationFix(*fix)
	t.ctrl.Recenter(fix.Position, t.zoom)

	if t.publisher != nil {
		if perr := t.publisher.PublishLocationFix(ctx, *fix); perr != nil {
			slog.Warn("location fix publish failed", "error", perr)
		}
	}

	metrics.LocationResolutions.WithLabelValues(string(fix.Source)).Inc()
}

// Current returns the live fix, or nil before the first resolution.
func (t *LocationTracker) Current() *domain.LocationFix {
	return t.current
}

// History returns the retained fixes, oldest first, bounded at 100.
func (t *LocationTracker) History() []domain.LocationFix {
	return t.history
}
