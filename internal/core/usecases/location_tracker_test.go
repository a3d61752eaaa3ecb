package usecases_test

import (
	"context"
	"testing"
	"time"

	"github.com/codedsleep/mapd/internal/core/domain"
	"github.com/codedsleep/mapd/internal/core/usecases"
)

// --- Mock LocationProvider ---

type mockLocationProvider struct {
	currentFn func(ctx context.Context) (*domain.LocationFix, error)
}

func (m *mockLocationProvider) CurrentLocation(ctx context.Context) (*domain.LocationFix, error) {
	if m.currentFn != nil {
		return m.currentFn(ctx)
	}
	return nil, domain.ErrGeolocationDenied
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	fixes  []domain.LocationFix
	routes []domain.Route
}

func (m *mockPublisher) PublishLocationFix(ctx context.Context, fix domain.LocationFix) error {
	m.fixes = append(m.fixes, fix)
	return nil
}

func (m *mockPublisher) PublishRoute(ctx context.Context, route domain.Route) error {
	m.routes = append(m.routes, route)
	return nil
}

// syncPost runs completions inline and signals when one has run, so tests can
// wait out the provider goroutine.
func syncPost() (func(func()), chan struct{}) {
	done := make(chan struct{}, 8)
	return func(f func()) {
		f()
		done <- struct{}{}
	}, done
}

func waitPosted(t *testing.T, done chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("completion never posted")
	}
}

func TestTracker_DeviceFix(t *testing.T) {
	r := &mockRenderer{}
	ctrl := usecases.NewMapSurfaceController(r, 0.15)
	pub := &mockPublisher{}
	post, done := syncPost()

	provider := &mockLocationProvider{
		currentFn: func(ctx context.Context) (*domain.LocationFix, error) {
			return &domain.LocationFix{
				Position:       domain.GeoPoint{Lat: 43.263, Lng: -2.935},
				AccuracyMeters: 25,
			}, nil
		},
	}
	tr := usecases.NewLocationTracker(provider, ctrl, pub, post,
		time.Second, domain.GeoPoint{Lat: 51.5074, Lng: -0.1278}, 10.0, 13)

	tr.Resolve(context.Background())
	waitPosted(t, done)

	fix := tr.Current()
	if fix == nil {
		t.Fatal("expected a resolved fix")
	}
	if fix.Source != domain.FixDevice {
		t.Errorf("expected device source, got %s", fix.Source)
	}
	if r.count("show_location") != 1 || r.count("recenter") != 1 {
		t.Errorf("expected one show_location and one recenter, got %d and %d",
			r.count("show_location"), r.count("recenter"))
	}
	if len(pub.fixes) != 1 {
		t.Errorf("expected 1 published fix, got %d", len(pub.fixes))
	}
}

func TestTracker_DeniedFallsBackToSimulated(t *testing.T) {
	r := &mockRenderer{}
	ctrl := usecases.NewMapSurfaceController(r, 0.15)
	post, done := syncPost()

	provider := &mockLocationProvider{
		currentFn: func(ctx context.Context) (*domain.LocationFix, error) {
			return nil, domain.ErrGeolocationDenied
		},
	}
	tr := usecases.NewLocationTracker(provider, ctrl, nil, post,
		time.Second, domain.GeoPoint{Lat: 51.5074, Lng: -0.1278}, 10.0, 13)

	tr.Resolve(context.Background())
	waitPosted(t, done)

	fix := tr.Current()
	if fix == nil {
		t.Fatal("expected a fix despite denial")
	}
	if fix.Source != domain.FixSimulated {
		t.Fatalf("expected simulated source, got %s", fix.Source)
	}
	if fix.Position.Lat != 51.5074 || fix.Position.Lng != -0.1278 {
		t.Errorf("unexpected fallback position: %+v", fix.Position)
	}
	if fix.AccuracyMeters != 10.0 {
		t.Errorf("expected fallback accuracy 10.0, got %g", fix.AccuracyMeters)
	}
	if _, ok := r.last("notice"); ok {
		t.Error("fallback must not surface a notice")
	}
}

func TestTracker_TimeoutFallsBackToSimulated(t *testing.T) {
	r := &mockRenderer{}
	ctrl := usecases.NewMapSurfaceController(r, 0.15)
	post, done := syncPost()

	provider := &mockLocationProvider{
		currentFn: func(ctx context.Context) (*domain.LocationFix, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	tr := usecases.NewLocationTracker(provider, ctrl, nil, post,
		20*time.Millisecond, domain.GeoPoint{Lat: 51.5074, Lng: -0.1278}, 10.0, 13)

	tr.Resolve(context.Background())
	waitPosted(t, done)

	fix := tr.Current()
	if fix == nil || fix.Source != domain.FixSimulated {
		t.Fatalf("expected simulated fallback after timeout, got %+v", fix)
	}
}

func TestTracker_NilProviderUsesFallback(t *testing.T) {
	r := &mockRenderer{}
	ctrl := usecases.NewMapSurfaceController(r, 0.15)
	post, done := syncPost()

	tr := usecases.NewLocationTracker(nil, ctrl, nil, post,
		time.Second, domain.GeoPoint{Lat: 51.5074, Lng: -0.1278}, 10.0, 13)

	tr.Resolve(context.Background())
	waitPosted(t, done)

	fix := tr.Current()
	if fix == nil || fix.Source != domain.FixSimulated {
		t.Fatalf("expected simulated fix, got %+v", fix)
	}
}

func TestTracker_HistoryAccumulates(t *testing.T) {
	r := &mockRenderer{}
	ctrl := usecases.NewMapSurfaceController(r, 0.15)
	post, done := syncPost()

	tr := usecases.NewLocationTracker(nil, ctrl, nil, post,
		time.Second, domain.GeoPoint{Lat: 51.5074, Lng: -0.1278}, 10.0, 13)

	tr.Resolve(context.Background())
	waitPosted(t, done)
	tr.Resolve(context.Background())
	waitPosted(t, done)

	if got := len(tr.History()); got != 2 {
		t.Errorf("expected 2 retained fixes, got %d", got)
	}
	if r.count("show_location") != 2 {
		t.Errorf("expected 2 show_location commands, got %d", r.count("show_location"))
	}
}

func TestTracker_HistoryBoundedAt100(t *testing.T) {
	r := &mockRenderer{}
	ctrl := usecases.NewMapSurfaceController(r, 0.15)
	post, done := syncPost()

	tr := usecases.NewLocationTracker(nil, ctrl, nil, post,
		time.Second, domain.GeoPoint{Lat: 51.5074, Lng: -0.1278}, 10.0, 13)

	const resolutions = 120
	for i := 0; i < resolutions; i++ {
		tr.Resolve(context.Background())
		waitPosted(t, done)
	}

	if got := len(tr.History()); got != 100 {
		t.Fatalf("expected history capped at 100, got %d", got)
	}
	if r.count("show_location") != resolutions {
		t.Errorf("expected %d show_location commands, got %d",
			resolutions, r.count("show_location"))
	}
}

func TestTracker_ResolveWhileRequestingIsNoop(t *testing.T) {
	r := &mockRenderer{}
	ctrl := usecases.NewMapSurfaceController(r, 0.15)
	post, done := syncPost()

	release := make(chan struct{})
	provider := &mockLocationProvider{
		currentFn: func(ctx context.Context) (*domain.LocationFix, error) {
			<-release
			return &domain.LocationFix{
				Position:       domain.GeoPoint{Lat: 43.263, Lng: -2.935},
				AccuracyMeters: 25,
			}, nil
		},
	}
	tr := usecases.NewLocationTracker(provider, ctrl, nil, post,
		time.Second, domain.GeoPoint{Lat: 51.5074, Lng: -0.1278}, 10.0, 13)

	tr.Resolve(context.Background())
	// Re-entry while the first query is still outstanding must not start
	// another one.
	tr.Resolve(context.Background())
	tr.Resolve(context.Background())

	close(release)
	waitPosted(t, done)

	select {
	case <-done:
		t.Fatal("re-entrant resolve produced a second completion")
	case <-time.After(50 * time.Millisecond):
	}

	if got := len(tr.History()); got != 1 {
		t.Errorf("expected 1 retained fix, got %d", got)
	}
	if r.count("show_location") != 1 || r.count("recenter") != 1 {
		t.Errorf("expected one show_location and one recenter, got %d and %d",
			r.count("show_location"), r.count("recenter"))
	}
}
