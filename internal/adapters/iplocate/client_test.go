package iplocate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/codedsleep/mapd/internal/core/domain"
)

func TestClient_CurrentLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","lat":43.263,"lon":-2.935}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	fix, err := c.CurrentLocation(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fix.Position.Lat != 43.263 || fix.Position.Lng != -2.935 {
		t.Errorf("unexpected position: %+v", fix.Position)
	}
	if fix.Source != domain.FixDevice {
		t.Errorf("expected device source, got %s", fix.Source)
	}
	if fix.AccuracyMeters != 5000.0 {
		t.Errorf("expected nominal IP accuracy, got %g", fix.AccuracyMeters)
	}
	if fix.Time.IsZero() {
		t.Error("expected a timestamp")
	}
}

func TestClient_CurrentLocation_FailStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"fail","message":"private range"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	_, err := c.CurrentLocation(context.Background())
	if !errors.Is(err, domain.ErrGeolocationDenied) {
		t.Fatalf("expected ErrGeolocationDenied, got %v", err)
	}
}

func TestClient_CurrentLocation_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.CurrentLocation(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected a deadline error, got %v", err)
	}
}
