package bridge_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/codedsleep/mapd/internal/bridge"
)

func TestDispatcher_RoutesToHandler(t *testing.T) {
	d := bridge.NewDispatcher()

	var got json.RawMessage
	d.Handle("location_click", func(ctx context.Context, payload json.RawMessage) error {
		got = payload
		return nil
	})

	d.Dispatch(context.Background(), bridge.Message{
		Channel: "location_click",
		Payload: json.RawMessage(`{"lat":51.5,"lng":-0.1}`),
	})

	if string(got) != `{"lat":51.5,"lng":-0.1}` {
		t.Errorf("handler saw %q", got)
	}
}

func TestDispatcher_UnknownChannelIsDropped(t *testing.T) {
	d := bridge.NewDispatcher()

	called := false
	d.Handle("location_click", func(ctx context.Context, payload json.RawMessage) error {
		called = true
		return nil
	})

	// Must not panic, must not reach the registered handler.
	d.Dispatch(context.Background(), bridge.Message{Channel: "future_feature"})

	if called {
		t.Error("unknown channel reached an unrelated handler")
	}
}

func TestDispatcher_HandlerErrorKeepsChannelOpen(t *testing.T) {
	d := bridge.NewDispatcher()

	calls := 0
	d.Handle("location_click", func(ctx context.Context, payload json.RawMessage) error {
		calls++
		if calls == 1 {
			return errors.New("bad payload")
		}
		return nil
	})

	d.Dispatch(context.Background(), bridge.Message{Channel: "location_click"})
	d.Dispatch(context.Background(), bridge.Message{Channel: "location_click"})

	if calls != 2 {
		t.Errorf("expected the channel to survive a handler error, got %d calls", calls)
	}
}

func TestDispatcher_HandleReplaces(t *testing.T) {
	d := bridge.NewDispatcher()

	first, second := false, false
	d.Handle("x", func(ctx context.Context, payload json.RawMessage) error {
		first = true
		return nil
	})
	d.Handle("x", func(ctx context.Context, payload json.RawMessage) error {
		second = true
		return nil
	})

	d.Dispatch(context.Background(), bridge.Message{Channel: "x"})

	if first || !second {
		t.Error("expected the later registration to win")
	}
}
