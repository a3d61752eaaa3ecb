package http

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	"github.com/codedsleep/mapd/internal/bridge"
	"github.com/codedsleep/mapd/internal/pkg/metrics"
)

// WebSocketHandler returns a handler that upgrades the map surface
// connection and relays bridge frames in both directions: raw inbound
// frames go to the loop, outbound messages from the renderer are
// written back as JSON.
func WebSocketHandler(loop *bridge.Loop, renderer *bridge.Renderer) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		remoteAddr := c.RemoteAddr().String()
		slog.Info("surface connected", "remote_addr", remoteAddr)
		metrics.ActiveSurfaces.Inc()
		defer metrics.ActiveSurfaces.Dec()

		var mu sync.Mutex

		// Helper: thread-safe write
		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		done := make(chan struct{})

		// Outbound: drain host -> surface messages from the renderer.
		go func() {
			for {
				select {
				case msg := <-renderer.Outbound():
					if err := writeJSON(msg); err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		// Keep-alive ping
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		// Inbound: every surface frame is handed to the bridge loop,
		// which owns validation and dispatch.
		for {
			_, raw, err := c.ReadMessage()
			if err != nil {
				break
			}
			loop.Submit(raw)
		}

		close(done)
		slog.Info("surface disconnected", "remote_addr", remoteAddr)
	}
}
