package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapd",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mapd",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	// Bridge metrics
	BridgeMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapd",
		Subsystem: "bridge",
		Name:      "messages_total",
		Help:      "Total bridge messages by direction and channel",
	}, []string{"direction", "channel"})

	BridgeUnroutable = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapd",
		Subsystem: "bridge",
		Name:      "unroutable_total",
		Help:      "Total bridge messages dropped as unrecognized or malformed",
	}, []string{"reason"})

	BridgeOutboundDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mapd",
		Subsystem: "bridge",
		Name:      "outbound_dropped_total",
		Help:      "Outbound messages dropped because no surface drained the queue",
	})

	ActiveSurfaces = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "mapd",
		Subsystem: "bridge",
		Name:      "active_surfaces",
		Help:      "Current number of connected map surfaces",
	})

	// Routing / geocoding metrics
	RouteRequests = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mapd",
		Subsystem: "routing",
		Name:      "requests_total",
		Help:      "Total route requests issued to the routing provider",
	})

	RouteErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mapd",
		Subsystem: "routing",
		Name:      "errors_total",
		Help:      "Total failed route requests",
	})

	RouteStaleDiscards = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mapd",
		Subsystem: "routing",
		Name:      "stale_discards_total",
		Help:      "Late route responses discarded because a newer request superseded them",
	})

	GeocodeRequests = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mapd",
		Subsystem: "geocoding",
		Name:      "requests_total",
		Help:      "Total geocoding lookups issued",
	})

	LocationResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapd",
		Subsystem: "location",
		Name:      "resolutions_total",
		Help:      "Total location resolutions by source (device or simulated)",
	}, []string{"source"})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapd",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapd",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)

		return err
	}
}

// Handler returns a Fiber handler serving the Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
