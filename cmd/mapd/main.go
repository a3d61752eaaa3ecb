package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/codedsleep/mapd/internal/adapters/http"
	"github.com/codedsleep/mapd/internal/adapters/iplocate"
	natsadapter "github.com/codedsleep/mapd/internal/adapters/nats"
	"github.com/codedsleep/mapd/internal/adapters/nominatim"
	"github.com/codedsleep/mapd/internal/adapters/osrm"
	"github.com/codedsleep/mapd/internal/adapters/valkey"
	"github.com/codedsleep/mapd/internal/bridge"
	"github.com/codedsleep/mapd/internal/core/domain"
	"github.com/codedsleep/mapd/internal/core/ports"
	"github.com/codedsleep/mapd/internal/core/usecases"
	"github.com/codedsleep/mapd/internal/pkg/config"
	"github.com/codedsleep/mapd/internal/pkg/logging"
	"github.com/codedsleep/mapd/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("mapd")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "text")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Optional cache
	var cache *valkey.Cache
	if cfg.Valkey.Enabled {
		cache, err = valkey.New(cfg.Valkey.Addr)
		if err != nil {
			slog.Warn("valkey unavailable", "error", err)
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	// Optional event mirror
	var nc *natsadapter.Publisher
	if cfg.NATS.Enabled {
		nc, err = natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable", "error", err)
			nc = nil
		} else {
			defer nc.Close()
		}
	}

	// Providers
	routing := osrm.NewClient(cfg.Routing.BaseURL, cfg.Map.Units, cfg.Routing.Timeout)
	geocoder := nominatim.NewClient(cfg.Geocoding.BaseURL, cfg.Geocoding.UserAgent, cfg.Geocoding.Timeout)
	locator := iplocate.NewClient(cfg.Location.ProviderURL, cfg.Location.Timeout)

	// Bridge: a single loop goroutine owns all map state.
	dispatcher := bridge.NewDispatcher()
	loop := bridge.NewLoop(dispatcher)
	renderer := bridge.NewRenderer(0)

	// publisher and cache ports stay nil when the backend is off; the
	// use cases treat nil as "feature disabled".
	var publisher ports.EventPublisher
	if nc != nil {
		publisher = nc
	}
	var routeCache ports.Cache
	if cache != nil {
		routeCache = cache
	}

	ctrl := usecases.NewMapSurfaceController(renderer, cfg.Map.FitPadding)
	tracker := usecases.NewLocationTracker(
		locator, ctrl, publisher, loop.Post,
		cfg.Location.Timeout,
		domain.GeoPoint{Lat: cfg.Location.FallbackLat, Lng: cfg.Location.FallbackLng},
		cfg.Location.FallbackAccuracyM,
		cfg.Map.DefaultZoom,
	)
	coord := usecases.NewRouteRequestCoordinator(
		ctrl, routing, geocoder, routeCache, renderer, publisher,
		loop.Post, cfg.Routing.Profile,
	)

	bridge.Bind(dispatcher, ctrl, tracker, coord)
	go loop.Run(ctx)

	deps := &http.Dependencies{
		Loop:     loop,
		Renderer: renderer,
		NATS:     nc,
		Cache:    cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    256 * 1024,
		AppName:      "mapd",
		ErrorHandler: http.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "http://localhost:8080",
		AllowMethods: "GET,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("map host starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("host stopped")
}
