package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all host configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Map       MapConfig       `mapstructure:"map"`
	Location  LocationConfig  `mapstructure:"location"`
	Routing   RoutingConfig   `mapstructure:"routing"`
	Geocoding GeocodingConfig `mapstructure:"geocoding"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type MapConfig struct {
	Units       string  `mapstructure:"units"` // "metric" or "imperial"
	DefaultZoom int     `mapstructure:"default_zoom"`
	FitPadding  float64 `mapstructure:"fit_padding"`
}

type LocationConfig struct {
	Timeout           time.Duration `mapstructure:"timeout"`
	ProviderURL       string        `mapstructure:"provider_url"`
	FallbackLat       float64       `mapstructure:"fallback_lat"`
	FallbackLng       float64       `mapstructure:"fallback_lng"`
	FallbackAccuracyM float64       `mapstructure:"fallback_accuracy_m"`
}

type RoutingConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Profile string        `mapstructure:"profile"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type GeocodingConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type NATSConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
	OTLPAddr    string `mapstructure:"otlp_addr"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("map.units", "metric")
	v.SetDefault("map.default_zoom", 13)
	v.SetDefault("map.fit_padding", 0.15)
	v.SetDefault("location.timeout", 5*time.Second)
	v.SetDefault("location.provider_url", "http://ip-api.com/json/")
	// Simulated fallback: central London, the documented coordinate used when
	// the platform capability is denied or times out.
	v.SetDefault("location.fallback_lat", 51.5074)
	v.SetDefault("location.fallback_lng", -0.1278)
	v.SetDefault("location.fallback_accuracy_m", 10.0)
	v.SetDefault("routing.base_url", "https://router.project-osrm.org")
	v.SetDefault("routing.profile", "driving")
	v.SetDefault("routing.timeout", 15*time.Second)
	v.SetDefault("geocoding.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocoding.user_agent", "mapd/1.0")
	v.SetDefault("geocoding.timeout", 10*time.Second)
	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.enabled", false)
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.otlp_addr", "localhost:4317")

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: MAPD_ROUTING_BASE_URL → routing.base_url
	v.SetEnvPrefix("MAPD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Map.Units != "metric" && c.Map.Units != "imperial" {
		errs = append(errs, fmt.Sprintf("map.units must be metric or imperial, got %q", c.Map.Units))
	}
	if c.Map.DefaultZoom < 1 || c.Map.DefaultZoom > 19 {
		errs = append(errs, fmt.Sprintf("map.default_zoom must be 1-19, got %d", c.Map.DefaultZoom))
	}
	if c.Map.FitPadding < 0 || c.Map.FitPadding > 1 {
		errs = append(errs, fmt.Sprintf("map.fit_padding must be 0-1, got %g", c.Map.FitPadding))
	}
	if c.Location.Timeout <= 0 {
		errs = append(errs, "location.timeout must be positive")
	}
	if c.Location.FallbackLat < -90 || c.Location.FallbackLat > 90 {
		errs = append(errs, fmt.Sprintf("location.fallback_lat out of range: %g", c.Location.FallbackLat))
	}
	if c.Location.FallbackLng < -180 || c.Location.FallbackLng > 180 {
		errs = append(errs, fmt.Sprintf("location.fallback_lng out of range: %g", c.Location.FallbackLng))
	}
	if c.Routing.BaseURL == "" {
		errs = append(errs, "routing.base_url is required")
	}
	if c.Routing.Timeout <= 0 {
		errs = append(errs, "routing.timeout must be positive")
	}
	if c.Geocoding.BaseURL == "" {
		errs = append(errs, "geocoding.base_url is required")
	}
	if c.NATS.Enabled && c.NATS.URL == "" {
		errs = append(errs, "nats.url is required when nats.enabled")
	}
	if c.Valkey.Enabled && c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required when valkey.enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
