package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the voice token service.
type Config struct {
	// Service settings
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"voice-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8186"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"console"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// OpenTelemetry
	EnableTracing bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OTLPEndpoint  string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`

	// Auth - a signed-in user carries a JWT from the identity provider
	AuthEnabled  bool   `env:"AUTH_ENABLED" envDefault:"false"`
	AuthIssuer   string `env:"ISSUER"`
	AuthAudience string `env:"AUDIENCE"`
	AuthJWKSURL  string `env:"JWKS_URL"`

	// LiveKit. Missing values are reported per request, not at boot.
	LiveKitURL       string        `env:"LIVEKIT_URL"`
	LiveKitAPIKey    string        `env:"LIVEKIT_API_KEY"`
	LiveKitAPISecret string        `env:"LIVEKIT_API_SECRET"`
	LiveKitTokenTTL  time.Duration `env:"LIVEKIT_TOKEN_TTL" envDefault:"6h"`

	// Room presence
	RoomSyncEnabled     bool          `env:"ROOM_SYNC_ENABLED" envDefault:"true"`
	RoomSyncInterval    time.Duration `env:"ROOM_SYNC_INTERVAL" envDefault:"15s"`
	RoomStaleTTL        time.Duration `env:"ROOM_STALE_TTL" envDefault:"10m"` // how long an inactive room stays tracked
	AgentIdentityPrefix string        `env:"AGENT_IDENTITY_PREFIX" envDefault:"agent"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	// Validate auth configuration
	if cfg.AuthEnabled {
		if strings.TrimSpace(cfg.AuthIssuer) == "" {
			return nil, fmt.Errorf("ISSUER is required when AUTH_ENABLED is true")
		}
		if strings.TrimSpace(cfg.AuthJWKSURL) == "" {
			return nil, fmt.Errorf("JWKS_URL is required when AUTH_ENABLED is true")
		}
	}

	if cfg.RoomSyncInterval <= 0 {
		return nil, fmt.Errorf("ROOM_SYNC_INTERVAL must be positive")
	}

	return cfg, nil
}

// Addr returns the HTTP server address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// LiveKitConfigured reports whether the key pair and endpoint URL are all set.
func (c *Config) LiveKitConfigured() bool {
	return strings.TrimSpace(c.LiveKitAPIKey) != "" &&
		strings.TrimSpace(c.LiveKitAPISecret) != "" &&
		strings.TrimSpace(c.LiveKitURL) != ""
}
