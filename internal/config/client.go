package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// ClientConfig holds configuration for the voice-client binary.
// Flags override these values.
type ClientConfig struct {
	ServerURL    string        `env:"VOICE_SERVER_URL" envDefault:"http://localhost:8186"`
	Room         string        `env:"VOICE_ROOM" envDefault:"voice-assistant"`
	Name         string        `env:"VOICE_NAME" envDefault:"user"`
	AuthToken    string        `env:"VOICE_AUTH_TOKEN"`
	MicFile      string        `env:"VOICE_MIC_FILE"`
	RecordDir    string        `env:"VOICE_RECORD_DIR" envDefault:"recordings"`
	PublishAudio bool          `env:"VOICE_PUBLISH_AUDIO" envDefault:"true"`
	TokenTimeout time.Duration `env:"VOICE_TOKEN_TIMEOUT" envDefault:"10s"`
	LogLevel     string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat    string        `env:"LOG_FORMAT" envDefault:"console"`
}

// LoadClient parses environment variables into ClientConfig.
func LoadClient() (*ClientConfig, error) {
	cfg := &ClientConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}
	return cfg, nil
}

// Validate checks the values the client cannot run without.
func (c *ClientConfig) Validate() error {
	if strings.TrimSpace(c.ServerURL) == "" {
		return fmt.Errorf("VOICE_SERVER_URL is required")
	}
	if c.TokenTimeout <= 0 {
		return fmt.Errorf("VOICE_TOKEN_TIMEOUT must be positive")
	}
	return nil
}
