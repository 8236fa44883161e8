package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New creates a zerolog.Logger for the given level and format ("console" or "json").
// Unknown levels fall back to info, unknown formats to console.
func New(serviceName, level, format string) zerolog.Logger {
	return NewWithWriter(os.Stdout, serviceName, level, format)
}

// NewWithWriter is New with an explicit output.
func NewWithWriter(out io.Writer, serviceName, level, format string) zerolog.Logger {
	var writer io.Writer = out
	if strings.ToLower(format) != "json" {
		writer = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	base := zerolog.New(writer).
		With().
		Timestamp()
	if serviceName != "" {
		base = base.Str("service", serviceName)
	}
	return base.Logger().Level(parseLevel(level))
}

func parseLevel(raw string) zerolog.Level {
	if raw == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(raw))
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
