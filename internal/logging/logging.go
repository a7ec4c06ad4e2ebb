// Package logging provides the structured logger every component writes
// stage-transition events through.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the process-wide logger instance.
var Logger zerolog.Logger

// Config controls the global logger's verbosity and rendering.
type Config struct {
	Level  string
	Pretty bool
}

// DefaultConfig mirrors LOG_LEVEL's documented default of "info".
func DefaultConfig() Config {
	return Config{Level: "info", Pretty: true}
}

// Init (re)configures the global logger.
func Init(cfg Config) {
	var output io.Writer = os.Stderr
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	Logger = zerolog.New(output).Level(level).With().Timestamp().Logger()
}

func init() {
	Init(DefaultConfig())
}
