// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger with a console writer and the
// given level ("trace", "debug", "info", "warn", "error"; unknown values
// fall back to info). Returns the configured logger for callers that prefer
// passing one around.
func Setup(level string) zerolog.Logger {
	return SetupWriter(level, os.Stderr)
}

// SetupWriter is Setup with an explicit output, used by tests.
func SetupWriter(level string, out io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	writer := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	logger := zerolog.New(writer).Level(lvl).With().Timestamp().Logger()

	zerolog.SetGlobalLevel(lvl)
	log.Logger = logger
	return logger
}
