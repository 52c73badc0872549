package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger with a console writer on stderr.
func Init(level string) {
	InitWithWriter(level, os.Stderr)
}

// InitWithWriter is Init with an explicit destination.
func InitWithWriter(level string, w io.Writer) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(ParseLevel(level))
}

// ParseLevel falls back to info for unknown or empty levels.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
