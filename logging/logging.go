// Package logging builds the zerolog loggers shared by the game, its systems
// and the setup CLI.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger writing to stderr. Debug enables debug level.
func New(debug bool) zerolog.Logger {
	return NewWithWriter(os.Stderr, debug)
}

func NewWithWriter(out io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// Component tags a logger with the subsystem that owns it.
func Component(base zerolog.Logger, name string) zerolog.Logger {
	return base.With().Str("component", name).Logger()
}
