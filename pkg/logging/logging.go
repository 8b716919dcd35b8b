// Package logging builds the zerolog loggers handed to pydesc components.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger on w when debug is set, otherwise a disabled logger
func New(debug bool, w io.Writer) zerolog.Logger {
	if !debug {
		return zerolog.Nop()
	}
	if w == nil {
		w = os.Stderr
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	return zerolog.New(out).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}

// OrNop dereferences an optional logger
func OrNop(l *zerolog.Logger) zerolog.Logger {
	if l == nil {
		return zerolog.Nop()
	}
	return *l
}

// Component annotates l with the component name
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}
