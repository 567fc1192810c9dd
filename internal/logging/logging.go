// Package logging builds the structured logger shared by library packages.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing to w at the named level. Format "console"
// renders human-readable lines; anything else writes JSON.
func New(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level: %w", err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if strings.EqualFold(format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}
