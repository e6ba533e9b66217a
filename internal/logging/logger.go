// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Output formats understood by New.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Options configures the process logger.
type Options struct {
	// Level is a zerolog level name (trace, debug, info, warn, error). Unknown values mean warn.
	Level string
	// Format is FormatConsole or FormatJSON.
	Format string
	// Writer defaults to os.Stderr so log lines never mix with command output.
	Writer io.Writer
}

// New builds a zerolog.Logger from opts.
func New(opts Options) zerolog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	if !strings.EqualFold(opts.Format, FormatJSON) {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(ParseLevel(opts.Level)).With().Timestamp().Logger()
}

// ParseLevel maps a level name to a zerolog.Level, defaulting to warn.
func ParseLevel(name string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || name == "" {
		return zerolog.WarnLevel
	}
	return lvl
}
