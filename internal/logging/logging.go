// Package logging wraps zerolog for the batch tools in this repo.
//
// Every binary here is an operator-run script, so the default output is the
// human-readable console writer; set LOG_FORMAT=json when shipping output to
// a collector.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	// Level: debug, info, warn, error. Default info.
	Level string
	// Format: console or json. Default console.
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
}

var log = newLogger(Config{})

// Init replaces the package logger. Call once from main before other packages
// log anything.
func Init(cfg Config) {
	log = newLogger(cfg)
}

func newLogger(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if strings.ToLower(cfg.Format) != "json" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}

	level := zerolog.InfoLevel
	if l, err := zerolog.ParseLevel(strings.ToLower(cfg.Level)); err == nil && cfg.Level != "" {
		level = l
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func Debug() *zerolog.Event { return log.Debug() }
func Info() *zerolog.Event  { return log.Info() }
func Warn() *zerolog.Event  { return log.Warn() }
func Error() *zerolog.Event { return log.Error() }
func Fatal() *zerolog.Event { return log.Fatal() }
